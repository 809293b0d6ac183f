package synthesize

const system = "You answer questions about candidates using only the data provided."

const template = `Candidate records (structured store):
%s

Relevant resume excerpts (semantic search):
%s

Question: %s

Answer concisely and accurately, focusing only on the candidate(s) in question.`
