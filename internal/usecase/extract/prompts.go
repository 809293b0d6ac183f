package extract

const filterSystem = "You extract a single metadata filter and answer with JSON only."

const filterTemplate = `Extract one metadata filter from the question. Allowed columns: %s.
Return JSON only, with keys "column" and "value".
If the question has no usable filter, return {"column": null, "value": null}.

Examples:
- "list all candidates from toronto" -> {"column": "location", "value": "Toronto"}
- "show candidates interviewed last month" -> {"column": "status", "value": "Interviewed"}
- "get emails of shortlisted candidates" -> {"column": "status", "value": "Shortlisted"}

Question: %q`

const nameSystem = "You extract candidate names from questions."

const nameTemplate = `Extract only the candidate's full name from the question.
If the question names nobody, answer with an empty string.

Question: %q
Candidate name:`
