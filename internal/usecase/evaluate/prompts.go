package evaluate

const summarySystem = "You summarize resumes into JSON."

const summaryTemplate = `Summarize the resume below. Return JSON only with the keys
"work_experience_summary", "skills_summary", "education_summary", "projects_summary",
"linkedin" and "github". Use "Not found" for a profile link the resume does not contain.

Resume:
%s`

const scoreSystem = "You are a hiring evaluator."

const scoreTemplate = `Given the structured SUMMARY (JSON) and JOB REQUIREMENTS (plain text),
assign a candidate_score from 0 to 100. Weigh:
- Skill match (40%%)
- Relevant years, roles and industries (30%%)
- Education relevance (10%%)
- Projects impact and recency (10%%)
- Public profile activity and quality (10%%)

Return JSON only: {"candidate_score": <int>, "rationale": "<one paragraph>"}

SUMMARY:
%s

JOB REQUIREMENTS:
%s`
