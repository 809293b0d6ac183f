package classify

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/candisearch/internal/domain/route"
)

const systemPrompt = "You route questions for a candidate search application. Reply with a single label."

const hybridTemplate = `Pick the retrieval path for the question below.

- structured: fixed candidate attributes such as name, email, location, status or candidate id.
- semantic: resume content such as skills, technologies, experience, projects or education.
- both: the question needs a candidate's attributes and their resume content.

Question: %q
Answer with exactly one of: %s.`

const singleTemplate = `Pick the retrieval path for the question below.

- resume: skills, technologies, experience, tools, programming languages, qualifications, certifications or anything else in the resume text.
- metadata: fixed candidate attributes such as name, email, location, status, interview status or candidate id.

Questions about what a candidate knows or has done are resume questions.

Question: %q
Answer with exactly one of: %s.`

func userPrompt(set route.Set, query string) string {
	labels := strings.Join(set.Names(), ", ")
	if set.Name == route.Single.Name {
		return fmt.Sprintf(singleTemplate, query, labels)
	}
	return fmt.Sprintf(hybridTemplate, query, labels)
}
