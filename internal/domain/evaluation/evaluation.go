// Package evaluation holds the candidate ranking model.
package evaluation

import "github.com/kailas-cloud/candisearch/internal/domain"

// NotFound marks a profile link the resume does not contain.
const NotFound = "Not found"

// Status is the processing outcome for one candidate.
type Status string

// Candidate evaluation status values.
const (
	StatusOK    Status = "ok"
	StatusError Status = "error"
)

// Summary is the oracle's structured digest of a resume.
type Summary struct {
	WorkExperience string `json:"work_experience_summary"`
	Skills         string `json:"skills_summary"`
	Education      string `json:"education_summary"`
	Projects       string `json:"projects_summary"`
	LinkedIn       string `json:"linkedin"`
	GitHub         string `json:"github"`
}

// EmptySummary is used when the oracle output cannot be parsed.
func EmptySummary() Summary {
	return Summary{LinkedIn: NotFound, GitHub: NotFound}
}

// Result is one candidate's evaluation. A failed candidate keeps its id and
// the error; the run carries on.
type Result struct {
	Candidate domain.Candidate `json:"candidate"`
	Summary   Summary          `json:"summary"`
	Score     int              `json:"score"`
	Rationale string           `json:"rationale"`
	Status    Status           `json:"status"`
	err       error
}

// NewOK creates a successful result.
func NewOK(c domain.Candidate, s Summary, score int, rationale string) Result {
	return Result{Candidate: c, Summary: s, Score: score, Rationale: rationale, Status: StatusOK}
}

// NewError creates a failed result for candidate id.
func NewError(c domain.Candidate, err error) Result {
	return Result{Candidate: c, Status: StatusError, err: err}
}

// Err returns the failure, if any.
func (r Result) Err() error { return r.err }

// ErrorMessage returns the failure text, empty on success.
func (r Result) ErrorMessage() string {
	if r.err == nil {
		return ""
	}
	return r.err.Error()
}

// Run is a ranking of every candidate against one set of requirements.
type Run struct {
	ID           string   `json:"id"`
	Requirements string   `json:"requirements"`
	Results      []Result `json:"results"`
}

// Failed counts candidates that could not be evaluated.
func (r *Run) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Status == StatusError {
			n++
		}
	}
	return n
}
