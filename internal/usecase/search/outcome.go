package search

import (
	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/route"
)

// State is a step of request handling.
type State string

// Request states, in the order they can be entered.
const (
	StateReceived          State = "received"
	StateClassified        State = "classified"
	StateStructuredPending State = "structured_pending"
	StateSemanticPending   State = "semantic_pending"
	StateSynthesizing      State = "synthesizing"
	StateDone              State = "done"
	StateError             State = "error"
)

// Outcome is everything one question produced. On failure it holds whatever
// completed before the error.
type Outcome struct {
	RequestID     string             `json:"request_id"`
	Variant       string             `json:"variant"`
	Route         route.Label        `json:"route,omitempty"`
	Fallback      bool               `json:"fallback"`
	Filter        *domain.Filter     `json:"filter,omitempty"`
	SQL           string             `json:"sql,omitempty"`
	Rows          []domain.Row       `json:"rows,omitempty"`
	CandidateName string             `json:"candidate_name,omitempty"`
	CandidateIDs  []string           `json:"candidate_ids,omitempty"`
	NameNotFound  bool               `json:"name_not_found,omitempty"`
	NameTooBroad  bool               `json:"name_too_broad,omitempty"`
	Hits          []domain.ResumeHit `json:"hits,omitempty"`
	Answer        string             `json:"answer,omitempty"`
	States        []State            `json:"states"`
}

func (o *Outcome) enter(s State) { o.States = append(o.States, s) }

// Last returns the final state reached.
func (o *Outcome) Last() State {
	if len(o.States) == 0 {
		return ""
	}
	return o.States[len(o.States)-1]
}
