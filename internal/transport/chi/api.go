package chi

import (
	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/evaluation"
)

// ErrorCode is a machine-readable error class.
type ErrorCode string

// Error codes returned in ErrorResponse.
const (
	CodeBadRequest         ErrorCode = "bad_request"
	CodeUnauthorized       ErrorCode = "unauthorized"
	CodeUnsafeQuery        ErrorCode = "unsafe_query"
	CodeCandidateNotFound  ErrorCode = "candidate_not_found"
	CodeAmbiguousCandidate ErrorCode = "ambiguous_candidate"
	CodeOracleUnavailable  ErrorCode = "oracle_unavailable"
	CodeEmbeddingError     ErrorCode = "embedding_provider_error"
	CodeStoreUnavailable   ErrorCode = "store_unavailable"
	CodeIndexUnavailable   ErrorCode = "index_unavailable"
	CodeInternalError      ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Reason  string    `json:"reason,omitempty"` // unsafe_query only
}

// AskRequest is the body of POST /v1/ask.
type AskRequest struct {
	Query string `json:"query"`
	Mode  string `json:"mode,omitempty"`
}

// SearchRequest is the body of POST /v1/resumes/search.
type SearchRequest struct {
	Query        string   `json:"query"`
	CandidateIDs []string `json:"candidate_ids,omitempty"`
	TopK         int      `json:"top_k,omitempty"`
}

// SearchResponse lists resume hits best first.
type SearchResponse struct {
	Items []domain.ResumeHit `json:"items"`
	Count int                `json:"count"`
}

// ResolveResponse lists candidate ids matched by a name.
type ResolveResponse struct {
	Name         string   `json:"name"`
	CandidateIDs []string `json:"candidate_ids"`
}

// EvaluationRequest is the body of POST /v1/evaluations.
type EvaluationRequest struct {
	Requirements string `json:"requirements"`
}

// EvaluationResponse is a completed ranking.
type EvaluationResponse struct {
	ID           string                 `json:"id"`
	Requirements string                 `json:"requirements"`
	Failed       int                    `json:"failed"`
	Results      []EvaluationResultItem `json:"results"`
}

// EvaluationResultItem is one ranked candidate.
type EvaluationResultItem struct {
	Candidate domain.Candidate   `json:"candidate"`
	Summary   evaluation.Summary `json:"summary"`
	Score     int                `json:"score"`
	Rationale string             `json:"rationale,omitempty"`
	Status    evaluation.Status  `json:"status"`
	Error     string             `json:"error,omitempty"`
}

func evaluationToAPI(run *evaluation.Run) EvaluationResponse {
	items := make([]EvaluationResultItem, len(run.Results))
	for i, r := range run.Results {
		items[i] = EvaluationResultItem{
			Candidate: r.Candidate,
			Summary:   r.Summary,
			Score:     r.Score,
			Rationale: r.Rationale,
			Status:    r.Status,
		}
		if r.Err() != nil {
			items[i].Error = safeDomainMessage(r.Err())
		}
	}
	return EvaluationResponse{
		ID:           run.ID,
		Requirements: run.Requirements,
		Failed:       run.Failed(),
		Results:      items,
	}
}
