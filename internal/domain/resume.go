package domain

// ResumeHit is a scored resume snippet returned by the search index.
// Score is attached by the index and never persisted.
type ResumeHit struct {
	CandidateID string  `json:"candidate_id"`
	Content     string  `json:"content"`
	Score       float64 `json:"score"`
}

// Resume is the full resume document of a single candidate.
type Resume struct {
	CandidateID string `json:"candidate_id"`
	Content     string `json:"content"`
}

// ResumeQuery is a resume similarity search. A vector selects KNN, otherwise
// Text runs as BM25. A non-empty IDs scopes the search to those candidates.
type ResumeQuery struct {
	Text   string
	Vector []float32
	IDs    []string
	TopK   int
}
