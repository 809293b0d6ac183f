package evaluate

import (
	"context"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

// Candidates reads candidate metadata.
type Candidates interface {
	ListIDs(ctx context.Context) ([]string, error)
	Get(ctx context.Context, id string) (domain.Candidate, error)
}

// Resumes fetches full resume text.
type Resumes interface {
	Resume(ctx context.Context, id string) (domain.Resume, error)
}

// Oracle summarizes and scores candidates.
type Oracle interface {
	Complete(ctx context.Context, p domain.Prompt) (string, error)
}
