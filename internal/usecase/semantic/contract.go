package semantic

import (
	"context"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

// Repository reads resumes from the search index.
type Repository interface {
	Search(ctx context.Context, q domain.ResumeQuery) ([]domain.ResumeHit, error)
	Get(ctx context.Context, id string) (domain.Resume, error)
}

// Embedder vectorizes query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}
