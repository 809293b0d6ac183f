package search

import (
	"context"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/route"
)

// Classifier picks the retrieval route.
type Classifier interface {
	Classify(ctx context.Context, set route.Set, query string) route.Decision
}

// Extractor derives filters and names from the question.
type Extractor interface {
	Filter(ctx context.Context, query string) (domain.Filter, error)
	CandidateName(ctx context.Context, query string) (string, error)
	NameFromPhrase(query string) string
}

// Structured runs the relational path.
type Structured interface {
	Generate(ctx context.Context, question string) (domain.RowSet, error)
	ByFilter(ctx context.Context, f domain.Filter) (domain.RowSet, error)
}

// Semantic runs the resume index path.
type Semantic interface {
	Search(ctx context.Context, text string, ids []string, topK int) ([]domain.ResumeHit, error)
}

// Resolver maps names to candidate ids.
type Resolver interface {
	Resolve(ctx context.Context, nameText string) ([]string, error)
	ResolveOne(ctx context.Context, name string) (string, error)
}

// Synthesizer merges both result sets into one answer.
type Synthesizer interface {
	Synthesize(ctx context.Context, question string, rows []domain.Row, hits []domain.ResumeHit) (string, error)
}
