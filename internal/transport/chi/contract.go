package chi

import (
	"context"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/evaluation"
	healthuc "github.com/kailas-cloud/candisearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/candisearch/internal/usecase/search"
)

// Asker answers free-text questions about candidates.
type Asker interface {
	Ask(ctx context.Context, mode, question string) (*searchuc.Outcome, error)
}

// Resumes searches and fetches resume documents.
type Resumes interface {
	Search(ctx context.Context, text string, ids []string, topK int) ([]domain.ResumeHit, error)
	Resume(ctx context.Context, id string) (domain.Resume, error)
}

// Resolver maps names to candidate ids.
type Resolver interface {
	Resolve(ctx context.Context, nameText string) ([]string, error)
	ResolveOne(ctx context.Context, name string) (string, error)
}

// Evaluator ranks every candidate against job requirements.
type Evaluator interface {
	Evaluate(ctx context.Context, requirements string) (*evaluation.Run, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
