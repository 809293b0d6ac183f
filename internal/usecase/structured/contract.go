package structured

import (
	"context"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/allowlist"
	"github.com/kailas-cloud/candisearch/internal/domain/query"
)

// Oracle proposes SELECT/WHERE lines for a question.
type Oracle interface {
	Complete(ctx context.Context, p domain.Prompt) (string, error)
}

// Repository executes validated queries against the candidates table.
type Repository interface {
	Run(ctx context.Context, q query.Query) ([]domain.Row, error)
	Project(ctx context.Context, column string) ([]domain.Row, error)
	FilterEqual(ctx context.Context, column, value string) ([]domain.Row, error)
	Table() string
	AllowList() *allowlist.List
}
