package classify

import (
	"context"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

// Oracle completes classification prompts.
type Oracle interface {
	Complete(ctx context.Context, p domain.Prompt) (string, error)
}
