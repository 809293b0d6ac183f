package synthesize

import (
	"context"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

// Oracle writes the final answer.
type Oracle interface {
	Complete(ctx context.Context, p domain.Prompt) (string, error)
}

// Counter measures text in model tokens.
type Counter interface {
	Count(text string) int
}
