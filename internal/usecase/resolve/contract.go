package resolve

import "context"

// Repository looks candidates up by name.
type Repository interface {
	ResolveFuzzy(ctx context.Context, tokens []string) ([]string, error)
	ResolveExact(ctx context.Context, name string) (string, error)
}
