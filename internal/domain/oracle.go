package domain

import "context"

// Prompt is a single request to the text-generation oracle.
// Purpose names the pipeline step for logs and metrics ("classify", "extract", ...).
type Prompt struct {
	Purpose     string
	System      string
	User        string
	Temperature float32
}

// Oracle is the external text-generation service. Its output is untrusted:
// anything that reaches the structured store must pass the query validator first.
type Oracle interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}
