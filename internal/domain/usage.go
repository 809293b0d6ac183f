package domain

import (
	"context"
	"sync"
)

type usageKey struct{}

// Usage collects provider token usage for a single request.
// The transport puts a pointer into the context, providers add to it, and the
// transport reads it back for response headers. Evaluation runs call providers from
// several workers, hence the mutex.
type Usage struct {
	mu              sync.Mutex
	oracleCalls     int
	oracleTokens    int
	embeddingTokens int
}

// NewContextWithUsage returns a context with a fresh usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *Usage) {
	u := &Usage{}
	return context.WithValue(ctx, usageKey{}, u), u
}

// UsageFromContext returns the collector, or nil when none is attached.
func UsageFromContext(ctx context.Context) *Usage {
	u, _ := ctx.Value(usageKey{}).(*Usage)
	return u
}

// AddOracle records one oracle call.
func (u *Usage) AddOracle(tokens int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.oracleCalls++
	u.oracleTokens += tokens
	u.mu.Unlock()
}

// AddEmbedding records embedding tokens.
func (u *Usage) AddEmbedding(tokens int) {
	if u == nil {
		return
	}
	u.mu.Lock()
	u.embeddingTokens += tokens
	u.mu.Unlock()
}

// Snapshot returns oracle calls, oracle tokens and embedding tokens.
func (u *Usage) Snapshot() (calls, oracleTokens, embeddingTokens int) {
	if u == nil {
		return 0, 0, 0
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.oracleCalls, u.oracleTokens, u.embeddingTokens
}
