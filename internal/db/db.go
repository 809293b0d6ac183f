package db

import (
	"context"
	"time"
)

// Index is the search index facade combining the sub-interfaces.
// Consumers depend on the narrow ones.
type Index interface {
	Pinger
	KVStore
	Searcher
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides simple key-value operations.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Searcher provides search operations over FT indexes.
type Searcher interface {
	SearchKNN(ctx context.Context, q *KNNQuery) (*SearchResult, error)
	SearchBM25(ctx context.Context, q *TextQuery) (*SearchResult, error)
	SearchList(ctx context.Context, q *ListQuery) (*SearchResult, error)
}

// Querier runs read-only SQL against the relational store.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (*Rows, error)
}

// Rows is a fully materialized result set.
type Rows struct {
	Columns []string
	Values  [][]any
}
