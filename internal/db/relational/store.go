// Package relational is the read-only candidate metadata store.
package relational

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite" // registers the "sqlite" driver

	"github.com/kailas-cloud/candisearch/internal/db"
	"github.com/kailas-cloud/candisearch/internal/domain"
)

var _ db.Querier = (*Store)(nil)

// Config holds connection parameters for the relational store.
type Config struct {
	Driver       string
	DSN          string
	MaxOpenConns int
}

// Store runs SELECTs over database/sql. Every call checks out its own
// connection and returns it before the call ends.
type Store struct {
	db *sql.DB
}

// Open opens the database. It does not create or migrate anything.
func Open(cfg Config) (*Store, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = "sqlite"
	}
	if cfg.DSN == "" {
		return nil, fmt.Errorf("dsn is required")
	}

	conn, err := sql.Open(driver, cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	return &Store{db: conn}, nil
}

// New wraps an existing handle.
func New(conn *sql.DB) *Store {
	return &Store{db: conn}
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return &db.Error{Op: db.OpConn, Err: fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)}
	}
	return nil
}

// Close closes the pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Query runs a read query and materializes the result.
func (s *Store) Query(ctx context.Context, query string, args ...any) (*db.Rows, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return nil, &db.Error{Op: db.OpConn, Err: fmt.Errorf("%w: %w", domain.ErrStoreUnavailable, err)}
	}
	defer conn.Close()

	rows, err := conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	out := &db.Rows{Columns: cols}
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, &db.Error{Op: db.OpScan, Err: err}
		}
		for i, v := range vals {
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		out.Values = append(out.Values, vals)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return out, nil
}
