package relational

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/kailas-cloud/candisearch/internal/db"
	"github.com/kailas-cloud/candisearch/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(`CREATE TABLE candidates (candidate_id TEXT PRIMARY KEY, name TEXT, raw BLOB, score REAL)`); err != nil {
		t.Fatal(err)
	}
	if _, err := conn.Exec(`INSERT INTO candidates VALUES ('1', 'Ada', X'6869', 4.5), ('2', NULL, NULL, NULL)`); err != nil {
		t.Fatal(err)
	}
	return New(conn)
}

func TestQuery_Materializes(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.Query(context.Background(), "SELECT candidate_id, name, raw, score FROM candidates ORDER BY candidate_id")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows.Columns) != 4 || rows.Columns[1] != "name" {
		t.Errorf("unexpected columns %v", rows.Columns)
	}
	if len(rows.Values) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows.Values))
	}
	if rows.Values[0][2] != "hi" {
		t.Errorf("blob should be normalized to string, got %#v", rows.Values[0][2])
	}
	if rows.Values[1][1] != nil {
		t.Errorf("NULL should stay nil, got %#v", rows.Values[1][1])
	}
}

func TestQuery_Args(t *testing.T) {
	s := newTestStore(t)

	rows, err := s.Query(context.Background(), "SELECT name FROM candidates WHERE LOWER(name) = LOWER(?)", "ADA")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows.Values) != 1 || rows.Values[0][0] != "Ada" {
		t.Errorf("unexpected rows %v", rows.Values)
	}
}

func TestQuery_BadSQL(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Query(context.Background(), "SELECT nope FROM candidates")
	var dbErr *db.Error
	if !errors.As(err, &dbErr) || dbErr.Op != db.OpQuery {
		t.Errorf("expected QUERY db.Error, got %v", err)
	}
}

func TestQuery_ClosedPool(t *testing.T) {
	s := newTestStore(t)
	s.Close()

	_, err := s.Query(context.Background(), "SELECT 1")
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
	if err := s.Ping(context.Background()); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("ping: expected ErrStoreUnavailable, got %v", err)
	}
}

func TestOpen_RequiresDSN(t *testing.T) {
	if _, err := Open(Config{}); err == nil {
		t.Error("expected error for empty dsn")
	}
}
