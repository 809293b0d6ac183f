package candidate

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"github.com/kailas-cloud/candisearch/internal/db"
	"github.com/kailas-cloud/candisearch/internal/db/relational"
	"github.com/kailas-cloud/candisearch/internal/domain/allowlist"
)

const seed = `
CREATE TABLE candidates (
	candidate_id TEXT PRIMARY KEY,
	name         TEXT,
	status       TEXT,
	email        TEXT,
	location     TEXT
);
INSERT INTO candidates VALUES
	('1', 'John Doe',    'Hired',       'john.doe@example.com', 'Toronto'),
	('2', 'Jane Smith',  'Applied',     'jane@smith.io',        'Vancouver'),
	('3', 'Alice Wong',  'Interviewed', 'alice@example.com',    'toronto'),
	('4', 'Bob Jones',   'Rejected',    'bob_j@example.com',    'Paris'),
	('5', 'john doe',    'Applied',     'jd2@example.com',      'Berlin');
`

func newTestRepo(t *testing.T) *Repo {
	t.Helper()
	conn, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	conn.SetMaxOpenConns(1)
	t.Cleanup(func() { conn.Close() })

	if _, err := conn.Exec(seed); err != nil {
		t.Fatal(err)
	}
	return New(relational.New(conn), allowlist.Default(), "candidates")
}

// countingStore records how many queries reach the store.
type countingStore struct {
	calls int
}

func (c *countingStore) Query(_ context.Context, _ string, _ ...any) (*db.Rows, error) {
	c.calls++
	return &db.Rows{}, nil
}
