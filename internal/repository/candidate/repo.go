package candidate

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/candisearch/internal/db"
	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/allowlist"
	"github.com/kailas-cloud/candisearch/internal/domain/query"
)

// Logical column names the repository relies on.
const (
	ColumnID       = "candidate_id"
	ColumnName     = "name"
	ColumnStatus   = "status"
	ColumnEmail    = "email"
	ColumnLocation = "location"
)

// store is the consumer interface for the relational store (ISP).
type store interface {
	Query(ctx context.Context, query string, args ...any) (*db.Rows, error)
}

// Repo reads candidate metadata. It only ever issues SELECTs.
type Repo struct {
	store store
	allow *allowlist.List
	table string
}

// New creates a candidate repository over table.
func New(s store, al *allowlist.List, table string) *Repo {
	return &Repo{store: s, allow: al, table: table}
}

// Table returns the candidates table name.
func (r *Repo) Table() string { return r.table }

// AllowList returns the column vocabulary.
func (r *Repo) AllowList() *allowlist.List { return r.allow }

// Run executes a validated query and zips each row against q.Columns.
func (r *Repo) Run(ctx context.Context, q query.Query) ([]domain.Row, error) {
	rows, err := r.store.Query(ctx, q.SQL, q.Args...)
	if err != nil {
		return nil, fmt.Errorf("run query: %w", err)
	}
	if len(rows.Columns) != len(q.Columns) {
		return nil, fmt.Errorf("run query: got %d columns, want %d", len(rows.Columns), len(q.Columns))
	}

	out := make([]domain.Row, 0, len(rows.Values))
	for _, vals := range rows.Values {
		row := make(domain.Row, len(q.Columns))
		for i, name := range q.Columns {
			row[name] = vals[i]
		}
		out = append(out, row)
	}
	return out, nil
}

// Project returns column for every row. A column outside the allow-list
// yields an empty result without touching the store.
func (r *Repo) Project(ctx context.Context, column string) ([]domain.Row, error) {
	q, err := query.Projection(r.allow, r.table, column)
	if err != nil {
		return []domain.Row{}, nil //nolint:nilerr // fail closed
	}
	return r.Run(ctx, q)
}

// FilterEqual returns full rows whose column equals value, ignoring case.
func (r *Repo) FilterEqual(ctx context.Context, column, value string) ([]domain.Row, error) {
	q, err := query.Equality(r.allow, r.table, column, value)
	if err != nil {
		return nil, err
	}
	return r.Run(ctx, q)
}

// ResolveFuzzy returns ids of candidates whose name or email contains any of
// the tokens, ignoring case. Tokens are OR-ed.
func (r *Repo) ResolveFuzzy(ctx context.Context, tokens []string) ([]string, error) {
	id, name, email, err := r.identityColumns()
	if err != nil {
		return nil, err
	}

	var (
		clauses []string
		args    []any
	)
	for _, t := range tokens {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		pattern := "%" + likeEscaper.Replace(t) + "%"
		clauses = append(clauses, fmt.Sprintf(
			`(LOWER(%s) LIKE ? ESCAPE '\' OR LOWER(%s) LIKE ? ESCAPE '\')`, name, email))
		args = append(args, pattern, pattern)
	}
	if len(clauses) == 0 {
		return nil, nil
	}

	sql := fmt.Sprintf("SELECT DISTINCT %s FROM %s WHERE %s ORDER BY %s",
		id, r.table, strings.Join(clauses, " OR "), id)
	return r.ids(ctx, sql, args...)
}

// ResolveExact returns the single candidate whose full name equals name,
// ignoring case.
func (r *Repo) ResolveExact(ctx context.Context, name string) (string, error) {
	id, nameCol, _, err := r.identityColumns()
	if err != nil {
		return "", err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	sql := fmt.Sprintf("SELECT %s FROM %s WHERE LOWER(%s) = LOWER(?) ORDER BY %s LIMIT 2",
		id, r.table, nameCol, id)
	ids, err := r.ids(ctx, sql, name)
	if err != nil {
		return "", err
	}
	switch len(ids) {
	case 0:
		return "", fmt.Errorf("candidate %q: %w", name, domain.ErrCandidateNotFound)
	case 1:
		return ids[0], nil
	default:
		return "", fmt.Errorf("candidate %q: %w", name, domain.ErrAmbiguousCandidate)
	}
}

// Get returns one candidate by id.
func (r *Repo) Get(ctx context.Context, id string) (domain.Candidate, error) {
	idCol, ok := r.allow.Storage(ColumnID)
	if !ok {
		return domain.Candidate{}, fmt.Errorf("allow-list has no %s column", ColumnID)
	}

	names, storage := r.allColumns()
	q := query.Query{
		SQL: fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?",
			strings.Join(storage, ", "), r.table, idCol),
		Columns: names,
		Args:    []any{id},
	}
	rows, err := r.Run(ctx, q)
	if err != nil {
		return domain.Candidate{}, fmt.Errorf("get candidate %s: %w", id, err)
	}
	if len(rows) == 0 {
		return domain.Candidate{}, fmt.Errorf("candidate %s: %w", id, domain.ErrCandidateNotFound)
	}
	return toCandidate(rows[0]), nil
}

// ListIDs returns every candidate id in order.
func (r *Repo) ListIDs(ctx context.Context) ([]string, error) {
	idCol, ok := r.allow.Storage(ColumnID)
	if !ok {
		return nil, fmt.Errorf("allow-list has no %s column", ColumnID)
	}
	return r.ids(ctx, fmt.Sprintf("SELECT %s FROM %s ORDER BY %s", idCol, r.table, idCol))
}

func (r *Repo) ids(ctx context.Context, sql string, args ...any) ([]string, error) {
	rows, err := r.store.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	out := make([]string, 0, len(rows.Values))
	for _, vals := range rows.Values {
		if len(vals) == 0 || vals[0] == nil {
			continue
		}
		out = append(out, fmt.Sprint(vals[0]))
	}
	return out, nil
}

func (r *Repo) identityColumns() (id, name, email string, err error) {
	var ok bool
	if id, ok = r.allow.Storage(ColumnID); !ok {
		return "", "", "", fmt.Errorf("allow-list has no %s column", ColumnID)
	}
	if name, ok = r.allow.Storage(ColumnName); !ok {
		return "", "", "", fmt.Errorf("allow-list has no %s column", ColumnName)
	}
	if email, ok = r.allow.Storage(ColumnEmail); !ok {
		return "", "", "", fmt.Errorf("allow-list has no %s column", ColumnEmail)
	}
	return id, name, email, nil
}

func (r *Repo) allColumns() (names, storage []string) {
	for _, c := range r.allow.Columns() {
		names = append(names, c.Name)
		storage = append(storage, c.Storage)
	}
	return names, storage
}

func toCandidate(row domain.Row) domain.Candidate {
	return domain.Candidate{
		ID:       str(row[ColumnID]),
		Name:     str(row[ColumnName]),
		Status:   str(row[ColumnStatus]),
		Email:    str(row[ColumnEmail]),
		Location: str(row[ColumnLocation]),
	}
}

func str(v any) string {
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
