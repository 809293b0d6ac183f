// Package allowlist holds the vocabulary that may appear in generated SQL.
package allowlist

import (
	"fmt"
	"strings"
)

// Column maps a logical column name to its storage column.
type Column struct {
	Name    string
	Storage string
}

// List is an immutable set of permitted columns and predicate keywords.
type List struct {
	columns  []Column
	byName   map[string]string
	keywords map[string]struct{}
}

// DefaultColumns are the candidate table columns in table order.
var DefaultColumns = []Column{
	{Name: "candidate_id", Storage: "candidate_id"},
	{Name: "name", Storage: "name"},
	{Name: "status", Storage: "status"},
	{Name: "email", Storage: "email"},
	{Name: "location", Storage: "location"},
}

// DefaultKeywords are the predicate keywords and comparison operators.
var DefaultKeywords = []string{
	"=", "<", ">", "<=", ">=", "<>", "!=",
	"like", "and", "or", "not", "in", "where", "is", "null", "between",
}

var defaultList = MustNew(DefaultColumns, DefaultKeywords)

// Default returns the process-wide allow-list.
func Default() *List { return defaultList }

// New validates and builds a List. Names and keywords are lower-cased.
func New(columns []Column, keywords []string) (*List, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("allow-list needs at least one column")
	}
	l := &List{
		columns:  make([]Column, 0, len(columns)),
		byName:   make(map[string]string, len(columns)),
		keywords: make(map[string]struct{}, len(keywords)),
	}
	for _, c := range columns {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		storage := strings.TrimSpace(c.Storage)
		if storage == "" {
			storage = name
		}
		if !isIdentifier(name) || !isIdentifier(strings.ToLower(storage)) {
			return nil, fmt.Errorf("invalid column %q -> %q", c.Name, c.Storage)
		}
		if _, dup := l.byName[name]; dup {
			return nil, fmt.Errorf("duplicate column %q", name)
		}
		l.byName[name] = storage
		l.columns = append(l.columns, Column{Name: name, Storage: storage})
	}
	for _, k := range keywords {
		k = strings.ToLower(strings.TrimSpace(k))
		if k == "" {
			continue
		}
		if _, clash := l.byName[k]; clash {
			return nil, fmt.Errorf("keyword %q collides with a column", k)
		}
		l.keywords[k] = struct{}{}
	}
	return l, nil
}

// MustNew is New that panics, for package-level defaults.
func MustNew(columns []Column, keywords []string) *List {
	l, err := New(columns, keywords)
	if err != nil {
		panic(err)
	}
	return l
}

// Storage returns the storage column for a logical name (case-insensitive).
func (l *List) Storage(name string) (string, bool) {
	s, ok := l.byName[strings.ToLower(strings.TrimSpace(name))]
	return s, ok
}

// HasColumn reports whether name is a permitted column.
func (l *List) HasColumn(name string) bool {
	_, ok := l.Storage(name)
	return ok
}

// HasKeyword reports whether tok is a permitted keyword or operator.
func (l *List) HasKeyword(tok string) bool {
	_, ok := l.keywords[strings.ToLower(tok)]
	return ok
}

// Columns returns a copy of the columns in table order.
func (l *List) Columns() []Column {
	out := make([]Column, len(l.columns))
	copy(out, l.columns)
	return out
}

// Names returns the logical column names in table order.
func (l *List) Names() []string {
	out := make([]string, len(l.columns))
	for i, c := range l.columns {
		out[i] = c.Name
	}
	return out
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
