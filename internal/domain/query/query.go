// Package query builds structured queries from oracle-proposed text.
//
// The builder is an allow-list validator, not a SQL parser: it bounds the token
// vocabulary of a predicate and never interprets it. Two independent passes run
// over every clause. The denylist pass rejects mutation, separator, comment and
// set-operator tokens anywhere in the clause, literals included. The vocabulary
// pass strips quoted literals and requires every remaining identifier to be an
// allow-listed column or keyword.
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/allowlist"
)

// Query is an executable, validated SELECT.
type Query struct {
	SQL string
	// Columns are the logical names of the result columns, in order.
	Columns []string
	// Where is the predicate exactly as proposed.
	Where string
	Args  []any
}

var denyKeywords = []string{
	"drop", "delete", "update", "insert", "alter", "truncate", "create", "replace",
	"merge", "attach", "detach", "pragma", "grant", "revoke",
	"union", "intersect", "except", "exec", "execute",
}

var denySymbols = []string{";", "--", "/*", "*/", "#"}

var (
	denyKeywordRe = regexp.MustCompile(`\b(` + strings.Join(denyKeywords, "|") + `)\b`)
	literalRe     = regexp.MustCompile(`'[^']*'`)
)

// Build validates the select list and predicate and returns
// SELECT <columns> FROM <table> WHERE <where>.
func Build(al *allowlist.List, table, selectColumns, where string) (Query, error) {
	if err := checkTable(table); err != nil {
		return Query{}, err
	}

	names, storage, err := selectList(al, selectColumns)
	if err != nil {
		return Query{}, err
	}

	where = strings.TrimSpace(where)
	if where == "" {
		return Query{}, domain.NewSafetyError(domain.SafetyMalformed, "empty predicate")
	}
	if err := checkDenylist(where); err != nil {
		return Query{}, err
	}
	if err := checkVocabulary(al, where); err != nil {
		return Query{}, err
	}

	return Query{
		SQL:     fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(storage, ", "), table, where),
		Columns: names,
		Where:   where,
	}, nil
}

// Projection builds SELECT <column> FROM <table> for an allow-listed column.
func Projection(al *allowlist.List, table, column string) (Query, error) {
	if err := checkTable(table); err != nil {
		return Query{}, err
	}
	name := strings.ToLower(strings.TrimSpace(column))
	s, ok := al.Storage(name)
	if !ok {
		return Query{}, domain.NewSafetyError(domain.SafetyColumn, "column %q is not allowed", column)
	}
	return Query{
		SQL:     fmt.Sprintf("SELECT %s FROM %s", s, table),
		Columns: []string{name},
	}, nil
}

// Equality builds a case-insensitive equality lookup on column returning every
// allow-listed column. The value is bound as a parameter.
func Equality(al *allowlist.List, table, column, value string) (Query, error) {
	if err := checkTable(table); err != nil {
		return Query{}, err
	}
	s, ok := al.Storage(column)
	if !ok {
		return Query{}, domain.NewSafetyError(domain.SafetyColumn, "column %q is not allowed", column)
	}
	names, storage := all(al)
	where := fmt.Sprintf("LOWER(%s) = LOWER(?)", s)
	return Query{
		SQL:     fmt.Sprintf("SELECT %s FROM %s WHERE %s", strings.Join(storage, ", "), table, where),
		Columns: names,
		Where:   where,
		Args:    []any{value},
	}, nil
}

func all(al *allowlist.List) (names, storage []string) {
	for _, c := range al.Columns() {
		names = append(names, c.Name)
		storage = append(storage, c.Storage)
	}
	return names, storage
}

func selectList(al *allowlist.List, raw string) (names, storage []string, err error) {
	for _, part := range strings.Split(raw, ",") {
		col := strings.ToLower(strings.TrimSpace(part))
		if col == "" {
			continue
		}
		s, ok := al.Storage(col)
		if !ok {
			return nil, nil, domain.NewSafetyError(domain.SafetyColumn, "column %q is not allowed", strings.TrimSpace(part))
		}
		names = append(names, col)
		storage = append(storage, s)
	}
	if len(names) == 0 {
		return nil, nil, domain.NewSafetyError(domain.SafetyMalformed, "empty select list")
	}
	return names, storage, nil
}

func checkTable(table string) error {
	if table == "" {
		return domain.NewSafetyError(domain.SafetyMalformed, "empty table name")
	}
	for i, r := range table {
		if r == '_' || isLetter(r) || (i > 0 && isDigit(r)) {
			continue
		}
		return domain.NewSafetyError(domain.SafetyMalformed, "invalid table name %q", table)
	}
	return nil
}

func checkDenylist(where string) error {
	lower := strings.ToLower(where)
	for _, sym := range denySymbols {
		if strings.Contains(lower, sym) {
			return domain.NewSafetyError(domain.SafetyDenylist, "forbidden token %q", sym)
		}
	}
	if m := denyKeywordRe.FindString(lower); m != "" {
		return domain.NewSafetyError(domain.SafetyDenylist, "forbidden token %q", m)
	}
	return nil
}

func checkVocabulary(al *allowlist.List, where string) error {
	stripped := literalRe.ReplaceAllString(strings.ToLower(where), " ")
	if strings.Contains(stripped, "'") {
		return domain.NewSafetyError(domain.SafetyMalformed, "unterminated string literal")
	}

	for _, tok := range tokenize(stripped) {
		switch tok.kind {
		case tokIdent:
			if storage, ok := al.Storage(tok.text); ok {
				// the clause runs verbatim, so it may only name columns stored under their own name
				if !strings.EqualFold(storage, tok.text) {
					return domain.NewSafetyError(domain.SafetyVocabulary,
						"column %q cannot be filtered on: it is stored as %q", tok.text, storage)
				}
				continue
			}
			if !al.HasKeyword(tok.text) {
				return domain.NewSafetyError(domain.SafetyVocabulary, "identifier %q is not allowed", tok.text)
			}
		case tokOperator:
			if !al.HasKeyword(tok.text) {
				return domain.NewSafetyError(domain.SafetyVocabulary, "operator %q is not allowed", tok.text)
			}
		case tokInvalid:
			return domain.NewSafetyError(domain.SafetyVocabulary, "unexpected character %q", tok.text)
		}
	}
	return nil
}
