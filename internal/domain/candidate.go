package domain

// Candidate is a row of the candidates table. Read-only from this service's perspective.
type Candidate struct {
	ID       string `json:"candidate_id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	Email    string `json:"email"`
	Location string `json:"location"`
}

// Row is a single structured result keyed by logical column name.
type Row map[string]any

// Filter is a single (column, value) metadata filter.
// An empty Column means no filter was detected; an empty Value asks for the
// column to be projected across every row.
type Filter struct {
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`
}

// IsZero reports whether no filter was detected.
func (f Filter) IsZero() bool { return f.Column == "" }

// IsProjection reports whether the filter asks for a column over all rows.
func (f Filter) IsProjection() bool { return f.Column != "" && f.Value == "" }

// RowSet is a structured retrieval result. SQL is empty for parameterized lookups.
type RowSet struct {
	SQL  string `json:"sql,omitempty"`
	Rows []Row  `json:"rows"`
}
