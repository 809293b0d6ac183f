// Package route defines the retrieval paths a query can be dispatched to.
package route

import "strings"

// Label is a route decision.
type Label string

// Hybrid variant labels.
const (
	Structured Label = "structured"
	Semantic   Label = "semantic"
	Both       Label = "both"
)

// Single-path variant labels.
const (
	Resume   Label = "resume"
	Metadata Label = "metadata"
)

// Structured reports whether the label fires the relational path.
func (l Label) Structured() bool {
	return l == Structured || l == Both || l == Metadata
}

// Semantic reports whether the label fires the resume index path.
func (l Label) Semantic() bool {
	return l == Semantic || l == Both || l == Resume
}

// Decision is a classifier output. Fallback is set when the oracle answer
// was unusable and the variant default was substituted.
type Decision struct {
	Label    Label  `json:"route"`
	Fallback bool   `json:"fallback"`
	Raw      string `json:"-"`
}

// Set is one classifier variant: its labels and the fallback used when the
// oracle answers outside of them.
type Set struct {
	Name    string
	Labels  []Label
	Default Label
	aliases map[string]Label
}

// Hybrid is the structured/semantic/both variant. It falls back to semantic
// search, which never executes generated SQL.
var Hybrid = Set{
	Name:    "hybrid",
	Labels:  []Label{Structured, Semantic, Both},
	Default: Semantic,
	aliases: map[string]Label{
		"sql":    Structured,
		"vector": Semantic,
	},
}

// Single is the resume/metadata variant.
var Single = Set{
	Name:    "single",
	Labels:  []Label{Resume, Metadata},
	Default: Resume,
	aliases: map[string]Label{
		"resume_search":   Resume,
		"metadata_search": Metadata,
	},
}

// ByName returns the variant for "hybrid" or "single". Empty selects hybrid.
func ByName(name string) (Set, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", Hybrid.Name:
		return Hybrid, true
	case Single.Name:
		return Single, true
	default:
		return Set{}, false
	}
}

// Parse normalizes a raw oracle answer and matches it against the set.
func (s Set) Parse(raw string) (Label, bool) {
	v := strings.ToLower(strings.TrimSpace(raw))
	v = strings.Trim(v, " \t\r\n.,;:!?\"'`*")
	if v == "" {
		return "", false
	}
	for _, l := range s.Labels {
		if v == string(l) {
			return l, true
		}
	}
	if l, ok := s.aliases[v]; ok {
		return l, true
	}
	return "", false
}

// Names returns the labels as strings, for prompts.
func (s Set) Names() []string {
	out := make([]string, len(s.Labels))
	for i, l := range s.Labels {
		out[i] = string(l)
	}
	return out
}
