package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/allowlist"
	"github.com/kailas-cloud/candisearch/internal/logger"
)

var (
	explicitRe = regexp.MustCompile(`([a-zA-Z0-9_ ]+)\s*=\s*['"]?([^'"]+)['"]?`)
	fromRe     = regexp.MustCompile(`(?i)from ([a-zA-Z ]+)`)
	phraseRe   = regexp.MustCompile(`(?i)(?:skills|experience|resume|projects|worked) of ([a-zA-Z]+(?: [a-zA-Z]+)*)`)
	fenceRe    = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")
)

// Service derives filters and candidate names from questions.
type Service struct {
	oracle      Oracle
	allow       *allowlist.List
	aggregateRe *regexp.Regexp
}

// New creates an extractor. The aggregate phrase pattern is built from the allow-list.
func New(oracle Oracle, al *allowlist.List) *Service {
	names := al.Names()
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = regexp.QuoteMeta(n)
	}
	return &Service{
		oracle: oracle,
		allow:  al,
		aggregateRe: regexp.MustCompile(
			`(?i)(?:give|list|show|get)\s+(` + strings.Join(quoted, "|") + `)\s+of\s+all\s+candidates`),
	}
}

// Filter applies the layers in order: explicit "col = val", "from <place>",
// "<verb> <col> of all candidates", then the oracle. The returned column is
// normalized but not checked against the allow-list. An unparseable oracle
// answer yields the zero filter; only an oracle failure is an error.
func (s *Service) Filter(ctx context.Context, query string) (domain.Filter, error) {
	if m := explicitRe.FindStringSubmatch(query); m != nil {
		return domain.Filter{Column: NormalizeColumn(m[1]), Value: strings.TrimSpace(m[2])}, nil
	}
	if m := fromRe.FindStringSubmatch(query); m != nil {
		return domain.Filter{Column: "location", Value: strings.TrimSpace(m[1])}, nil
	}
	if m := s.aggregateRe.FindStringSubmatch(query); m != nil {
		return domain.Filter{Column: NormalizeColumn(m[1])}, nil
	}
	return s.oracleFilter(ctx, query)
}

func (s *Service) oracleFilter(ctx context.Context, query string) (domain.Filter, error) {
	raw, err := s.oracle.Complete(ctx, domain.Prompt{
		Purpose: "extract",
		System:  filterSystem,
		User:    fmt.Sprintf(filterTemplate, strings.Join(s.allow.Names(), ", "), query),
	})
	if err != nil {
		return domain.Filter{}, fmt.Errorf("extract filter: %w", err)
	}

	parsed, ok := parseFilterJSON(raw)
	if !ok {
		logger.FromContext(ctx).Warn("unparseable filter extraction", zap.String("raw", raw))
		return domain.Filter{}, nil
	}
	return parsed, nil
}

// parseFilterJSON accepts fenced output and single-quoted JSON-like objects.
func parseFilterJSON(raw string) (domain.Filter, bool) {
	out := StripFences(raw)

	var obj map[string]any
	if err := json.Unmarshal([]byte(out), &obj); err != nil {
		if err = json.Unmarshal([]byte(strings.ReplaceAll(out, "'", `"`)), &obj); err != nil {
			return domain.Filter{}, false
		}
	}

	col, _ := obj["column"].(string)
	col = NormalizeColumn(col)
	if col == "" {
		return domain.Filter{}, true
	}
	return domain.Filter{Column: col, Value: scalar(obj["value"])}, true
}

func scalar(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64, bool:
		return fmt.Sprint(x)
	default:
		return ""
	}
}

// CandidateName asks the oracle for the person a question is about.
// An empty string means nobody is named.
func (s *Service) CandidateName(ctx context.Context, query string) (string, error) {
	raw, err := s.oracle.Complete(ctx, domain.Prompt{
		Purpose: "extract_name",
		System:  nameSystem,
		User:    fmt.Sprintf(nameTemplate, query),
	})
	if err != nil {
		return "", fmt.Errorf("extract candidate name: %w", err)
	}

	name := strings.Trim(strings.TrimSpace(StripFences(raw)), "\"'`.")
	switch strings.ToLower(name) {
	case "none", "null", "n/a", "empty string", "no name":
		return "", nil
	}
	return name, nil
}

// NameFromPhrase finds "skills of Alice Wong" style references without the oracle.
func (s *Service) NameFromPhrase(query string) string {
	m := phraseRe.FindStringSubmatch(query)
	if m == nil {
		return ""
	}
	return strings.Trim(m[1], "?.! ")
}

// NormalizeColumn trims, lower-cases and replaces spaces with underscores.
func NormalizeColumn(col string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(col)), " ", "_")
}

// StripFences removes a surrounding markdown code fence.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := fenceRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
