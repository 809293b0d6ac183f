package structured

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/query"
	"github.com/kailas-cloud/candisearch/internal/logger"
	"github.com/kailas-cloud/candisearch/internal/metrics"
)

// Service runs the structured retrieval path.
type Service struct {
	oracle Oracle
	repo   Repository
}

// New creates a structured retrieval service.
func New(oracle Oracle, repo Repository) *Service {
	return &Service{oracle: oracle, repo: repo}
}

// Generate asks the oracle for a select list and predicate, validates both and
// runs the result. Nothing reaches the store unless validation passes.
func (s *Service) Generate(ctx context.Context, question string) (domain.RowSet, error) {
	al := s.repo.AllowList()
	raw, err := s.oracle.Complete(ctx, domain.Prompt{
		Purpose: "generate_sql",
		System:  generateSystem,
		User:    fmt.Sprintf(generateTemplate, s.repo.Table(), strings.Join(al.Names(), ", "), question),
	})
	if err != nil {
		return domain.RowSet{}, fmt.Errorf("generate query: %w", err)
	}

	sel, where, ok := parseLines(raw)
	if !ok {
		return domain.RowSet{}, s.reject(ctx, domain.NewSafetyError(domain.SafetyMalformed,
			"generated query is missing a SELECT or WHERE line"))
	}

	q, err := query.Build(al, s.repo.Table(), sel, where)
	if err != nil {
		return domain.RowSet{}, s.reject(ctx, err)
	}

	logger.FromContext(ctx).Debug("running generated query", zap.String("sql", q.SQL))
	rows, err := s.repo.Run(ctx, q)
	if err != nil {
		return domain.RowSet{SQL: q.SQL}, fmt.Errorf("structured retrieve: %w", err)
	}
	return domain.RowSet{SQL: q.SQL, Rows: rows}, nil
}

// ByFilter runs an extracted filter. A filter without value projects the
// column across all rows; otherwise rows are matched on equality ignoring case.
// An unknown column rejects an equality filter and empties a projection.
func (s *Service) ByFilter(ctx context.Context, f domain.Filter) (domain.RowSet, error) {
	if f.IsZero() {
		return domain.RowSet{}, fmt.Errorf("%w: could not detect a metadata filter", domain.ErrInvalidRequest)
	}
	if !s.repo.AllowList().HasColumn(f.Column) {
		err := s.reject(ctx, domain.NewSafetyError(domain.SafetyColumn,
			"column %q is not allowed for filtering", f.Column))
		if f.IsProjection() {
			// projections fail closed to an empty result
			return domain.RowSet{Rows: []domain.Row{}}, nil
		}
		return domain.RowSet{}, err
	}

	var (
		rows []domain.Row
		err  error
	)
	if f.IsProjection() {
		rows, err = s.repo.Project(ctx, f.Column)
	} else {
		rows, err = s.repo.FilterEqual(ctx, f.Column, f.Value)
	}
	if err != nil {
		return domain.RowSet{}, fmt.Errorf("structured retrieve: %w", err)
	}
	return domain.RowSet{Rows: rows}, nil
}

func (s *Service) reject(ctx context.Context, err error) error {
	var se *domain.SafetyError
	if errors.As(err, &se) {
		metrics.SafetyRejectionsTotal.WithLabelValues(se.Kind).Inc()
		logger.FromContext(ctx).Warn("generated query rejected",
			zap.String("kind", se.Kind), zap.String("reason", se.Reason))
	}
	return err
}

// parseLines reads the "SELECT:" and "WHERE:" lines, case-insensitively.
func parseLines(raw string) (sel, where string, ok bool) {
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		lower := strings.ToLower(line)
		switch {
		case strings.HasPrefix(lower, "select:"):
			sel = strings.TrimSpace(line[len("select:"):])
		case strings.HasPrefix(lower, "where:"):
			where = strings.TrimSpace(line[len("where:"):])
		}
	}
	return sel, where, sel != "" && where != ""
}
