package classify

import (
	"context"
	"strconv"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/route"
	"github.com/kailas-cloud/candisearch/internal/logger"
	"github.com/kailas-cloud/candisearch/internal/metrics"
)

// Service maps a question to a route label with one oracle call.
type Service struct {
	oracle Oracle
}

// New creates a classifier.
func New(oracle Oracle) *Service {
	return &Service{oracle: oracle}
}

// Classify never fails: oracle errors and answers outside the set both
// resolve to the variant default.
func (s *Service) Classify(ctx context.Context, set route.Set, query string) route.Decision {
	log := logger.FromContext(ctx)

	raw, err := s.oracle.Complete(ctx, domain.Prompt{
		Purpose:     "classify",
		System:      systemPrompt,
		User:        userPrompt(set, query),
		Temperature: 0,
	})
	if err != nil {
		log.Warn("classifier oracle failed, using default route",
			zap.String("variant", set.Name), zap.String("route", string(set.Default)), zap.Error(err))
		return s.record(set, route.Decision{Label: set.Default, Fallback: true})
	}

	label, ok := set.Parse(raw)
	if !ok {
		log.Warn("unrecognized route label, using default",
			zap.String("variant", set.Name), zap.String("raw", raw), zap.String("route", string(set.Default)))
		return s.record(set, route.Decision{Label: set.Default, Fallback: true, Raw: raw})
	}
	return s.record(set, route.Decision{Label: label, Raw: raw})
}

func (s *Service) record(set route.Set, d route.Decision) route.Decision {
	metrics.RouteDecisionsTotal.WithLabelValues(set.Name, string(d.Label), strconv.FormatBool(d.Fallback)).Inc()
	return d
}
