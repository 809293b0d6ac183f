package synthesize

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/logger"
)

// Service merges structured rows and resume hits into one answer.
type Service struct {
	oracle    Oracle
	counter   Counter
	maxTokens int
}

// New creates a synthesizer. maxTokens bounds the serialized context; 0 disables trimming.
func New(oracle Oracle, counter Counter, maxTokens int) *Service {
	if counter == nil {
		counter = CharCounter{}
	}
	return &Service{oracle: oracle, counter: counter, maxTokens: maxTokens}
}

// Synthesize returns the oracle's answer verbatim apart from surrounding whitespace.
func (s *Service) Synthesize(
	ctx context.Context, question string, rows []domain.Row, hits []domain.ResumeHit,
) (string, error) {
	rowsJSON, hitsJSON, dropped := s.fit(rows, hits)
	if dropped > 0 {
		logger.FromContext(ctx).Info("trimmed synthesis context",
			zap.Int("dropped", dropped), zap.Int("max_tokens", s.maxTokens))
	}

	answer, err := s.oracle.Complete(ctx, domain.Prompt{
		Purpose: "synthesize",
		System:  system,
		User:    fmt.Sprintf(template, rowsJSON, hitsJSON, question),
	})
	if err != nil {
		return "", fmt.Errorf("synthesize: %w", err)
	}
	return strings.TrimSpace(answer), nil
}

// fit serializes both result sets, dropping hits from the tail and then rows
// until the pair fits the token budget. Each item is counted once; a list
// costs its brackets plus its items and one separator token per item.
func (s *Service) fit(rows []domain.Row, hits []domain.ResumeHit) (rowsJSON, hitsJSON string, dropped int) {
	if s.maxTokens <= 0 {
		return encode(rows), encode(hits), 0
	}

	rowCost, rowTotal := itemCosts(s.counter, rows)
	hitCost, hitTotal := itemCosts(s.counter, hits)
	nr, nh := len(rows), len(hits)
	for rowTotal+hitTotal > s.maxTokens && nr+nh > 0 {
		if nh > 0 {
			nh--
			hitTotal -= hitCost[nh]
		} else {
			nr--
			rowTotal -= rowCost[nr]
		}
		dropped++
	}
	return encode(rows[:nr]), encode(hits[:nh]), dropped
}

func itemCosts[T any](c Counter, items []T) (costs []int, total int) {
	costs = make([]int, len(items))
	total = c.Count("[]")
	for i, it := range items {
		costs[i] = c.Count(encode(it)) + 1
		total += costs[i]
	}
	return costs, total
}

func encode(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "[]"
	}
	if string(b) == "null" {
		return "[]"
	}
	return string(b)
}
