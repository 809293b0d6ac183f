package resolve

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

// Service bridges names in questions to candidate ids.
type Service struct {
	repo Repository
}

// New creates a name resolver.
func New(repo Repository) *Service {
	return &Service{repo: repo}
}

// Resolve returns every candidate whose name or email contains any token of
// nameText. No match is ErrCandidateNotFound.
func (s *Service) Resolve(ctx context.Context, nameText string) ([]string, error) {
	tokens := strings.Fields(nameText)
	if len(tokens) == 0 {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidRequest)
	}

	ids, err := s.repo.ResolveFuzzy(ctx, tokens)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", nameText, err)
	}
	if len(ids) == 0 {
		return nil, fmt.Errorf("resolve %q: %w", nameText, domain.ErrCandidateNotFound)
	}
	return ids, nil
}

// ResolveOne returns the single candidate whose name equals name, ignoring case.
func (s *Service) ResolveOne(ctx context.Context, name string) (string, error) {
	id, err := s.repo.ResolveExact(ctx, strings.TrimSpace(name))
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", name, err)
	}
	return id, nil
}
