package semantic

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/logger"
)

// Service runs the semantic retrieval path.
type Service struct {
	repo        Repository
	embed       Embedder
	defaultTopK int
}

// New creates a semantic retrieval service. A nil embedder searches by text (BM25).
func New(repo Repository, embed Embedder, defaultTopK int) *Service {
	return &Service{repo: repo, embed: embed, defaultTopK: defaultTopK}
}

// Search returns at most topK hits, scoped to ids when non-empty.
// topK <= 0 uses the configured default.
func (s *Service) Search(ctx context.Context, text string, ids []string, topK int) ([]domain.ResumeHit, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: query text is required", domain.ErrInvalidRequest)
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	q := domain.ResumeQuery{Text: text, IDs: ids, TopK: topK}
	if s.embed != nil {
		emb, err := s.embed.Embed(ctx, text)
		if err != nil {
			return nil, fmt.Errorf("embed query: %w", err)
		}
		q.Vector = emb.Embedding
	}

	hits, err := s.repo.Search(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("semantic retrieve: %w", err)
	}
	logger.FromContext(ctx).Debug("semantic search",
		zap.Int("scope", len(ids)), zap.Int("top_k", topK), zap.Int("hits", len(hits)))
	return hits, nil
}

// Resume fetches one candidate's full resume.
func (s *Service) Resume(ctx context.Context, id string) (domain.Resume, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return domain.Resume{}, fmt.Errorf("%w: candidate id is required", domain.ErrInvalidRequest)
	}
	r, err := s.repo.Get(ctx, id)
	if err != nil {
		return domain.Resume{}, fmt.Errorf("get resume %s: %w", id, err)
	}
	return r, nil
}
