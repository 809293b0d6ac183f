package resume

import (
	"context"
	"fmt"
	"strings"

	"github.com/kailas-cloud/candisearch/internal/db"
	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/search/filter"
)

// maxChunks bounds how many index documents make up one resume.
const maxChunks = 64

// store is the consumer interface for resume index operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
}

// Schema names the index and its fields.
type Schema struct {
	Index        string
	IDField      string
	ContentField string
	VectorField  string
}

// Repo reads resume documents from the search index.
type Repo struct {
	store  store
	schema Schema
}

// New creates a resume repository.
func New(s store, schema Schema) *Repo {
	return &Repo{store: s, schema: schema}
}

// Search returns at most TopK hits in the index's relevance order.
func (r *Repo) Search(ctx context.Context, q domain.ResumeQuery) ([]domain.ResumeHit, error) {
	if q.TopK <= 0 {
		return nil, fmt.Errorf("%w: top_k must be positive", domain.ErrInvalidRequest)
	}

	filters, err := filter.AnyOf(r.schema.IDField, q.IDs)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	fields := []string{r.schema.IDField, r.schema.ContentField}

	var sr *db.SearchResult
	if len(q.Vector) > 0 {
		sr, err = r.store.SearchKNN(ctx, &db.KNNQuery{
			IndexName:    r.schema.Index,
			VectorField:  r.schema.VectorField,
			Filters:      filters,
			Vector:       q.Vector,
			K:            q.TopK,
			ReturnFields: fields,
		})
	} else {
		if strings.TrimSpace(q.Text) == "" {
			return nil, fmt.Errorf("%w: query text is required", domain.ErrInvalidRequest)
		}
		sr, err = r.store.SearchBM25(ctx, &db.TextQuery{
			IndexName:    r.schema.Index,
			TextField:    r.schema.ContentField,
			Query:        q.Text,
			Filters:      filters,
			TopK:         q.TopK,
			ReturnFields: fields,
		})
	}
	if err != nil {
		return nil, fmt.Errorf("search resumes: %w: %w", domain.ErrIndexUnavailable, err)
	}

	return r.toHits(sr, q.TopK), nil
}

// Get returns the full resume for one candidate. Multiple index documents for
// the same candidate are joined in index order.
func (r *Repo) Get(ctx context.Context, id string) (domain.Resume, error) {
	if strings.TrimSpace(id) == "" {
		return domain.Resume{}, fmt.Errorf("%w: candidate id is required", domain.ErrInvalidRequest)
	}
	filters, err := filter.AnyOf(r.schema.IDField, []string{id})
	if err != nil {
		return domain.Resume{}, fmt.Errorf("%w: %w", domain.ErrInvalidRequest, err)
	}

	sr, err := r.store.SearchList(ctx, &db.ListQuery{
		IndexName:    r.schema.Index,
		Filters:      filters,
		Limit:        maxChunks,
		ReturnFields: []string{r.schema.ContentField},
	})
	if err != nil {
		return domain.Resume{}, fmt.Errorf("get resume %s: %w: %w", id, domain.ErrIndexUnavailable, err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return domain.Resume{}, fmt.Errorf("resume %s: %w", id, domain.ErrCandidateNotFound)
	}

	parts := make([]string, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		if c := e.Fields[r.schema.ContentField]; c != "" {
			parts = append(parts, c)
		}
	}
	return domain.Resume{CandidateID: id, Content: strings.Join(parts, "\n\n")}, nil
}

func (r *Repo) toHits(sr *db.SearchResult, topK int) []domain.ResumeHit {
	if sr == nil || len(sr.Entries) == 0 {
		return nil
	}
	hits := make([]domain.ResumeHit, 0, min(len(sr.Entries), topK))
	for _, e := range sr.Entries {
		if len(hits) == topK {
			break
		}
		id := e.Fields[r.schema.IDField]
		if id == "" {
			id = keySuffix(e.Key)
		}
		hits = append(hits, domain.ResumeHit{
			CandidateID: id,
			Content:     e.Fields[r.schema.ContentField],
			Score:       e.Score,
		})
	}
	return hits
}

// keySuffix returns the part of a hash key after the last colon.
func keySuffix(key string) string {
	if i := strings.LastIndexByte(key, ':'); i >= 0 {
		return key[i+1:]
	}
	return key
}

