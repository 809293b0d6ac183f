package search

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/route"
	"github.com/kailas-cloud/candisearch/internal/domain/search/filter"
	"github.com/kailas-cloud/candisearch/internal/logger"
	"github.com/kailas-cloud/candisearch/internal/metrics"
)

// Service answers natural-language questions about candidates.
// It holds no per-request state.
type Service struct {
	classifier  Classifier
	extractor   Extractor
	structured  Structured
	semantic    Semantic
	resolver    Resolver
	synthesizer Synthesizer
}

// New creates the question-answering service.
func New(
	classifier Classifier, extractor Extractor, structured Structured,
	semantic Semantic, resolver Resolver, synthesizer Synthesizer,
) *Service {
	return &Service{
		classifier:  classifier,
		extractor:   extractor,
		structured:  structured,
		semantic:    semantic,
		resolver:    resolver,
		synthesizer: synthesizer,
	}
}

// Ask dispatches to the variant named by mode ("hybrid" or "single").
func (s *Service) Ask(ctx context.Context, mode, question string) (*Outcome, error) {
	set, ok := route.ByName(mode)
	if !ok {
		return nil, fmt.Errorf("%w: unknown mode %q", domain.ErrInvalidRequest, mode)
	}
	if set.Name == route.Single.Name {
		return s.AskSingle(ctx, question)
	}
	return s.AskHybrid(ctx, question)
}

// AskHybrid routes to structured, semantic or both paths and synthesizes an
// answer when both ran. A name that resolves to nobody is reported on the
// outcome and the resume search runs unscoped.
func (s *Service) AskHybrid(ctx context.Context, question string) (*Outcome, error) {
	return s.run(ctx, route.Hybrid, question, s.hybrid)
}

// AskSingle routes to either a resume search or a metadata lookup.
func (s *Service) AskSingle(ctx context.Context, question string) (*Outcome, error) {
	return s.run(ctx, route.Single, question, s.single)
}

type pipeline func(ctx context.Context, out *Outcome, question string) error

func (s *Service) run(ctx context.Context, set route.Set, question string, p pipeline) (*Outcome, error) {
	start := time.Now()

	id := domain.RequestIDFromContext(ctx)
	if id == "" {
		id = uuid.NewString()
		ctx = domain.ContextWithRequestID(ctx, id)
	}
	log := logger.FromContext(ctx).With(zap.String("request_id", id), zap.String("variant", set.Name))
	ctx = logger.ContextWithLogger(ctx, log)

	out := &Outcome{RequestID: id, Variant: set.Name}
	out.enter(StateReceived)

	err := s.dispatch(ctx, set, out, strings.TrimSpace(question), p)
	if err != nil {
		out.enter(StateError)
	} else {
		out.enter(StateDone)
	}

	elapsed := time.Since(start)
	metrics.AskRequestsTotal.WithLabelValues(set.Name, outcomeLabel(err)).Inc()
	metrics.AskDuration.WithLabelValues(set.Name).Observe(elapsed.Seconds())

	fields := []zap.Field{
		zap.String("route", string(out.Route)),
		zap.Bool("fallback", out.Fallback),
		zap.Int("rows", len(out.Rows)),
		zap.Int("hits", len(out.Hits)),
		zap.Bool("name_not_found", out.NameNotFound),
		zap.Duration("duration", elapsed),
	}
	if err != nil {
		log.Warn("ask failed", append(fields, zap.Error(err))...)
		return out, err
	}
	log.Info("ask", fields...)
	return out, nil
}

func (s *Service) dispatch(ctx context.Context, set route.Set, out *Outcome, question string, p pipeline) error {
	if question == "" {
		return fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}

	d := s.classifier.Classify(ctx, set, question)
	out.Route, out.Fallback = d.Label, d.Fallback
	out.enter(StateClassified)

	return p(ctx, out, question)
}

func (s *Service) hybrid(ctx context.Context, out *Outcome, question string) error {
	if out.Route.Structured() {
		out.enter(StateStructuredPending)
		rs, err := s.structured.Generate(ctx, question)
		out.SQL = rs.SQL
		if err != nil {
			return err
		}
		out.Rows = rs.Rows
	}

	if out.Route.Semantic() {
		out.enter(StateSemanticPending)
		ids, err := s.scope(ctx, out, question)
		if err != nil {
			return err
		}
		hits, err := s.semantic.Search(ctx, question, ids, 0)
		if err != nil {
			return err
		}
		out.Hits = hits
	}

	if out.Route == route.Both {
		out.enter(StateSynthesizing)
		answer, err := s.synthesizer.Synthesize(ctx, question, out.Rows, out.Hits)
		if err != nil {
			return err
		}
		out.Answer = answer
	}
	return nil
}

// scope resolves the named candidate, if any, to ids for the resume search.
// A miss or a name broader than one filter group leaves the search unscoped.
func (s *Service) scope(ctx context.Context, out *Outcome, question string) ([]string, error) {
	name, err := s.extractor.CandidateName(ctx, question)
	if err != nil {
		return nil, err
	}
	if name == "" {
		return nil, nil
	}
	out.CandidateName = name

	ids, err := s.resolver.Resolve(ctx, name)
	if errors.Is(err, domain.ErrCandidateNotFound) {
		out.NameNotFound = true
		logger.FromContext(ctx).Info("named candidate not found, searching all resumes", zap.String("name", name))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if len(ids) > filter.MaxConditionsPerGroup {
		out.NameTooBroad = true
		logger.FromContext(ctx).Info("named candidate matches too many candidates, searching all resumes",
			zap.String("name", name), zap.Int("matches", len(ids)))
		return nil, nil
	}
	out.CandidateIDs = ids
	return ids, nil
}

func (s *Service) single(ctx context.Context, out *Outcome, question string) error {
	switch out.Route {
	case route.Metadata:
		out.enter(StateStructuredPending)
		f, err := s.extractor.Filter(ctx, question)
		if err != nil {
			return err
		}
		out.Filter = &f
		rs, err := s.structured.ByFilter(ctx, f)
		if err != nil {
			return err
		}
		out.Rows = rs.Rows
		return nil

	default:
		out.enter(StateSemanticPending)
		var ids []string
		if name := s.extractor.NameFromPhrase(question); name != "" {
			out.CandidateName = name
			id, err := s.resolver.ResolveOne(ctx, name)
			if err != nil {
				out.NameNotFound = errors.Is(err, domain.ErrCandidateNotFound)
				return err
			}
			ids = []string{id}
			out.CandidateIDs = ids
		}
		hits, err := s.semantic.Search(ctx, question, ids, 0)
		if err != nil {
			return err
		}
		out.Hits = hits
		return nil
	}
}

func outcomeLabel(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrUnsafeQuery):
		return "unsafe"
	case errors.Is(err, domain.ErrCandidateNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrAmbiguousCandidate):
		return "ambiguous"
	case errors.Is(err, domain.ErrInvalidRequest):
		return "invalid"
	case errors.Is(err, domain.ErrOracleUnavailable),
		errors.Is(err, domain.ErrEmbeddingProviderError),
		errors.Is(err, domain.ErrStoreUnavailable),
		errors.Is(err, domain.ErrIndexUnavailable):
		return "upstream"
	default:
		return "error"
	}
}
