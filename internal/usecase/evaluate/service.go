package evaluate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/evaluation"
	"github.com/kailas-cloud/candisearch/internal/logger"
)

// DefaultRequirements is used when a run is started without requirements.
const DefaultRequirements = "General software engineering role."

const scoreParseFailure = "Failed to parse scoring output."

// Options configures the evaluator.
type Options struct {
	Workers             int
	DefaultRequirements string
}

// Service ranks every candidate against job requirements.
type Service struct {
	candidates Candidates
	resumes    Resumes
	oracle     Oracle
	pool       *ants.Pool
	defaultReq string
}

// New creates an evaluator with a bounded worker pool. Call Release when done.
func New(candidates Candidates, resumes Resumes, oracle Oracle, opts Options) (*Service, error) {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if strings.TrimSpace(opts.DefaultRequirements) == "" {
		opts.DefaultRequirements = DefaultRequirements
	}
	pool, err := ants.NewPool(opts.Workers)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	return &Service{
		candidates: candidates,
		resumes:    resumes,
		oracle:     oracle,
		pool:       pool,
		defaultReq: opts.DefaultRequirements,
	}, nil
}

// Release stops the worker pool.
func (s *Service) Release() { s.pool.Release() }

// Evaluate summarizes and scores each candidate and returns them by score,
// highest first. Ties keep id order. Per-candidate failures are recorded on
// that candidate's result.
func (s *Service) Evaluate(ctx context.Context, requirements string) (*evaluation.Run, error) {
	requirements = strings.TrimSpace(requirements)
	if requirements == "" {
		requirements = s.defaultReq
	}

	ids, err := s.candidates.ListIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("list candidates: %w", err)
	}

	run := &evaluation.Run{ID: uuid.NewString(), Requirements: requirements}
	log := logger.FromContext(ctx).With(zap.String("run_id", run.ID))
	ctx = logger.ContextWithLogger(ctx, log)

	results := make([]evaluation.Result, len(ids))
	var wg sync.WaitGroup
	for i, id := range ids {
		wg.Add(1)
		submitErr := s.pool.Submit(func() {
			defer wg.Done()
			results[i] = s.evaluateOne(ctx, id, requirements)
		})
		if submitErr != nil {
			wg.Done()
			results[i] = evaluation.NewError(domain.Candidate{ID: id}, fmt.Errorf("schedule: %w", submitErr))
		}
	}
	wg.Wait()

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Candidate.ID < results[b].Candidate.ID
	})
	run.Results = results

	log.Info("evaluation finished", zap.Int("candidates", len(ids)), zap.Int("failed", run.Failed()))
	return run, nil
}

func (s *Service) evaluateOne(ctx context.Context, id, requirements string) evaluation.Result {
	c := domain.Candidate{ID: id}
	if err := ctx.Err(); err != nil {
		return evaluation.NewError(c, err)
	}

	c, err := s.candidates.Get(ctx, id)
	if err != nil {
		return evaluation.NewError(domain.Candidate{ID: id}, fmt.Errorf("candidate metadata: %w", err))
	}

	var text string
	resume, err := s.resumes.Resume(ctx, id)
	switch {
	case err == nil:
		text = stripNoise(resume.Content)
	case errors.Is(err, domain.ErrCandidateNotFound):
		logger.FromContext(ctx).Info("candidate has no resume", zap.String("candidate_id", id))
	default:
		return evaluation.NewError(c, fmt.Errorf("resume: %w", err))
	}

	summary, err := s.summarize(ctx, text)
	if err != nil {
		return evaluation.NewError(c, err)
	}
	linkedin, github := profileURLs(text)
	summary.LinkedIn = firstNonEmpty(summary.LinkedIn, linkedin, evaluation.NotFound)
	summary.GitHub = firstNonEmpty(summary.GitHub, github, evaluation.NotFound)

	score, rationale, err := s.score(ctx, summary, requirements)
	if err != nil {
		return evaluation.NewError(c, err)
	}
	return evaluation.NewOK(c, summary, score, rationale)
}

func (s *Service) summarize(ctx context.Context, text string) (evaluation.Summary, error) {
	raw, err := s.oracle.Complete(ctx, domain.Prompt{
		Purpose: "summarize",
		System:  summarySystem,
		User:    fmt.Sprintf(summaryTemplate, text),
	})
	if err != nil {
		return evaluation.Summary{}, fmt.Errorf("summarize: %w", err)
	}

	var sum evaluation.Summary
	if err := json.Unmarshal([]byte(stripFences(raw)), &sum); err != nil {
		logger.FromContext(ctx).Warn("unparseable summary, using empty one", zap.Error(err))
		return evaluation.EmptySummary(), nil
	}
	return sum, nil
}

type scoreOutput struct {
	Score     *float64 `json:"candidate_score"`
	Rationale string   `json:"rationale"`
}

func (s *Service) score(ctx context.Context, sum evaluation.Summary, requirements string) (int, string, error) {
	summaryJSON, err := json.MarshalIndent(sum, "", "  ")
	if err != nil {
		return 0, "", fmt.Errorf("encode summary: %w", err)
	}

	raw, err := s.oracle.Complete(ctx, domain.Prompt{
		Purpose: "score",
		System:  scoreSystem,
		User:    fmt.Sprintf(scoreTemplate, summaryJSON, requirements),
	})
	if err != nil {
		return 0, "", fmt.Errorf("score: %w", err)
	}

	var out scoreOutput
	if err := json.Unmarshal([]byte(stripFences(raw)), &out); err != nil {
		logger.FromContext(ctx).Warn("unparseable score", zap.Error(err))
		return 0, scoreParseFailure, nil
	}
	if out.Score == nil {
		return 0, out.Rationale, nil
	}
	return clampScore(*out.Score), out.Rationale, nil
}

func clampScore(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
