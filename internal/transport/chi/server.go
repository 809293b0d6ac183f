package chi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	gochi "github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	healthuc "github.com/kailas-cloud/candisearch/internal/usecase/health"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server is the candidate search HTTP API.
type Server struct {
	ask           Asker
	resumes       Resumes
	resolver      Resolver
	evaluator     Evaluator
	health        HealthChecker
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	ask Asker,
	resumes Resumes,
	resolver Resolver,
	evaluator Evaluator,
	health HealthChecker,
	logger *zap.Logger,
) *Server {
	s := &Server{
		ask:       ask,
		resumes:   resumes,
		resolver:  resolver,
		evaluator: evaluator,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		unsafeQueryHandler,
		invalidRequestHandler,
		sentinelHandler(domain.ErrCandidateNotFound, http.StatusNotFound, CodeCandidateNotFound),
		sentinelHandler(domain.ErrAmbiguousCandidate, http.StatusConflict, CodeAmbiguousCandidate),
		sentinelHandler(domain.ErrOracleUnavailable, http.StatusBadGateway, CodeOracleUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeEmbeddingError),
		sentinelHandler(domain.ErrStoreUnavailable, http.StatusBadGateway, CodeStoreUnavailable),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusBadGateway, CodeIndexUnavailable),
	}
	return s
}

// Routes mounts the API on r.
func (s *Server) Routes(r gochi.Router) {
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, CodeBadRequest, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, CodeBadRequest, "method not allowed")
	})

	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	r.Route("/v1", func(r gochi.Router) {
		r.Post("/ask", s.Ask)
		r.Post("/resumes/search", s.SearchResumes)
		r.Get("/resumes/{id}", s.GetResume)
		r.Get("/candidates/resolve", s.ResolveCandidates)
		r.Post("/evaluations", s.CreateEvaluation)
	})
}

// Ask handles POST /v1/ask.
func (s *Server) Ask(w http.ResponseWriter, r *http.Request) {
	var req AskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Query) == "" {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "query is required")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	out, err := s.ask.Ask(ctx, req.Mode, req.Query)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// SearchResumes handles POST /v1/resumes/search.
func (s *Server) SearchResumes(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.TopK < 0 {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "top_k must not be negative")
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	hits, err := s.resumes.Search(ctx, req.Query, req.CandidateIDs, req.TopK)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if hits == nil {
		hits = []domain.ResumeHit{}
	}

	writeJSON(w, http.StatusOK, SearchResponse{Items: hits, Count: len(hits)})
}

// GetResume handles GET /v1/resumes/{id}.
func (s *Server) GetResume(w http.ResponseWriter, r *http.Request) {
	res, err := s.resumes.Resume(r.Context(), gochi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// ResolveCandidates handles GET /v1/candidates/resolve?name=&exact=.
func (s *Server) ResolveCandidates(w http.ResponseWriter, r *http.Request) {
	var (
		name  string
		exact *bool
	)
	if err := runtime.BindQueryParameter("form", true, true, "name", r.URL.Query(), &name); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter name: "+err.Error())
		return
	}
	if err := runtime.BindQueryParameter("form", true, false, "exact", r.URL.Query(), &exact); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid parameter exact: "+err.Error())
		return
	}

	var ids []string
	if exact != nil && *exact {
		id, err := s.resolver.ResolveOne(r.Context(), name)
		if err != nil {
			s.handleDomainError(w, err)
			return
		}
		ids = []string{id}
	} else {
		var err error
		if ids, err = s.resolver.Resolve(r.Context(), name); err != nil {
			s.handleDomainError(w, err)
			return
		}
	}

	writeJSON(w, http.StatusOK, ResolveResponse{Name: name, CandidateIDs: ids})
}

// CreateEvaluation handles POST /v1/evaluations. The ranking runs to
// completion before the response is written.
func (s *Server) CreateEvaluation(w http.ResponseWriter, r *http.Request) {
	var req EvaluationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	run, err := s.evaluator.Evaluate(ctx, req.Requirements)
	setUsageHeaders(w, usage)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, evaluationToAPI(run))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}
	writeJSON(w, httpStatus, report)
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func setUsageHeaders(w http.ResponseWriter, usage *domain.Usage) {
	calls, oracleTokens, embeddingTokens := usage.Snapshot()
	if calls > 0 {
		w.Header().Set("X-Oracle-Calls", strconv.Itoa(calls))
		w.Header().Set("X-Oracle-Tokens", strconv.Itoa(oracleTokens))
	}
	if embeddingTokens > 0 {
		w.Header().Set("X-Embedding-Tokens", strconv.Itoa(embeddingTokens))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrUnsafeQuery,
		domain.ErrCandidateNotFound,
		domain.ErrAmbiguousCandidate,
		domain.ErrInvalidRequest,
		domain.ErrOracleUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrStoreUnavailable,
		domain.ErrIndexUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

// unsafeQueryHandler reports the rejected check alongside the message.
func unsafeQueryHandler(w http.ResponseWriter, err error, msg string) bool {
	if !errors.Is(err, domain.ErrUnsafeQuery) {
		return false
	}
	resp := ErrorResponse{Code: CodeUnsafeQuery, Message: msg}
	var se *domain.SafetyError
	if errors.As(err, &se) {
		resp.Reason = se.Reason
	}
	writeJSON(w, http.StatusUnprocessableEntity, resp)
	return true
}

// invalidRequestHandler echoes the validation detail to the caller.
func invalidRequestHandler(w http.ResponseWriter, err error, _ string) bool {
	if !errors.Is(err, domain.ErrInvalidRequest) {
		return false
	}
	writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
	return true
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
