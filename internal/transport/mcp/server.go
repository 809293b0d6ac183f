// Package mcp exposes candidate search as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	searchuc "github.com/kailas-cloud/candisearch/internal/usecase/search"
)

const instructions = "Answers questions about job candidates from their metadata and resumes."

// Asker answers free-text questions about candidates.
type Asker interface {
	Ask(ctx context.Context, mode, question string) (*searchuc.Outcome, error)
}

// ResumeSearcher finds resume snippets similar to a query.
type ResumeSearcher interface {
	Search(ctx context.Context, text string, ids []string, topK int) ([]domain.ResumeHit, error)
}

// Tools binds the MCP tool handlers to the search services.
type Tools struct {
	ask     Asker
	resumes ResumeSearcher
	logger  *zap.Logger
}

// NewTools creates the tool handlers.
func NewTools(ask Asker, resumes ResumeSearcher, logger *zap.Logger) *Tools {
	return &Tools{ask: ask, resumes: resumes, logger: logger}
}

// NewServer registers every tool on a fresh MCP server.
func NewServer(name, version string, t *Tools) *server.MCPServer {
	s := server.NewMCPServer(name, version,
		server.WithToolCapabilities(false),
		server.WithInstructions(instructions),
		server.WithRecovery(),
	)

	s.AddTool(mcpgo.NewTool("ask_candidates",
		mcpgo.WithDescription("Answer a question about candidates using their metadata, their resumes or both."),
		mcpgo.WithString("query", mcpgo.Required(), mcpgo.Description("Question in natural language")),
		mcpgo.WithString("mode",
			mcpgo.Enum("hybrid", "single"),
			mcpgo.Description("hybrid routes to structured, semantic or both; single picks resume or metadata"),
		),
	), t.AskCandidates)

	s.AddTool(mcpgo.NewTool("search_resumes",
		mcpgo.WithDescription("Find resume passages most similar to a query."),
		mcpgo.WithString("query", mcpgo.Required(), mcpgo.Description("Skills or experience to look for")),
		mcpgo.WithNumber("top_k", mcpgo.Min(1), mcpgo.Description("Maximum number of hits")),
	), t.SearchResumes)

	return s
}

// ServeStdio runs the MCP server over in and out until ctx ends.
func ServeStdio(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer) error {
	if err := server.NewStdioServer(s).Listen(ctx, in, out); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("mcp stdio: %w", err)
	}
	return nil
}

// AskCandidates handles the ask_candidates tool.
func (t *Tools) AskCandidates(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	out, err := t.ask.Ask(ctx, req.GetString("mode", ""), query)
	if err != nil {
		t.logger.Warn("ask_candidates failed", zap.Error(err))
		return mcpgo.NewToolResultError(toolMessage(err)), nil
	}
	if out.Answer != "" {
		return mcpgo.NewToolResultText(out.Answer), nil
	}
	return jsonResult(out)
}

// SearchResumes handles the search_resumes tool.
func (t *Tools) SearchResumes(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcpgo.NewToolResultError(err.Error()), nil
	}

	hits, err := t.resumes.Search(ctx, query, nil, req.GetInt("top_k", 0))
	if err != nil {
		t.logger.Warn("search_resumes failed", zap.Error(err))
		return mcpgo.NewToolResultError(toolMessage(err)), nil
	}
	if hits == nil {
		hits = []domain.ResumeHit{}
	}
	return jsonResult(hits)
}

func jsonResult(v any) (*mcpgo.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcpgo.NewToolResultText(string(data)), nil
}

// toolMessage keeps provider and storage internals out of tool output.
func toolMessage(err error) string {
	var se *domain.SafetyError
	switch {
	case errors.As(err, &se):
		return se.Error()
	case errors.Is(err, domain.ErrInvalidRequest),
		errors.Is(err, domain.ErrCandidateNotFound),
		errors.Is(err, domain.ErrAmbiguousCandidate):
		return err.Error()
	}
	for _, s := range []error{
		domain.ErrOracleUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrStoreUnavailable,
		domain.ErrIndexUnavailable,
	} {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}
