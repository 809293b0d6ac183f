package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
	searchuc "github.com/kailas-cloud/candisearch/internal/usecase/search"
)

// --- Mocks ---

type mockAsker struct {
	out     *searchuc.Outcome
	err     error
	gotMode string
}

func (m *mockAsker) Ask(_ context.Context, mode, _ string) (*searchuc.Outcome, error) {
	m.gotMode = mode
	return m.out, m.err
}

type mockSearcher struct {
	hits []domain.ResumeHit
	err  error
	gotK int
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ []string, topK int) ([]domain.ResumeHit, error) {
	m.gotK = topK
	return m.hits, m.err
}

// --- Helpers ---

func call(name string, args map[string]any) mcpgo.CallToolRequest {
	var req mcpgo.CallToolRequest
	req.Params.Name = name
	req.Params.Arguments = args
	return req
}

func resultText(t *testing.T, res *mcpgo.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected one content item, got %d", len(res.Content))
	}
	text, ok := mcpgo.AsTextContent(res.Content[0])
	if !ok {
		t.Fatalf("expected text content, got %T", res.Content[0])
	}
	return text.Text
}

// --- Tests ---

func TestAskCandidates_ReturnsAnswer(t *testing.T) {
	ask := &mockAsker{out: &searchuc.Outcome{Answer: "Alice Wong lives in Toronto."}}
	tools := NewTools(ask, &mockSearcher{}, zap.NewNop())

	res, err := tools.AskCandidates(context.Background(),
		call("ask_candidates", map[string]any{"query": "who is in Toronto?", "mode": "single"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatal("unexpected tool error")
	}
	if got := resultText(t, res); got != "Alice Wong lives in Toronto." {
		t.Errorf("unexpected text %q", got)
	}
	if ask.gotMode != "single" {
		t.Errorf("mode not passed through: %q", ask.gotMode)
	}
}

func TestAskCandidates_NoAnswerReturnsOutcomeJSON(t *testing.T) {
	ask := &mockAsker{out: &searchuc.Outcome{
		Rows: []domain.Row{{"name": "Jane Smith"}},
	}}
	tools := NewTools(ask, &mockSearcher{}, zap.NewNop())

	res, err := tools.AskCandidates(context.Background(), call("ask_candidates", map[string]any{"query": "names"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var out searchuc.Outcome
	if err := json.Unmarshal([]byte(resultText(t, res)), &out); err != nil {
		t.Fatalf("expected outcome JSON: %v", err)
	}
	if len(out.Rows) != 1 || out.Rows[0]["name"] != "Jane Smith" {
		t.Errorf("unexpected rows: %v", out.Rows)
	}
}

func TestAskCandidates_MissingQuery(t *testing.T) {
	tools := NewTools(&mockAsker{}, &mockSearcher{}, zap.NewNop())

	res, err := tools.AskCandidates(context.Background(), call("ask_candidates", map[string]any{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.IsError {
		t.Error("expected tool error for missing query")
	}
}

func TestAskCandidates_ErrorsStaySafe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			"unsafe",
			domain.NewSafetyError(domain.SafetyColumn, "column %q is not allowed", "salary"),
			`unsafe query: column "salary" is not allowed`,
		},
		{"upstream", fmt.Errorf("classify: POST https://10.1.1.1/v1: %w", domain.ErrOracleUnavailable), "oracle unavailable"},
		{"unknown", fmt.Errorf("sql: connection reset"), "internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tools := NewTools(&mockAsker{out: &searchuc.Outcome{}, err: tt.err}, &mockSearcher{}, zap.NewNop())

			res, err := tools.AskCandidates(context.Background(), call("ask_candidates", map[string]any{"query": "q"}))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !res.IsError {
				t.Fatal("expected tool error")
			}
			if got := resultText(t, res); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSearchResumes(t *testing.T) {
	searcher := &mockSearcher{hits: []domain.ResumeHit{{CandidateID: "2", Content: "Go", Score: 0.8}}}
	tools := NewTools(&mockAsker{}, searcher, zap.NewNop())

	res, err := tools.SearchResumes(context.Background(),
		call("search_resumes", map[string]any{"query": "golang", "top_k": float64(3)}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if searcher.gotK != 3 {
		t.Errorf("top_k not passed: %d", searcher.gotK)
	}
	var hits []domain.ResumeHit
	if err := json.Unmarshal([]byte(resultText(t, res)), &hits); err != nil {
		t.Fatalf("expected hits JSON: %v", err)
	}
	if len(hits) != 1 || hits[0].CandidateID != "2" {
		t.Errorf("unexpected hits: %v", hits)
	}
}

func TestSearchResumes_EmptyIsArray(t *testing.T) {
	tools := NewTools(&mockAsker{}, &mockSearcher{}, zap.NewNop())

	res, err := tools.SearchResumes(context.Background(), call("search_resumes", map[string]any{"query": "cobol"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := strings.TrimSpace(resultText(t, res)); got != "[]" {
		t.Errorf("expected empty array, got %q", got)
	}
}

func TestNewServer_RegistersTools(t *testing.T) {
	s := NewServer("candisearch", "test", NewTools(&mockAsker{}, &mockSearcher{}, zap.NewNop()))

	msg := s.HandleMessage(context.Background(), []byte(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	for _, name := range []string{"ask_candidates", "search_resumes"} {
		if !strings.Contains(string(data), `"name":"`+name+`"`) {
			t.Errorf("tool %s not listed in %s", name, data)
		}
	}
}
