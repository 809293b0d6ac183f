package synthesize

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

// --- Mocks ---

type mockOracle struct {
	answer string
	err    error
	got    domain.Prompt
}

func (m *mockOracle) Complete(_ context.Context, p domain.Prompt) (string, error) {
	m.got = p
	return m.answer, m.err
}

type countingCounter struct {
	calls int
}

func (c *countingCounter) Count(text string) int {
	c.calls++
	return CharCounter{}.Count(text)
}

// --- Tests ---

func TestSynthesize_PassesBothResultSets(t *testing.T) {
	o := &mockOracle{answer: "  John Smith has five years of Azure Functions experience.\n"}
	rows := []domain.Row{{"name": "John Smith", "location": "Toronto"}}
	hits := []domain.ResumeHit{{CandidateID: "2", Content: "Built Azure Functions pipelines", Score: 0.8}}

	answer, err := New(o, CharCounter{}, 0).Synthesize(context.Background(),
		"What Azure experience does John Smith have?", rows, hits)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "John Smith has five years of Azure Functions experience." {
		t.Errorf("unexpected answer %q", answer)
	}
	for _, want := range []string{`"location":"Toronto"`, "Built Azure Functions pipelines", "What Azure experience"} {
		if !strings.Contains(o.got.User, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestSynthesize_EmptySetsSerializeAsArrays(t *testing.T) {
	o := &mockOracle{answer: "No data."}
	if _, err := New(o, nil, 0).Synthesize(context.Background(), "q", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(o.got.User, "null") {
		t.Errorf("nil sets should render as []: %q", o.got.User)
	}
}

func TestSynthesize_TrimsHitsFirst(t *testing.T) {
	rows := []domain.Row{{"name": "John Smith"}}
	hits := []domain.ResumeHit{
		{CandidateID: "2", Content: "first " + strings.Repeat("a", 200)},
		{CandidateID: "2", Content: "second " + strings.Repeat("b", 200)},
		{CandidateID: "2", Content: "third " + strings.Repeat("c", 200)},
	}
	o := &mockOracle{answer: "ok"}

	// Room for the row and a single hit.
	if _, err := New(o, CharCounter{}, 80).Synthesize(context.Background(), "q", rows, hits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(o.got.User, "first") {
		t.Error("expected the best hit kept")
	}
	if strings.Contains(o.got.User, "second") || strings.Contains(o.got.User, "third") {
		t.Error("expected tail hits dropped")
	}
	if !strings.Contains(o.got.User, "John Smith") {
		t.Error("rows must survive while hits remain to drop")
	}
}

func TestSynthesize_OracleError(t *testing.T) {
	_, err := New(&mockOracle{err: domain.ErrOracleUnavailable}, nil, 0).
		Synthesize(context.Background(), "q", nil, nil)
	if !errors.Is(err, domain.ErrOracleUnavailable) {
		t.Errorf("expected ErrOracleUnavailable, got %v", err)
	}
}

func TestNewCounter_UnknownEncodingFallsBack(t *testing.T) {
	c, err := NewCounter("no-such-encoding")
	if err == nil {
		t.Fatal("expected error for unknown encoding")
	}
	if _, ok := c.(CharCounter); !ok {
		t.Errorf("expected CharCounter fallback, got %T", c)
	}
	if c.Count("abcdefgh") != 2 {
		t.Errorf("expected 2 tokens, got %d", c.Count("abcdefgh"))
	}
}

func TestSynthesize_TrimmingCountsEachItemOnce(t *testing.T) {
	rows := make([]domain.Row, 500)
	for i := range rows {
		rows[i] = domain.Row{"candidate_id": strconv.Itoa(i), "name": "Candidate " + strconv.Itoa(i)}
	}
	hits := make([]domain.ResumeHit, 50)
	for i := range hits {
		hits[i] = domain.ResumeHit{CandidateID: strconv.Itoa(i), Content: strings.Repeat("x", 100)}
	}
	counter := &countingCounter{}
	o := &mockOracle{answer: "ok"}

	if _, err := New(o, counter, 100).Synthesize(context.Background(), "q", rows, hits); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// one count per item plus one per list
	if want := len(rows) + len(hits) + 2; counter.calls != want {
		t.Errorf("expected %d counts, got %d", want, counter.calls)
	}
	if strings.Contains(o.got.User, "xxxx") {
		t.Error("hits should be dropped before rows")
	}
	if !strings.Contains(o.got.User, `"candidate_id":"0"`) {
		t.Error("expected the leading rows kept")
	}
	if strings.Contains(o.got.User, `"candidate_id":"499"`) {
		t.Error("expected tail rows dropped")
	}
}

func TestSynthesize_NothingFitsSendsEmptySets(t *testing.T) {
	rows := []domain.Row{{"name": strings.Repeat("n", 400)}}
	o := &mockOracle{answer: "ok"}

	if _, err := New(o, CharCounter{}, 5).Synthesize(context.Background(), "q", rows, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.Contains(o.got.User, "nnnn") || strings.Contains(o.got.User, "null") {
		t.Errorf("expected empty sets, got %q", o.got.User)
	}
}
