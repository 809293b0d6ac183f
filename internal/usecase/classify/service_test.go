package classify

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/candisearch/internal/domain"
	"github.com/kailas-cloud/candisearch/internal/domain/route"
	"github.com/kailas-cloud/candisearch/internal/metrics"
)

// --- Mocks ---

type mockOracle struct {
	answer string
	err    error
	got    domain.Prompt
	calls  int
}

func (m *mockOracle) Complete(_ context.Context, p domain.Prompt) (string, error) {
	m.calls++
	m.got = p
	return m.answer, m.err
}

// --- Tests ---

func TestClassify_Hybrid(t *testing.T) {
	tests := []struct {
		answer string
		want   route.Label
	}{
		{"structured", route.Structured},
		{"Semantic.", route.Semantic},
		{"  BOTH\n", route.Both},
		{"sql", route.Structured},
		{"vector", route.Semantic},
	}
	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			o := &mockOracle{answer: tt.answer}
			d := New(o).Classify(context.Background(), route.Hybrid, "Where does John live?")
			if d.Label != tt.want {
				t.Errorf("expected %q, got %q", tt.want, d.Label)
			}
			if d.Fallback {
				t.Error("recognized answer must not be a fallback")
			}
		})
	}
}

func TestClassify_SinglePromptAndDeterminism(t *testing.T) {
	o := &mockOracle{answer: "metadata_search"}
	d := New(o).Classify(context.Background(), route.Single, "list candidates from Toronto")

	if d.Label != route.Metadata {
		t.Errorf("expected metadata, got %q", d.Label)
	}
	if o.calls != 1 {
		t.Errorf("expected one oracle call, got %d", o.calls)
	}
	if o.got.Temperature != 0 {
		t.Errorf("expected temperature 0, got %v", o.got.Temperature)
	}
	if !strings.Contains(o.got.User, "resume, metadata") {
		t.Errorf("prompt should list the single-path labels: %q", o.got.User)
	}
	if !strings.Contains(o.got.User, `"list candidates from Toronto"`) {
		t.Errorf("prompt should quote the question: %q", o.got.User)
	}
}

func TestClassify_UnknownAnswerFallsBack(t *testing.T) {
	before := testutil.ToFloat64(metrics.RouteDecisionsTotal.WithLabelValues("hybrid", "semantic", "true"))

	for _, answer := range []string{"", "DROP TABLE candidates", "structured or semantic", "I think both apply"} {
		d := New(&mockOracle{answer: answer}).Classify(context.Background(), route.Hybrid, "q")
		if d.Label != route.Semantic || !d.Fallback {
			t.Errorf("answer %q: expected semantic fallback, got %+v", answer, d)
		}
	}

	after := testutil.ToFloat64(metrics.RouteDecisionsTotal.WithLabelValues("hybrid", "semantic", "true"))
	if after-before != 4 {
		t.Errorf("expected 4 fallback decisions recorded, got %v", after-before)
	}
}

func TestClassify_SingleDefaultIsResume(t *testing.T) {
	d := New(&mockOracle{answer: "structured"}).Classify(context.Background(), route.Single, "q")
	if d.Label != route.Resume || !d.Fallback {
		t.Errorf("expected resume fallback, got %+v", d)
	}
}

func TestClassify_OracleErrorFallsBack(t *testing.T) {
	o := &mockOracle{err: errors.New("timeout")}
	d := New(o).Classify(context.Background(), route.Hybrid, "q")
	if d.Label != route.Hybrid.Default || !d.Fallback {
		t.Errorf("expected default fallback, got %+v", d)
	}
}
