package domain

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type stubEmbedder struct {
	result EmbeddingResult
	err    error
	got    string
}

func (s *stubEmbedder) Embed(_ context.Context, text string) (EmbeddingResult, error) {
	s.got = text
	return s.result, s.err
}

func TestInstructionEmbedder_PrependsInstruction(t *testing.T) {
	inner := &stubEmbedder{result: EmbeddingResult{Embedding: []float32{0.1, 0.2, 0.3}}}
	emb := NewInstructionEmbedder(inner, "query: ")

	result, err := emb.Embed(context.Background(), "azure functions")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.got != "query: azure functions" {
		t.Errorf("expected prepended text, got %q", inner.got)
	}
	if len(result.Embedding) != 3 {
		t.Errorf("expected 3-element vector, got %d", len(result.Embedding))
	}
}

func TestInstructionEmbedder_ErrorPropagation(t *testing.T) {
	innerErr := errors.New("provider down")
	emb := NewInstructionEmbedder(&stubEmbedder{err: innerErr}, "query: ")

	_, err := emb.Embed(context.Background(), "hello")
	if !errors.Is(err, innerErr) {
		t.Errorf("expected wrapped inner error, got %v", err)
	}
}

func TestSafetyError_UnwrapsToSentinel(t *testing.T) {
	err := NewSafetyError(SafetyColumn, "column %q is not allowed", "salary")

	if !errors.Is(err, ErrUnsafeQuery) {
		t.Fatal("expected errors.Is(err, ErrUnsafeQuery)")
	}
	var se *SafetyError
	if !errors.As(err, &se) {
		t.Fatal("expected *SafetyError")
	}
	if se.Kind != SafetyColumn {
		t.Errorf("unexpected kind %q", se.Kind)
	}
	if se.Reason != `column "salary" is not allowed` {
		t.Errorf("unexpected reason %q", se.Reason)
	}
	if err.Error() != `unsafe query: column "salary" is not allowed` {
		t.Errorf("unexpected message %q", err.Error())
	}
}

func TestFilter_Kinds(t *testing.T) {
	tests := []struct {
		name       string
		f          Filter
		zero, proj bool
	}{
		{"none", Filter{}, true, false},
		{"projection", Filter{Column: "email"}, false, true},
		{"equality", Filter{Column: "location", Value: "Toronto"}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.f.IsZero() != tt.zero {
				t.Errorf("IsZero: got %v, want %v", tt.f.IsZero(), tt.zero)
			}
			if tt.f.IsProjection() != tt.proj {
				t.Errorf("IsProjection: got %v, want %v", tt.f.IsProjection(), tt.proj)
			}
		})
	}
}

func TestUsage_NilSafe(t *testing.T) {
	var u *Usage
	u.AddOracle(10)
	u.AddEmbedding(5)
	calls, ot, et := u.Snapshot()
	if calls != 0 || ot != 0 || et != 0 {
		t.Errorf("nil usage should report zeros, got %d %d %d", calls, ot, et)
	}
	if UsageFromContext(context.Background()) != nil {
		t.Error("expected nil usage without collector")
	}
}

func TestUsage_ConcurrentAdds(t *testing.T) {
	ctx, u := NewContextWithUsage(context.Background())
	if UsageFromContext(ctx) != u {
		t.Fatal("expected collector from context")
	}

	var wg sync.WaitGroup
	for range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			UsageFromContext(ctx).AddOracle(3)
			UsageFromContext(ctx).AddEmbedding(2)
		}()
	}
	wg.Wait()

	calls, ot, et := u.Snapshot()
	if calls != 20 || ot != 60 || et != 40 {
		t.Errorf("got calls=%d oracle=%d embedding=%d", calls, ot, et)
	}
}
