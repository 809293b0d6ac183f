package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

func chatServer(t *testing.T, content string, check func(body map[string]any)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if check != nil {
			check(body)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":     "chatcmpl-1",
			"object": "chat.completion",
			"model":  "gpt-test",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
			"usage": map[string]any{"prompt_tokens": 12, "completion_tokens": 3, "total_tokens": 15},
		})
	}))
}

func TestOracle_Complete(t *testing.T) {
	server := chatServer(t, "  both\n", func(body map[string]any) {
		if body["model"] != "gpt-test" {
			t.Errorf("unexpected model %v", body["model"])
		}
		msgs, _ := body["messages"].([]any)
		if len(msgs) != 2 {
			t.Fatalf("expected system and user messages, got %d", len(msgs))
		}
		sys := msgs[0].(map[string]any)
		user := msgs[1].(map[string]any)
		if sys["role"] != "system" || sys["content"] != "classify" {
			t.Errorf("unexpected system message %v", sys)
		}
		if user["role"] != "user" || user["content"] != "who knows azure?" {
			t.Errorf("unexpected user message %v", user)
		}
		temp, ok := body["temperature"].(float64)
		if !ok || temp <= 0 || temp > 1e-30 {
			t.Errorf("expected near-zero temperature to be sent, got %v", body["temperature"])
		}
	})
	defer server.Close()

	o := NewOracle(&Config{APIKey: "k", BaseURL: server.URL, Model: "gpt-test", Logger: zap.NewNop()})

	ctx, usage := domain.NewContextWithUsage(context.Background())
	got, err := o.Complete(ctx, domain.Prompt{Purpose: "classify", System: "classify", User: "who knows azure?"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "both" {
		t.Errorf("expected trimmed text, got %q", got)
	}
	if calls, tokens, _ := usage.Snapshot(); calls != 1 || tokens != 15 {
		t.Errorf("expected 1 call / 15 tokens, got %d / %d", calls, tokens)
	}
}

func TestOracle_UserOnly(t *testing.T) {
	server := chatServer(t, "ok", func(body map[string]any) {
		if msgs, _ := body["messages"].([]any); len(msgs) != 1 {
			t.Errorf("expected only the user message, got %d", len(msgs))
		}
		if body["temperature"] != 0.7 {
			t.Errorf("expected explicit temperature, got %v", body["temperature"])
		}
	})
	defer server.Close()

	o := NewOracle(&Config{APIKey: "k", BaseURL: server.URL, Model: "gpt-test"})
	if _, err := o.Complete(context.Background(), domain.Prompt{User: "hi", Temperature: 0.7}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestOracle_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"message": "overloaded", "type": "server_error"},
		})
	}))
	defer server.Close()

	o := NewOracle(&Config{APIKey: "k", BaseURL: server.URL, Model: "gpt-test"})
	_, err := o.Complete(context.Background(), domain.Prompt{User: "hi"})
	if !errors.Is(err, domain.ErrOracleUnavailable) {
		t.Fatalf("expected ErrOracleUnavailable, got %v", err)
	}
}

func TestOracle_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "x", "choices": []any{}})
	}))
	defer server.Close()

	o := NewOracle(&Config{APIKey: "k", BaseURL: server.URL, Model: "gpt-test"})
	_, err := o.Complete(context.Background(), domain.Prompt{User: "hi"})
	if !errors.Is(err, domain.ErrOracleUnavailable) {
		t.Fatalf("expected ErrOracleUnavailable, got %v", err)
	}
}
