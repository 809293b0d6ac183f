package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"github.com/kailas-cloud/candisearch/internal/domain"
)

func TestJSONRecoverer(t *testing.T) {
	handler := jsonRecoverer(zap.NewNop())(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/ask", http.NoBody))

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", rr.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("expected JSON body: %v", err)
	}
	if body["code"] != "internal_error" {
		t.Errorf("unexpected body %v", body)
	}
}

func TestRequestIDReachesDomainContextAndHeader(t *testing.T) {
	var seen string
	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = domain.RequestIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
	handler := requestID(wideEventMiddleware(zap.NewNop())(inner))

	req := httptest.NewRequest(http.MethodPost, "/v1/ask", http.NoBody)
	req.Header.Set("X-Request-Id", "client-supplied")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if seen != "client-supplied" {
		t.Errorf("domain request id: got %q", seen)
	}
	if rr.Header().Get("X-Request-ID") != "client-supplied" {
		t.Errorf("response header: got %q", rr.Header().Get("X-Request-ID"))
	}
}

func TestRequestIDGeneratedWhenAbsent(t *testing.T) {
	var seen string
	handler := requestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		seen = domain.RequestIDFromContext(r.Context())
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", http.NoBody))

	if seen == "" {
		t.Error("expected a generated request id")
	}
}
