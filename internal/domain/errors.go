package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsafeQuery signals a structured query rejected by the safety validator.
	ErrUnsafeQuery = errors.New("unsafe query")
	// ErrCandidateNotFound signals that no candidate matched a name or identifier.
	ErrCandidateNotFound = errors.New("candidate not found")
	// ErrAmbiguousCandidate signals that an exact lookup matched more than one candidate.
	ErrAmbiguousCandidate = errors.New("ambiguous candidate")
	// ErrInvalidRequest signals a request the pipeline cannot act on.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrOracleUnavailable signals a text-generation provider failure.
	ErrOracleUnavailable = errors.New("oracle unavailable")
	// ErrEmbeddingProviderError signals an embedding provider failure.
	ErrEmbeddingProviderError = errors.New("embedding provider error")
	// ErrStoreUnavailable signals a relational store failure.
	ErrStoreUnavailable = errors.New("candidate store unavailable")
	// ErrIndexUnavailable signals a search index failure.
	ErrIndexUnavailable = errors.New("search index unavailable")
)

// Safety rejection kinds.
const (
	SafetyColumn     = "column"
	SafetyDenylist   = "denylist"
	SafetyVocabulary = "vocabulary"
	SafetyMalformed  = "malformed"
)

// SafetyError carries the reason a structured query was rejected.
// Kind names the check that failed.
type SafetyError struct {
	Kind   string
	Reason string
}

func (e *SafetyError) Error() string {
	return fmt.Sprintf("%s: %s", ErrUnsafeQuery.Error(), e.Reason)
}

func (e *SafetyError) Unwrap() error { return ErrUnsafeQuery }

// NewSafetyError creates a safety error with a formatted reason.
func NewSafetyError(kind, format string, args ...any) error {
	return &SafetyError{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}
