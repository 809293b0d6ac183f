package synthesize

import (
	"github.com/pkoukk/tiktoken-go"
)

// DefaultEncoding matches the chat models the service is deployed with.
const DefaultEncoding = "cl100k_base"

// NewCounter returns a tiktoken counter for encoding, or a character estimate
// when the encoding cannot be loaded.
func NewCounter(encoding string) (Counter, error) {
	if encoding == "" {
		encoding = DefaultEncoding
	}
	enc, err := tiktoken.GetEncoding(encoding)
	if err != nil {
		return CharCounter{}, err //nolint:wrapcheck // caller logs and keeps the fallback
	}
	return tokenCounter{enc: enc}, nil
}

type tokenCounter struct {
	enc *tiktoken.Tiktoken
}

func (c tokenCounter) Count(text string) int {
	return len(c.enc.Encode(text, nil, nil))
}

// CharCounter estimates four characters per token.
type CharCounter struct{}

// Count returns the estimate, rounded up.
func (CharCounter) Count(text string) int {
	return (len(text) + 3) / 4
}
