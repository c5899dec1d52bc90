package inference

import (
	"context"
	"errors"
)

// ErrResourceExhausted marks a provider rejection that is worth retrying
// after a pause (rate limits, temporary overload). All other provider errors
// are treated as permanent for the failing prompt.
var ErrResourceExhausted = errors.New("model resource exhausted")

// IsResourceExhausted reports whether err wraps ErrResourceExhausted.
func IsResourceExhausted(err error) bool {
	return errors.Is(err, ErrResourceExhausted)
}

// Options carries the per-request generation parameters.
type Options struct {
	MaxTokens   int
	Temperature float64
	TopP        float64
}

// Generator produces one completion per prompt. Implementations wrap a
// concrete provider SDK and normalize transient rejections to
// ErrResourceExhausted.
type Generator interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)

	// ModelID identifies the backing model for logging and the document
	// footer.
	ModelID() string
}
