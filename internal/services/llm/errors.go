package llm

import (
	"context"
	"errors"
	"strings"

	"github.com/ternarybob/lukz/internal/interfaces"
)

// ErrEmptyResponse marks a provider answer that carried no usable text.
var ErrEmptyResponse = errors.New("empty response")

// IsRateLimitError checks if an error is a provider rate limit error.
// Matches 429 status codes and RESOURCE_EXHAUSTED errors.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "429") ||
		strings.Contains(errStr, "RESOURCE_EXHAUSTED") ||
		strings.Contains(errStr, "quota")
}

// IsTimeoutError reports whether err (or the call's context) hit a deadline.
func IsTimeoutError(ctx context.Context, err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	return ctx != nil && errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// ClassifyError converts a provider failure into a *interfaces.GenerationError.
func ClassifyError(ctx context.Context, provider ProviderType, err error) *interfaces.GenerationError {
	var genErr *interfaces.GenerationError
	if errors.As(err, &genErr) {
		return genErr
	}

	switch {
	case IsTimeoutError(ctx, err):
		return interfaces.NewGenerationError(interfaces.GenerationTimeout, string(provider), err)
	case errors.Is(err, ErrEmptyResponse):
		return interfaces.NewGenerationError(interfaces.GenerationMalformedResponse, string(provider), err)
	default:
		return interfaces.NewGenerationError(interfaces.GenerationProviderError, string(provider), err)
	}
}
