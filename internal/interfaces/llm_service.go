package interfaces

import (
	"context"
	"errors"
	"fmt"
)

// Message represents a single message in a chat conversation
type Message struct {
	// Role identifies the message sender: "user", "assistant", or "system"
	Role string

	// Content contains the text content of the message
	Content string
}

// GenerationRequest is the provider-agnostic payload sent to a generative text backend.
type GenerationRequest struct {
	Messages    []Message
	Model       string
	Temperature float32
	MaxTokens   int
}

// InsightGenerator produces natural-language text from a structured prompt.
// Implementations must not retry; every failure is returned as a *GenerationError.
type InsightGenerator interface {
	// Generate sends the request and returns the trimmed completion text.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeout control
	//   - request: Messages plus sampling parameters
	//
	// Returns:
	//   - string: Generated text
	//   - error: *GenerationError describing the failure kind
	Generate(ctx context.Context, request *GenerationRequest) (string, error)
}

// GenerationErrorKind classifies generation failures.
type GenerationErrorKind string

const (
	// GenerationTimeout means the provider call exceeded its deadline.
	GenerationTimeout GenerationErrorKind = "timeout"
	// GenerationProviderError covers transport failures and provider-side errors.
	GenerationProviderError GenerationErrorKind = "provider_error"
	// GenerationMalformedResponse means the provider answered without usable text.
	GenerationMalformedResponse GenerationErrorKind = "malformed_response"
)

// GenerationError is the typed failure returned by InsightGenerator implementations.
type GenerationError struct {
	Kind     GenerationErrorKind
	Provider string
	Err      error
}

func (e *GenerationError) Error() string {
	detail := "unknown error"
	if e.Err != nil {
		detail = e.Err.Error()
	}
	if e.Provider == "" {
		return fmt.Sprintf("%s: %s", e.Kind, detail)
	}
	return fmt.Sprintf("%s %s: %s", e.Provider, e.Kind, detail)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

// NewGenerationError builds a GenerationError of the given kind.
func NewGenerationError(kind GenerationErrorKind, provider string, err error) *GenerationError {
	return &GenerationError{Kind: kind, Provider: provider, Err: err}
}

// IsGenerationKind reports whether err is a GenerationError of the given kind.
func IsGenerationKind(err error, kind GenerationErrorKind) bool {
	var genErr *GenerationError
	if errors.As(err, &genErr) {
		return genErr.Kind == kind
	}
	return false
}

// ConfigurationError reports missing or invalid provider credentials.
// It is fatal at startup and never produced per request.
type ConfigurationError struct {
	Provider string
	Reason   string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error for provider '%s': %s", e.Provider, e.Reason)
}
