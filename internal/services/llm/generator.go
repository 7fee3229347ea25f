package llm

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/interfaces"
)

// ContentBackend is the provider surface the generator drives.
// ProviderFactory implements it.
type ContentBackend interface {
	GenerateContent(ctx context.Context, request *interfaces.GenerationRequest) (*ContentResponse, error)
	DetectProvider(model string) ProviderType
}

// Generator adapts a ContentBackend to interfaces.InsightGenerator: one call
// per request, bounded by a timeout, every failure typed. It never retries.
type Generator struct {
	backend ContentBackend
	timeout time.Duration
	logger  arbor.ILogger
}

// NewGenerator creates a generator. timeout <= 0 leaves the caller's deadline alone.
func NewGenerator(backend ContentBackend, timeout time.Duration, logger arbor.ILogger) *Generator {
	return &Generator{
		backend: backend,
		timeout: timeout,
		logger:  logger,
	}
}

// Compile-time assertion
var _ interfaces.InsightGenerator = (*Generator)(nil)

// Generate sends the request and returns the trimmed completion text.
func (g *Generator) Generate(ctx context.Context, request *interfaces.GenerationRequest) (string, error) {
	provider := g.backend.DetectProvider(request.Model)

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.backend.GenerateContent(ctx, request)
	if err != nil {
		genErr := ClassifyError(ctx, provider, err)
		if IsRateLimitError(err) {
			g.logger.Warn().Str("provider", string(provider)).Msg("Provider rate limit reached")
		}
		return "", genErr
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text)
	}
	if text == "" {
		return "", interfaces.NewGenerationError(interfaces.GenerationMalformedResponse, string(provider), errors.New("completion contained no text"))
	}

	return text, nil
}
