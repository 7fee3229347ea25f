package insight

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/interfaces"
)

// FallbackPrefix starts every degraded insight string.
const FallbackPrefix = "Error generating insight: "

// Config tunes generation and caching.
type Config struct {
	CacheTTL    time.Duration
	WordLimit   int
	Temperature float32
	MaxTokens   int
}

// DefaultConfig mirrors the configured defaults.
func DefaultConfig() Config {
	return Config{
		CacheTTL:    300 * time.Second,
		WordLimit:   DefaultWordLimit,
		Temperature: 0.3,
		MaxTokens:   400,
	}
}

// Service runs the synthesis pipeline:
// fingerprint -> cache lookup -> assemble -> template -> prompt -> generate -> cache store.
// Concurrent misses on one fingerprint may each call the generator.
type Service struct {
	cache     interfaces.InsightCache
	generator interfaces.InsightGenerator
	config    Config
	now       func() time.Time
	logger    arbor.ILogger
}

// NewService creates an insight service over an explicitly owned cache.
func NewService(cache interfaces.InsightCache, generator interfaces.InsightGenerator, config Config, logger arbor.ILogger) *Service {
	if config.WordLimit <= 0 {
		config.WordLimit = DefaultWordLimit
	}
	return &Service{
		cache:     cache,
		generator: generator,
		config:    config,
		now:       time.Now,
		logger:    logger,
	}
}

// SynthesizeInsight returns the cached or freshly generated insight for the
// request. It never fails: generation errors yield "Error generating insight: {detail}",
// which is not cached.
func (s *Service) SynthesizeInsight(ctx context.Context, domain Domain, filters map[string]string, dataset Dataset, ictx Context) string {
	key := Fingerprint(domain, filters, dataset)

	if cached, ok := s.cache.Get(key); ok {
		s.logger.Debug().Str("domain", string(domain)).Str("fingerprint", key[:12]).Msg("Insight cache hit")
		return cached
	}
	s.logger.Debug().Str("domain", string(domain)).Str("fingerprint", key[:12]).Msg("Insight cache miss")

	if hh := ictx.RequiredPhrases.HistoricalHigh; hh != "" && !validHistoricalHigh(hh) {
		s.logger.Debug().
			Str("domain", string(domain)).
			Str("phrase", hh).
			Msg("Supplied historical high phrase replaced, missing 30-day High prefix")
	}

	phrases := AssemblePhrases(dataset, ictx, s.now())
	template := FormatTemplate(phrases)
	prompt := BuildPrompt(Preamble(domain), template, phrases, ictx, dataset, s.config.WordLimit)

	start := time.Now()
	text, err := s.generator.Generate(ctx, &interfaces.GenerationRequest{
		Messages:    prompt.Messages(),
		Temperature: s.config.Temperature,
		MaxTokens:   s.config.MaxTokens,
	})
	elapsed := time.Since(start)

	if err == nil && strings.TrimSpace(text) == "" {
		err = interfaces.NewGenerationError(interfaces.GenerationMalformedResponse, "", errors.New("empty completion"))
	}
	if err != nil {
		kind := interfaces.GenerationProviderError
		var genErr *interfaces.GenerationError
		if errors.As(err, &genErr) {
			kind = genErr.Kind
		}
		s.logger.Warn().
			Err(err).
			Str("domain", string(domain)).
			Str("kind", string(kind)).
			Dur("elapsed", elapsed).
			Msg("Insight generation failed, returning fallback")
		return FallbackPrefix + err.Error()
	}

	text = strings.TrimSpace(text)
	s.cache.Set(key, text, s.config.CacheTTL)

	s.logger.Info().
		Str("domain", string(domain)).
		Dur("elapsed", elapsed).
		Int("length", len(text)).
		Msg("Insight generated")

	return text
}

// Synthesize runs SynthesizeInsight for an adapter-built request.
func (s *Service) Synthesize(ctx context.Context, req Request) string {
	return s.SynthesizeInsight(ctx, req.Domain, req.Filters, req.Dataset, req.Context)
}
