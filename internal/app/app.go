// Package app wires configuration, storage, services and handlers together.
package app

import (
	"fmt"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/common"
	"github.com/ternarybob/lukz/internal/handlers"
	"github.com/ternarybob/lukz/internal/interfaces"
	"github.com/ternarybob/lukz/internal/services/cache"
	"github.com/ternarybob/lukz/internal/services/feedback"
	"github.com/ternarybob/lukz/internal/services/insight"
	"github.com/ternarybob/lukz/internal/services/llm"
	"github.com/ternarybob/lukz/internal/services/market"
	"github.com/ternarybob/lukz/internal/services/ratelimit"
	"github.com/ternarybob/lukz/internal/services/scheduler"
	"github.com/ternarybob/lukz/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Services
	InsightCache     *cache.Service
	ProviderFactory  *llm.ProviderFactory
	InsightService   *insight.Service
	MarketService    *market.Service
	FeedbackService  *feedback.Service
	SchedulerService *scheduler.Service

	// Per-client rate limiters
	DataLimiter     *ratelimit.Limiter
	FeedbackLimiter *ratelimit.Limiter

	// HTTP handlers
	APIHandler          *handlers.APIHandler
	MarketHandler       *handlers.MarketHandler
	FeedbackHandler     *handlers.FeedbackHandler
	InsightCacheHandler *handlers.InsightCacheHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	if err := app.initDatabase(); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	if err := app.initServices(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to initialize services: %w", err)
	}

	app.initHandlers()

	if err := app.SchedulerService.Start(); err != nil {
		app.Close()
		return nil, fmt.Errorf("failed to start scheduler: %w", err)
	}

	if cfg.IsProduction() && cfg.Security.APIKey == "" {
		logger.Warn().Msg("security.api_key is not set; any non-empty X-API-Key is accepted")
	}

	logger.Info().
		Str("llm_provider", string(cfg.LLM.DefaultProvider)).
		Str("cache_ttl", cfg.Insight.CacheTTL).
		Msg("Application initialization complete")

	return app, nil
}

// initDatabase initializes the storage layer (Badger)
func (a *App) initDatabase() error {
	storageManager, err := storage.NewStorageManager(a.Logger, a.Config)
	if err != nil {
		return fmt.Errorf("failed to create storage manager: %w", err)
	}

	a.StorageManager = storageManager
	a.Logger.Debug().
		Str("storage", "badger").
		Str("path", a.Config.Storage.Badger.Path).
		Msg("Storage layer initialized")

	return nil
}

// initServices builds services in dependency order. The insight cache is
// constructed here and owned by the App; nothing else creates one.
func (a *App) initServices() error {
	ttl, err := a.Config.Insight.CacheTTLDuration()
	if err != nil {
		return err
	}
	timeout, err := a.Config.Insight.TimeoutDuration()
	if err != nil {
		return err
	}

	a.InsightCache = cache.NewService(a.Logger, cache.WithDefaultTTL(ttl))

	a.ProviderFactory = llm.NewProviderFactory(a.Config, a.Logger)
	generator := llm.NewGenerator(a.ProviderFactory, timeout, a.Logger)

	a.InsightService = insight.NewService(a.InsightCache, generator, insight.Config{
		CacheTTL:    ttl,
		WordLimit:   a.Config.Insight.WordLimit,
		Temperature: a.Config.Insight.Temperature,
		MaxTokens:   a.Config.Insight.MaxTokens,
	}, a.Logger)

	a.MarketService = market.NewService(a.Logger)
	a.FeedbackService = feedback.NewService(a.StorageManager.FeedbackStorage(), a.Logger)

	a.DataLimiter = ratelimit.New(a.Config.RateLimit.RequestsPerMinute)
	a.FeedbackLimiter = ratelimit.New(a.Config.RateLimit.FeedbackPerMinute)

	a.SchedulerService = scheduler.NewService(a.Logger)
	purge := scheduler.PurgeHandler(a.InsightCache, []scheduler.Sweeper{a.DataLimiter, a.FeedbackLimiter}, a.Logger)
	if err := a.SchedulerService.RegisterJob(
		scheduler.PurgeJobName,
		a.Config.Insight.PurgeSchedule,
		"Remove expired insight cache entries and idle rate limiters",
		purge,
	); err != nil {
		return fmt.Errorf("failed to register purge job: %w", err)
	}

	return nil
}

func (a *App) initHandlers() {
	a.APIHandler = handlers.NewAPIHandler(a.Logger)
	a.MarketHandler = handlers.NewMarketHandler(a.MarketService, a.InsightService, a.Logger)
	a.FeedbackHandler = handlers.NewFeedbackHandler(a.FeedbackService, a.Logger)
	a.InsightCacheHandler = handlers.NewInsightCacheHandler(a.InsightCache, a.Logger)
}

// Close closes all application resources
func (a *App) Close() error {
	if a.SchedulerService != nil {
		if err := a.SchedulerService.Stop(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to stop scheduler service")
		}
	}

	if a.ProviderFactory != nil {
		if err := a.ProviderFactory.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close LLM providers")
		}
	}

	// The cache is process-local; dropping the reference discards it
	a.InsightCache = nil

	if a.StorageManager != nil {
		if err := a.StorageManager.Close(); err != nil {
			return fmt.Errorf("failed to close storage: %w", err)
		}
		a.Logger.Info().Msg("Storage closed")
	}

	return nil
}
