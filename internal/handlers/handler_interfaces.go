package handlers

import (
	"context"

	"github.com/ternarybob/lukz/internal/models"
	"github.com/ternarybob/lukz/internal/services/insight"
)

// MarketDataProvider produces the datasets behind the data endpoints.
type MarketDataProvider interface {
	CongressTrades(ctx context.Context, filters *models.CongressFilters) ([]models.CongressTrade, error)
	GreekFlow(ctx context.Context, filters *models.GreekFlowFilters) ([]models.GreekFlow, error)
	Earnings(ctx context.Context, filters *models.EarningsFilters) ([]models.EarningsReport, error)
	InsiderTrades(ctx context.Context, filters *models.InsiderFilters) ([]models.InsiderTrade, error)
	PremiumFlow(ctx context.Context, filters *models.PremiumFlowFilters) ([]models.PremiumFlow, models.HistoricalStats, error)
	MarketTide(ctx context.Context, filters *models.MarketTideFilters) ([]models.MarketTide, models.HistoricalStats, error)
	GreekDescriptions() map[string]string
	SectorDescriptions() map[string]string
}

// InsightSynthesizer turns a dataset into a narrative insight. It never fails.
type InsightSynthesizer interface {
	Synthesize(ctx context.Context, req insight.Request) string
}

// FeedbackRecorder persists and lists user feedback.
type FeedbackRecorder interface {
	Submit(ctx context.Context, message string) (*models.Feedback, error)
	List(ctx context.Context, limit int) ([]*models.Feedback, error)
	MarkReviewed(ctx context.Context, id string) error
}
