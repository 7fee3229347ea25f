package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()
	data := s.app.DataLimiter

	// Health and version (no auth)
	mux.HandleFunc("/healthz", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)

	// Tooltip descriptions (no auth)
	mux.HandleFunc("/api/greek-flow/descriptions", s.app.MarketHandler.GreekDescriptionsHandler)
	mux.HandleFunc("/api/premium-flow/sectors", s.app.MarketHandler.SectorDescriptionsHandler)

	// Data routes, each paired with an insight
	mux.HandleFunc("/api/congress/trades", s.protected(data, s.app.MarketHandler.CongressTradesHandler))
	mux.HandleFunc("/api/greek-flow/data", s.protected(data, s.app.MarketHandler.GreekFlowHandler))
	mux.HandleFunc("/api/earnings/data", s.protected(data, s.app.MarketHandler.EarningsHandler))
	mux.HandleFunc("/api/insider-trading/data", s.protected(data, s.app.MarketHandler.InsiderTradingHandler))
	mux.HandleFunc("/api/premium-flow/data", s.protected(data, s.app.MarketHandler.PremiumFlowHandler))
	mux.HandleFunc("/api/market-tide/data", s.protected(data, s.app.MarketHandler.MarketTideHandler))

	// Feedback
	mux.HandleFunc("/api/feedback", s.protected(s.app.FeedbackLimiter, s.app.FeedbackHandler.FeedbackHandler))
	mux.HandleFunc("/api/feedback/", s.protected(data, s.app.FeedbackHandler.ReviewHandler)) // POST /{id}/reviewed

	// Insight cache administration
	mux.HandleFunc("/api/insights/cache", s.protected(data, s.app.InsightCacheHandler.CacheHandler))

	// 404 handler for unmatched routes
	mux.HandleFunc("/", s.app.APIHandler.NotFoundHandler)

	return mux
}
