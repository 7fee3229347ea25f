package handlers

import (
	"net/http"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/interfaces"
)

// InsightCacheHandler exposes cache statistics and the administrative clear.
type InsightCacheHandler struct {
	cache  interfaces.InsightCache
	logger arbor.ILogger
}

func NewInsightCacheHandler(cache interfaces.InsightCache, logger arbor.ILogger) *InsightCacheHandler {
	return &InsightCacheHandler{
		cache:  cache,
		logger: logger,
	}
}

// CacheHandler handles GET (stats) and DELETE (clear) on /api/insights/cache
func (h *InsightCacheHandler) CacheHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		WriteJSON(w, http.StatusOK, h.cache.Stats())
	case http.MethodDelete:
		h.cache.Clear()
		h.logger.Info().Str("remote", r.RemoteAddr).Msg("Insight cache cleared via API")
		WriteSuccess(w)
	default:
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
	}
}
