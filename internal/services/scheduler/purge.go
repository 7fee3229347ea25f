package scheduler

import (
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/interfaces"
)

// Sweeper removes idle entries and reports how many were dropped
type Sweeper interface {
	Cleanup() int
}

// PurgeHandler returns the insight_cache_purge job body. Expired cache
// entries are already invisible to Get; purging only reclaims memory.
func PurgeHandler(cache interfaces.InsightCache, sweepers []Sweeper, logger arbor.ILogger) func() error {
	return func() error {
		purged := cache.Purge()
		evicted := 0
		for _, sw := range sweepers {
			evicted += sw.Cleanup()
		}
		if purged > 0 || evicted > 0 {
			logger.Debug().
				Int("cache_entries", purged).
				Int("limiters", evicted).
				Msg("Purged expired insight cache entries")
		}
		return nil
	}
}
