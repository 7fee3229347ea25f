package interfaces

import "time"

// CacheStats reports insight cache activity.
type CacheStats struct {
	Entries int   `json:"entries"`
	Hits    int64 `json:"hits"`
	Misses  int64 `json:"misses"`
}

// InsightCache is a thread-safe, time-expiring store of generated insights keyed by fingerprint.
type InsightCache interface {
	// Get returns the cached value iff present and not expired. Expired entries are evicted.
	Get(key string) (string, bool)

	// Set inserts or overwrites an entry expiring ttl from now. ttl <= 0 uses the default TTL.
	Set(key string, value string, ttl time.Duration)

	// Clear removes all entries.
	Clear()

	// Purge removes every expired entry and returns how many were removed.
	Purge() int

	// Stats returns a snapshot of entry count and hit/miss counters.
	Stats() CacheStats
}
