// Package cache provides the in-memory, time-expiring insight cache.
// Entries live only for the lifetime of the process.
package cache

import (
	"sync"
	"time"

	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/interfaces"
)

// DefaultTTL is used when Set is called with a non-positive ttl.
const DefaultTTL = 300 * time.Second

type entry struct {
	value     string
	expiresAt time.Time
}

// Service is a mutex-guarded map from fingerprint to generated insight.
// Every operation holds the single lock for its whole read/evict/write step.
type Service struct {
	mu         sync.Mutex
	entries    map[string]entry
	defaultTTL time.Duration
	now        func() time.Time
	hits       int64
	misses     int64
	logger     arbor.ILogger
}

// Option configures a Service.
type Option func(*Service)

// WithDefaultTTL overrides DefaultTTL.
func WithDefaultTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.defaultTTL = ttl
		}
	}
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates an empty cache.
func NewService(logger arbor.ILogger, opts ...Option) *Service {
	s := &Service{
		entries:    make(map[string]entry),
		defaultTTL: DefaultTTL,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Compile-time assertion
var _ interfaces.InsightCache = (*Service)(nil)

// Get returns the value iff present and now <= expiresAt. An expired entry
// is evicted in the same critical section.
func (s *Service) Get(key string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok {
		s.misses++
		return "", false
	}
	if s.now().After(e.expiresAt) {
		delete(s.entries, key)
		s.misses++
		return "", false
	}
	s.hits++
	return e.value, true
}

// Set inserts or overwrites key with expiresAt = now + ttl.
func (s *Service) Set(key string, value string, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = entry{value: value, expiresAt: s.now().Add(ttl)}
}

// Clear removes all entries. Counters are kept.
func (s *Service) Clear() {
	s.mu.Lock()
	n := len(s.entries)
	s.entries = make(map[string]entry)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Info().Int("removed", n).Msg("Insight cache cleared")
	}
}

// Purge evicts every expired entry and returns the number removed.
func (s *Service) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for key, e := range s.entries {
		if now.After(e.expiresAt) {
			delete(s.entries, key)
			removed++
		}
	}
	return removed
}

// Stats returns a consistent snapshot of size and counters.
func (s *Service) Stats() interfaces.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return interfaces.CacheStats{
		Entries: len(s.entries),
		Hits:    s.hits,
		Misses:  s.misses,
	}
}
