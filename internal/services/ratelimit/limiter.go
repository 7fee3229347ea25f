// Package ratelimit keeps a token bucket per client address.
package ratelimit

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// DefaultIdleTimeout is how long a client may be silent before Cleanup drops it
const DefaultIdleTimeout = 3 * time.Minute

// Decision describes one Allow call and feeds the X-RateLimit-* headers
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter allows up to perMinute requests per minute per key, with a burst
// of perMinute.
type Limiter struct {
	mu          sync.Mutex
	clients     map[string]*client
	perMinute   int
	idleTimeout time.Duration
	now         func() time.Time
}

// Option configures a Limiter
type Option func(*Limiter)

// WithIdleTimeout overrides DefaultIdleTimeout
func WithIdleTimeout(d time.Duration) Option {
	return func(l *Limiter) { l.idleTimeout = d }
}

// WithClock sets the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(l *Limiter) { l.now = now }
}

// New creates a limiter; perMinute <= 0 disables limiting.
func New(perMinute int, opts ...Option) *Limiter {
	l := &Limiter{
		clients:     make(map[string]*client),
		perMinute:   perMinute,
		idleTimeout: DefaultIdleTimeout,
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Allow consumes one token for key
func (l *Limiter) Allow(key string) Decision {
	if l.perMinute <= 0 {
		return Decision{Allowed: true}
	}

	now := l.now()

	l.mu.Lock()
	c, ok := l.clients[key]
	if !ok {
		c = &client{limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.perMinute)), l.perMinute)}
		l.clients[key] = c
	}
	c.lastSeen = now
	l.mu.Unlock()

	allowed := c.limiter.AllowN(now, 1)
	tokens := c.limiter.TokensAt(now)

	// time until the bucket is full again
	missing := float64(l.perMinute) - tokens
	reset := now
	if missing > 0 {
		reset = now.Add(time.Duration(missing * float64(time.Minute) / float64(l.perMinute)))
	}

	return Decision{
		Allowed:   allowed,
		Limit:     l.perMinute,
		Remaining: int(math.Max(0, math.Floor(tokens))),
		Reset:     reset,
	}
}

// Cleanup drops clients idle for longer than the idle timeout and returns
// how many were removed.
func (l *Limiter) Cleanup() int {
	cutoff := l.now().Add(-l.idleTimeout)

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	for key, c := range l.clients {
		if c.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			removed++
		}
	}
	return removed
}

// Clients returns the number of tracked clients
func (l *Limiter) Clients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}
