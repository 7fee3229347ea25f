package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newClock() *fakeClock {
	return &fakeClock{t: time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)}
}

func TestAllow_ExhaustsBurst(t *testing.T) {
	clock := newClock()
	l := New(10, WithClock(clock.Now))

	for i := 0; i < 10; i++ {
		d := l.Allow("1.2.3.4")
		require.True(t, d.Allowed, "request %d", i)
		assert.Equal(t, 10, d.Limit)
		assert.Equal(t, 9-i, d.Remaining)
	}

	d := l.Allow("1.2.3.4")
	assert.False(t, d.Allowed)
	assert.Equal(t, 0, d.Remaining)
	assert.True(t, d.Reset.After(clock.Now()))
}

func TestAllow_PerClient(t *testing.T) {
	clock := newClock()
	l := New(1, WithClock(clock.Now))

	assert.True(t, l.Allow("a").Allowed)
	assert.False(t, l.Allow("a").Allowed)
	assert.True(t, l.Allow("b").Allowed)
}

func TestAllow_Refills(t *testing.T) {
	clock := newClock()
	l := New(60, WithClock(clock.Now))

	for i := 0; i < 60; i++ {
		l.Allow("a")
	}
	require.False(t, l.Allow("a").Allowed)

	clock.Advance(time.Second)
	assert.True(t, l.Allow("a").Allowed)
}

func TestAllow_Disabled(t *testing.T) {
	l := New(0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow("a").Allowed)
	}
	assert.Equal(t, 0, l.Clients())
}

func TestCleanup_DropsIdleClients(t *testing.T) {
	clock := newClock()
	l := New(10, WithClock(clock.Now), WithIdleTimeout(time.Minute))

	l.Allow("old")
	clock.Advance(2 * time.Minute)
	l.Allow("new")

	assert.Equal(t, 1, l.Cleanup())
	assert.Equal(t, 1, l.Clients())
}
