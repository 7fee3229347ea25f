package scheduler

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/lukz/internal/services/cache"
)

func TestRegisterJob_InvalidSchedule(t *testing.T) {
	s := NewService(arbor.NewLogger())

	err := s.RegisterJob("bad", "not a cron", "", func() error { return nil })
	assert.Error(t, err)
}

func TestRegisterJob_Duplicate(t *testing.T) {
	s := NewService(arbor.NewLogger())

	require.NoError(t, s.RegisterJob("job", "0 * * * * *", "", func() error { return nil }))
	err := s.RegisterJob("job", "0 * * * * *", "", func() error { return nil })
	assert.Error(t, err)
}

func TestTriggerJob_RecordsOutcome(t *testing.T) {
	s := NewService(arbor.NewLogger())
	var calls int32
	require.NoError(t, s.RegisterJob("job", "0 0 0 * * *", "daily", func() error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}))

	require.NoError(t, s.TriggerJob("job"))

	require.Eventually(t, func() bool {
		status, err := s.GetJobStatus("job")
		return err == nil && status.LastRun != nil
	}, time.Second, 10*time.Millisecond)

	status, err := s.GetJobStatus("job")
	require.NoError(t, err)
	assert.Equal(t, "boom", status.LastError)
	assert.False(t, status.IsRunning)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestTriggerJob_RecoversPanic(t *testing.T) {
	s := NewService(arbor.NewLogger())
	require.NoError(t, s.RegisterJob("job", "0 0 0 * * *", "", func() error {
		panic("kaboom")
	}))

	require.NoError(t, s.TriggerJob("job"))

	require.Eventually(t, func() bool {
		status, _ := s.GetJobStatus("job")
		return status != nil && status.LastError == "panic: kaboom"
	}, time.Second, 10*time.Millisecond)
}

func TestTriggerJob_Unknown(t *testing.T) {
	s := NewService(arbor.NewLogger())
	assert.Error(t, s.TriggerJob("missing"))
	_, err := s.GetJobStatus("missing")
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := NewService(arbor.NewLogger())
	var calls int32
	require.NoError(t, s.RegisterJob("tick", "* * * * * *", "", func() error {
		atomic.AddInt32(&calls, 1)
		return nil
	}))

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.Error(t, s.Start())

	status, err := s.GetJobStatus("tick")
	require.NoError(t, err)
	assert.NotNil(t, status.NextRun)

	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&calls) > 0
	}, 3*time.Second, 50*time.Millisecond)

	require.NoError(t, s.Stop())
	assert.False(t, s.IsRunning())
	require.NoError(t, s.Stop())
}

type countingSweeper struct{ n int }

func (c *countingSweeper) Cleanup() int { return c.n }

func TestPurgeHandler(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	c := cache.NewService(nil, cache.WithClock(clock))
	c.Set("stale", "v", time.Minute)
	c.Set("fresh", "v", time.Hour)

	now = now.Add(2 * time.Minute)

	err := PurgeHandler(c, []Sweeper{&countingSweeper{n: 2}}, arbor.NewLogger())()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Stats().Entries)

	_, ok := c.Get("fresh")
	assert.True(t, ok)
}
