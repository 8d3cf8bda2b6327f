package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testConfig() SchedulerConfig {
	return SchedulerConfig{
		JobTimeout:    time.Second,
		RetryAttempts: 0,
		RetryDelay:    time.Millisecond,
	}
}

func startScheduler(t *testing.T, s *Scheduler) {
	t.Helper()
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = s.Stop(ctx)
	})
}

func TestScheduler_Register(t *testing.T) {
	noop := func(context.Context) error { return nil }

	t.Run("invalid jobs", func(t *testing.T) {
		s := NewScheduler(testConfig(), zap.NewNop())
		assert.ErrorIs(t, s.Register(Job{Interval: time.Second, Run: noop}), ErrInvalidJob)
		assert.ErrorIs(t, s.Register(Job{Name: "a", Run: noop}), ErrInvalidJob)
		assert.ErrorIs(t, s.Register(Job{Name: "a", Interval: time.Second}), ErrInvalidJob)
	})

	t.Run("duplicate name", func(t *testing.T) {
		s := NewScheduler(testConfig(), nil)
		require.NoError(t, s.Register(Job{Name: "a", Interval: time.Second, Run: noop}))
		assert.ErrorIs(t, s.Register(Job{Name: "a", Interval: time.Second, Run: noop}), ErrDuplicateJob)
	})

	t.Run("after start", func(t *testing.T) {
		s := NewScheduler(testConfig(), nil)
		startScheduler(t, s)
		assert.ErrorIs(t, s.Register(Job{Name: "a", Interval: time.Second, Run: noop}), ErrSchedulerRunning)
	})
}

func TestScheduler_RunsOnInterval(t *testing.T) {
	var runs atomic.Int32
	s := NewScheduler(testConfig(), nil)
	require.NoError(t, s.Register(Job{
		Name:     "tick",
		Interval: 10 * time.Millisecond,
		Run: func(context.Context) error {
			runs.Add(1)
			return nil
		},
	}))
	startScheduler(t, s)

	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)

	state, err := s.State("tick")
	require.NoError(t, err)
	assert.Equal(t, JobStatusSuccess, state.Status)
	assert.NotNil(t, state.LastEnded)
	assert.Zero(t, state.Failures)
}

func TestScheduler_Trigger(t *testing.T) {
	ran := make(chan struct{}, 1)
	s := NewScheduler(testConfig(), nil)
	require.NoError(t, s.Register(Job{
		Name:     "manual",
		Interval: time.Hour,
		Run: func(context.Context) error {
			ran <- struct{}{}
			return nil
		},
	}))

	assert.ErrorIs(t, s.Trigger("manual"), ErrSchedulerNotRunning)

	startScheduler(t, s)
	assert.ErrorIs(t, s.Trigger("missing"), ErrJobNotFound)
	require.NoError(t, s.Trigger("manual"))

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatal("triggered job did not run")
	}
}

func TestScheduler_RetriesThenFails(t *testing.T) {
	var attempts atomic.Int32
	cfg := testConfig()
	cfg.RetryAttempts = 2
	cfg.RunOnStart = true
	s := NewScheduler(cfg, nil)
	require.NoError(t, s.Register(Job{
		Name:     "flaky",
		Interval: time.Hour,
		Run: func(context.Context) error {
			attempts.Add(1)
			return errors.New("boom")
		},
	}))
	startScheduler(t, s)

	assert.Eventually(t, func() bool {
		state, _ := s.State("flaky")
		return state.Runs == 1
	}, time.Second, 5*time.Millisecond)

	state, err := s.State("flaky")
	require.NoError(t, err)
	assert.Equal(t, JobStatusFailed, state.Status)
	assert.Equal(t, 1, state.Failures)
	assert.Equal(t, "boom", state.LastError)
	assert.Equal(t, int32(3), attempts.Load())
}

func TestScheduler_RetrySucceeds(t *testing.T) {
	var attempts atomic.Int32
	cfg := testConfig()
	cfg.RetryAttempts = 3
	cfg.RunOnStart = true
	s := NewScheduler(cfg, nil)
	require.NoError(t, s.Register(Job{
		Name:     "eventually",
		Interval: time.Hour,
		Run: func(context.Context) error {
			if attempts.Add(1) < 2 {
				return errors.New("not yet")
			}
			return nil
		},
	}))
	startScheduler(t, s)

	assert.Eventually(t, func() bool {
		state, _ := s.State("eventually")
		return state.Status == JobStatusSuccess
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(2), attempts.Load())
}

func TestScheduler_TimeoutAndPanic(t *testing.T) {
	cfg := testConfig()
	cfg.RunOnStart = true
	s := NewScheduler(cfg, nil)
	require.NoError(t, s.Register(Job{
		Name:     "slow",
		Interval: time.Hour,
		Timeout:  20 * time.Millisecond,
		Run: func(ctx context.Context) error {
			<-ctx.Done()
			return ctx.Err()
		},
	}))
	require.NoError(t, s.Register(Job{
		Name:     "panics",
		Interval: time.Hour,
		Run: func(context.Context) error {
			panic("bad job")
		},
	}))
	startScheduler(t, s)

	assert.Eventually(t, func() bool {
		states := s.States()
		return states[0].Runs == 1 && states[1].Runs == 1
	}, time.Second, 5*time.Millisecond)

	states := s.States()
	require.Len(t, states, 2)
	assert.Equal(t, "slow", states[0].Name)
	assert.Contains(t, states[0].LastError, context.DeadlineExceeded.Error())
	assert.Equal(t, "panics", states[1].Name)
	assert.Contains(t, states[1].LastError, "panicked: bad job")
}

func TestScheduler_Stop(t *testing.T) {
	s := NewScheduler(testConfig(), nil)
	require.NoError(t, s.Stop(context.Background()))

	started := make(chan struct{}, 1)
	require.NoError(t, s.Register(Job{
		Name:     "blocking",
		Interval: time.Millisecond,
		Run: func(ctx context.Context) error {
			select {
			case started <- struct{}{}:
			default:
			}
			<-ctx.Done()
			return ctx.Err()
		},
	}))
	require.NoError(t, s.Start(context.Background()))
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.Stop(ctx))
	assert.ErrorIs(t, s.Trigger("blocking"), ErrSchedulerNotRunning)
}

type stubPurger struct {
	calls   atomic.Int32
	removed int
}

func (p *stubPurger) Purge() int {
	p.calls.Add(1)
	return p.removed
}

func TestCountCachePurgeJob(t *testing.T) {
	purger := &stubPurger{removed: 3}
	job := NewCountCachePurgeJob(purger, time.Minute, nil)

	assert.Equal(t, CountCachePurgeJobName, job.Name)
	assert.Equal(t, time.Minute, job.Interval)
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, int32(1), purger.calls.Load())
}
