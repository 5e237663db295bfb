package cron

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduler_Run(t *testing.T) {
	s := NewScheduler()
	ctx := context.Background()
	boom := errors.New("boom")

	var calls int32
	err := s.run(ctx, Job{Name: "ok", Fn: func(ctx context.Context) error {
		atomic.AddInt32(&calls, 1)
		return nil
	}})
	assert.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))

	err = s.run(ctx, Job{Name: "failing", Fn: func(ctx context.Context) error { return boom }})
	assert.ErrorIs(t, err, boom)

	err = s.run(ctx, Job{Name: "panicking", Fn: func(ctx context.Context) error { panic("bad run") }})
	assert.ErrorContains(t, err, "panicking panicked")

	err = s.run(ctx, Job{Name: "slow", Timeout: 10 * time.Millisecond, Fn: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestScheduler_StartRunsImmediatelyAndStopsWithParent(t *testing.T) {
	s := NewScheduler()

	ran := make(chan struct{}, 1)
	stopped := make(chan struct{})
	s.AddJob(Job{Name: "tick", Interval: time.Hour, Fn: func(ctx context.Context) error {
		select {
		case ran <- struct{}{}:
		default:
		}
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	s.Start(ctx)

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run on start")
	}

	cancel()
	go func() {
		s.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		require.Fail(t, "scheduler did not stop after the parent context ended")
	}
}
