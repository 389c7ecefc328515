package scheduler_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"shortlink/backend/internal/scheduler"
)

func TestScheduler_RunsTaskPeriodically(t *testing.T) {
	var runs atomic.Int32
	task := scheduler.TaskFunc{TaskName: "count", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return nil
	}}

	s := scheduler.New(task, 20*time.Millisecond)
	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 2 }, time.Second, 5*time.Millisecond)
	s.Stop()

	after := runs.Load()
	time.Sleep(60 * time.Millisecond)
	require.Equal(t, after, runs.Load(), "no runs after Stop")
}

func TestScheduler_TaskErrorDoesNotStopLoop(t *testing.T) {
	var runs atomic.Int32
	task := scheduler.TaskFunc{TaskName: "failing", Fn: func(ctx context.Context) error {
		runs.Add(1)
		return errors.New("boom")
	}}

	s := scheduler.New(task, 10*time.Millisecond)
	s.Start()
	require.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestScheduler_StopCancelsInFlightRun(t *testing.T) {
	started := make(chan struct{})
	var once atomic.Bool
	task := scheduler.TaskFunc{TaskName: "slow", Fn: func(ctx context.Context) error {
		if once.CompareAndSwap(false, true) {
			close(started)
		}
		<-ctx.Done()
		return ctx.Err()
	}}

	s := scheduler.New(task, 10*time.Millisecond)
	s.Start()
	<-started

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop did not return")
	}
}
