// Package worker runs detached side-effect tasks off the request path.
package worker

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"shortlink/backend/pkg/logger"
)

// Task is a detached unit of work. The context carries the per-task timeout.
type Task func(ctx context.Context) error

// Submitter accepts detached tasks without blocking the caller.
type Submitter interface {
	Submit(name string, task Task) bool
}

type job struct {
	name string
	task Task
}

// Dispatcher queues tasks in a bounded buffer and runs at most `workers` of
// them concurrently. Submit never blocks: a full queue drops the task.
type Dispatcher struct {
	queue   chan job
	sem     *semaphore.Weighted
	workers int64
	timeout time.Duration

	mu     sync.RWMutex
	closed bool

	baseCtx context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

func NewDispatcher(workers, queueSize int, timeout time.Duration) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		queue:   make(chan job, queueSize),
		sem:     semaphore.NewWeighted(int64(workers)),
		workers: int64(workers),
		timeout: timeout,
		baseCtx: ctx,
		cancel:  cancel,
		done:    make(chan struct{}),
	}
}

// Start launches the dispatch loop.
func (d *Dispatcher) Start() {
	go d.loop()
	logger.Info("dispatcher started", "module", "worker", "workers", d.workers, "queue", cap(d.queue))
}

func (d *Dispatcher) Submit(name string, task Task) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		logger.Warn("task rejected", "module", "worker", "action", "submit", "resource", "task", "result", "closed", "task", name)
		return false
	}
	select {
	case d.queue <- job{name: name, task: task}:
		return true
	default:
		logger.Warn("task dropped", "module", "worker", "action", "submit", "resource", "task", "result", "queue_full", "task", name)
		return false
	}
}

// Stop refuses new tasks and waits for queued and running tasks to finish.
// When ctx expires first, running tasks are cancelled.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	select {
	case <-d.done:
		logger.Info("dispatcher stopped", "module", "worker")
		return nil
	case <-ctx.Done():
		d.cancel()
		return fmt.Errorf("dispatcher drain: %w", ctx.Err())
	}
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for j := range d.queue {
		// The base context is only cancelled by an expired Stop.
		if err := d.sem.Acquire(d.baseCtx, 1); err != nil {
			return
		}
		go func(j job) {
			defer d.sem.Release(1)
			d.run(j)
		}(j)
	}
	// Wait for in-flight tasks by taking every slot.
	_ = d.sem.Acquire(d.baseCtx, d.workers)
}

func (d *Dispatcher) run(j job) {
	ctx, cancel := context.WithTimeout(d.baseCtx, d.timeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("task panicked", "module", "worker", "action", "run", "resource", "task", "result", "panic",
				"task", j.name, "panic", r, "stack", string(debug.Stack()))
		}
	}()

	if err := j.task(ctx); err != nil {
		logger.Warn("task failed", "module", "worker", "action", "run", "resource", "task", "result", "failed", "task", j.name, "error", err)
	}
}
