package scheduler

import (
	"context"
	"sync"
	"time"

	"shortlink/backend/pkg/logger"
)

// Task is a unit of periodic maintenance work.
type Task interface {
	Name() string
	Run(ctx context.Context) error
}

// TaskFunc adapts a function to Task.
type TaskFunc struct {
	TaskName string
	Fn       func(ctx context.Context) error
}

func (f TaskFunc) Name() string                  { return f.TaskName }
func (f TaskFunc) Run(ctx context.Context) error { return f.Fn(ctx) }

type Scheduler struct {
	task       Task
	interval   time.Duration
	stopCh     chan struct{}
	stopOnce   sync.Once
	wg         sync.WaitGroup
	cancelFunc context.CancelFunc // cancels the current run
	mu         sync.Mutex         // protects cancelFunc
}

func New(task Task, interval time.Duration) *Scheduler {
	return &Scheduler{
		task:     task,
		interval: interval,
		stopCh:   make(chan struct{}),
	}
}

func (s *Scheduler) Start() {
	s.wg.Add(1)
	go s.run()
	logger.Info("scheduler started", "module", "scheduler", "task", s.task.Name(), "interval", s.interval)
}

// Stop cancels an in-flight run and waits for the loop to exit. It is safe to call more than once.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() {
		s.mu.Lock()
		if s.cancelFunc != nil {
			s.cancelFunc()
		}
		s.mu.Unlock()

		close(s.stopCh)
		s.wg.Wait()
		logger.Info("scheduler stopped", "module", "scheduler", "task", s.task.Name())
	})
}

func (s *Scheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.tick()
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) tick() {
	// A run never outlives its interval.
	ctx, cancel := context.WithTimeout(context.Background(), s.interval)

	s.mu.Lock()
	s.cancelFunc = cancel
	s.mu.Unlock()

	defer func() {
		cancel()
		s.mu.Lock()
		s.cancelFunc = nil
		s.mu.Unlock()
	}()

	if err := s.task.Run(ctx); err != nil {
		if ctx.Err() != nil {
			logger.Info("scheduled task cancelled", "module", "scheduler", "task", s.task.Name())
			return
		}
		logger.Error("scheduled task failed", "module", "scheduler", "task", s.task.Name(), "error", err)
	}
}
