package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/fadedpez/sentenza/internal/logging"
)

// Task represents a scheduled task
type Task struct {
	Name     string
	Interval time.Duration
	Fn       func(context.Context) error
}

// Scheduler runs background maintenance tasks at fixed intervals, like
// pruning the round archive
type Scheduler struct {
	tasks   []*Task
	running bool
	mutex   sync.Mutex
	cancel  context.CancelFunc
	logger  *logging.Logger
}

// NewScheduler creates a new scheduler
func NewScheduler(logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default
	}
	return &Scheduler{
		tasks:  make([]*Task, 0),
		logger: logger,
	}
}

// AddTask adds a task to the scheduler
func (s *Scheduler) AddTask(name string, interval time.Duration, fn func(context.Context) error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks = append(s.tasks, &Task{
		Name:     name,
		Interval: interval,
		Fn:       fn,
	})
}

// Start starts every registered task. Each task runs once immediately,
// then on its interval until Stop or context cancellation.
func (s *Scheduler) Start(ctx context.Context) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if s.running {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.running = true

	for _, task := range s.tasks {
		go s.runTask(ctx, task)
	}

	s.logger.Info("scheduler started with %d tasks", len(s.tasks))
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if !s.running {
		return
	}

	s.cancel()
	s.running = false
	s.logger.Info("scheduler stopped")
}

// runTask runs a task at the specified interval
func (s *Scheduler) runTask(ctx context.Context, task *Task) {
	ticker := time.NewTicker(task.Interval)
	defer ticker.Stop()

	if err := task.Fn(ctx); err != nil {
		s.logger.Warn("task %s failed: %v", task.Name, err)
	}

	for {
		select {
		case <-ticker.C:
			s.logger.Debug("running scheduled task %s", task.Name)
			if err := task.Fn(ctx); err != nil {
				s.logger.Warn("task %s failed: %v", task.Name, err)
			}
		case <-ctx.Done():
			s.logger.Debug("task %s stopped", task.Name)
			return
		}
	}
}
