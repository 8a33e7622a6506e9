package poller

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Task is one unit of scheduled work. A non-nil error is fatal to the
// scheduler unless the context has been cancelled.
type Task func(ctx context.Context) error

// Scheduler runs a bootstrap task once, then a cycle task repeatedly with a
// fixed pause between the end of one cycle and the start of the next.
//
// Tasks run sequentially on a single goroutine, so they may share state
// without locking. The scheduler stops on context cancellation, on [Scheduler.Stop],
// or on the first fatal error, which is delivered once on [Scheduler.Done].
//
// All lifecycle methods (Start, Stop) are safe for concurrent use.
type Scheduler struct {
	interval  time.Duration
	bootstrap Task
	cycle     Task
	logger    *slog.Logger
	done      chan error
	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup

	mu        sync.Mutex
	started   bool
	stopped   bool
	closeOnce sync.Once
}

// NewScheduler creates a new [Scheduler].
//
// Parameters:
//   - interval: Pause between the end of a cycle and the start of the next
//   - bootstrap: Task run once, immediately after Start (may be nil)
//   - cycle: Task run after every interval
//   - logger: Logger for scheduler events (panic recovery, etc.)
//
// The scheduler must be started with [Scheduler.Start] and stopped with
// [Scheduler.Stop].
func NewScheduler(interval time.Duration, bootstrap, cycle Task, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		interval:  interval,
		bootstrap: bootstrap,
		cycle:     cycle,
		logger:    logger,
		done:      make(chan error, 1),
	}
}

// Done returns a channel that receives the fatal error, if any, and is
// closed when the scheduler has exited.
func (s *Scheduler) Done() <-chan error {
	return s.done
}

// Start begins the scheduling loop in a background goroutine.
//
// Start is non-blocking and returns immediately. The scheduler will:
//  1. Run the bootstrap task
//  2. Sleep for the interval
//  3. Run the cycle task, then go back to 2
//
// If ctx is nil, context.Background() is used as the parent context.
// Start is idempotent; subsequent calls after the first are no-ops.
// If Stop was called before Start, Start is a no-op.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true

	if ctx == nil {
		ctx = context.Background()
	}
	s.ctx, s.cancel = context.WithCancel(ctx)
	runCtx := s.ctx // capture under lock to avoid race
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer s.closeOnce.Do(func() { close(s.done) })

		if runCtx.Err() != nil {
			return
		}
		if s.bootstrap != nil && !s.run(runCtx, s.bootstrap) {
			return
		}

		timer := time.NewTimer(s.interval)
		defer timer.Stop()

		for {
			select {
			case <-runCtx.Done():
				return
			case <-timer.C:
				if !s.run(runCtx, s.cycle) {
					return
				}
				timer.Reset(s.interval)
			}
		}
	}()
}

// Stop halts the scheduler and waits for the running task to return.
//
// Stop is idempotent and safe to call multiple times. Calling Stop before
// Start is a safe no-op that also closes the Done channel.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.stopped {
		s.stopped = true
		if s.cancel != nil {
			s.cancel()
		}
	}
	s.mu.Unlock()

	s.wg.Wait()

	// ensure channel is closed even if Start() was never called
	s.closeOnce.Do(func() { close(s.done) })
}

// run executes task and reports whether the loop should continue.
func (s *Scheduler) run(ctx context.Context, task Task) bool {
	err := s.safeRun(ctx, task)
	if err == nil {
		return true
	}
	if ctx.Err() != nil {
		// cancellation is a clean stop, not a failure
		return false
	}
	s.done <- err
	return false
}

// safeRun calls the task with panic recovery.
// If the task panics, it logs the full stack trace with a correlation ID
// and returns an error containing the ID.
func (s *Scheduler) safeRun(ctx context.Context, task Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			correlationID := uuid.NewString()
			stack := debug.Stack()

			// log full context server-side for debugging
			s.logger.Error("scheduled task panic",
				"correlation_id", correlationID,
				"panic", fmt.Sprintf("%v", r),
				"stack", string(stack),
			)

			err = fmt.Errorf("panic: %v (correlation_id: %s)", r, correlationID)
		}
	}()
	return task(ctx)
}
