// Package countdown runs the one-per-session cooperative timer task
// that drives countdown-based phase transitions.
package countdown

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// Task is a cancellable per-second ticker. Cancellation is idempotent
// and racing a cancel with the final natural tick is safe: the tick
// callback runs on the room's single-writer goroutine, which guards the
// terminal transition.
type Task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Run invokes tick once per second until tick reports the session is
// terminal, or the task is cancelled. tick returns false to stop.
func Run(ctx context.Context, clock clockwork.Clock, tick func() bool) *Task {
	ctx, cancel := context.WithCancel(ctx)
	t := &Task{
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(t.done)
		ticker := clock.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if !tick() {
					return
				}
			}
		}
	}()
	return t
}

// Cancel stops the task. Safe to call more than once and after the
// task has already finished naturally.
func (t *Task) Cancel() {
	t.cancel()
}

// Done is closed when the ticker goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
