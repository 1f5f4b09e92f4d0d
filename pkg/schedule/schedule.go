// Package schedule runs delayed and recurring callbacks on an injectable clock
// and hands back a cancellation handle for each of them.
package schedule

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Scheduler creates tasks bound to a single clock.
type Scheduler struct {
	clock clockwork.Clock
}

// New returns a Scheduler using clock, or the real wall clock when nil.
func New(clock clockwork.Clock) *Scheduler {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Scheduler{clock: clock}
}

// Clock returns the clock the scheduler fires on.
func (s *Scheduler) Clock() clockwork.Clock {
	return s.clock
}

// Task is the handle of a scheduled callback.
type Task struct {
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func newTask() *Task {
	return &Task{
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
}

// Every runs fn each interval until the task is stopped. The first call
// happens one interval after Every returns.
func (s *Scheduler) Every(interval time.Duration, fn func(now time.Time)) *Task {
	t := newTask()
	ticker := s.clock.NewTicker(interval)

	go func() {
		defer close(t.done)
		defer ticker.Stop()
		for {
			select {
			case <-t.stop:
				return
			case now := <-ticker.Chan():
				// a pending stop wins over a tick that raced with it
				select {
				case <-t.stop:
					return
				default:
				}
				fn(now)
			}
		}
	}()
	return t
}

// After runs fn once when delay has elapsed, unless the task is stopped first.
func (s *Scheduler) After(delay time.Duration, fn func(now time.Time)) *Task {
	t := newTask()
	timer := s.clock.NewTimer(delay)

	go func() {
		defer close(t.done)
		select {
		case <-t.stop:
			timer.Stop()
		case now := <-timer.Chan():
			select {
			case <-t.stop:
				return
			default:
			}
			fn(now)
		}
	}()
	return t
}

// Stop asks the task to end without waiting for it. Safe to call repeatedly
// and from inside the callback.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	t.once.Do(func() { close(t.stop) })
}

// Cancel stops the task and waits until its goroutine has exited, so the
// callback is guaranteed not to be running or to run again afterwards.
// Must not be called from inside the callback.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.Stop()
	<-t.done
}

// Wait blocks until the task has finished: a one-shot task after it fired or
// was stopped, a recurring task only after it was stopped.
func (t *Task) Wait() {
	if t == nil {
		return
	}
	<-t.done
}

// Done is closed once the task goroutine has exited.
func (t *Task) Done() <-chan struct{} {
	return t.done
}
