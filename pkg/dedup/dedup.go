// Package dedup remembers recently seen keys so repeated notifications can be
// suppressed for a TTL window.
package dedup

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

type Deduper struct {
	mu    sync.Mutex
	clock clockwork.Clock
	ttl   time.Duration
	max   int
	seen  map[string]time.Time
}

func New(ttl time.Duration, max int) *Deduper {
	return NewWithClock(clockwork.NewRealClock(), ttl, max)
}

// NewWithClock is New with an explicit clock, used by callers that already
// run on a fake clock in tests.
func NewWithClock(clock clockwork.Clock, ttl time.Duration, max int) *Deduper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if max <= 0 {
		max = 10000
	}
	return &Deduper{clock: clock, ttl: ttl, max: max, seen: make(map[string]time.Time, max)}
}

// ShouldProcess reports whether id has not been seen within the TTL and marks
// it as seen. The empty id is always processed.
func (d *Deduper) ShouldProcess(id string) bool {
	if id == "" {
		return true
	}
	now := d.clock.Now()
	d.mu.Lock()
	defer d.mu.Unlock()
	if exp, ok := d.seen[id]; ok && now.Before(exp) {
		return false
	}
	d.seen[id] = now.Add(d.ttl)
	if len(d.seen) > d.max {
		for k, v := range d.seen {
			if now.After(v) {
				delete(d.seen, k)
			}
			if len(d.seen) <= d.max {
				break
			}
		}
	}
	return true
}

// Forget drops id so the next ShouldProcess for it returns true.
func (d *Deduper) Forget(id string) {
	d.mu.Lock()
	delete(d.seen, id)
	d.mu.Unlock()
}

// Len returns the number of tracked keys, expired ones included.
func (d *Deduper) Len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
