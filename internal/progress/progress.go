// Package progress defines the progress reporting types shared by the
// calculators, the orchestration layer and the user interfaces.
package progress

import (
	"sync"
	"sync/atomic"
)

// ProgressUpdate is a data transfer object that carries the progress of one
// calculator over a channel to the presentation layer.
type ProgressUpdate struct {
	// CalculatorIndex identifies the calculator instance, allowing the UI to
	// distinguish between concurrent calculations.
	CalculatorIndex int
	// Value is the normalized progress, from 0.0 to 1.0.
	Value float64
}

// ProgressCallback receives normalized progress values. Core algorithms use
// it to report without being coupled to channels.
type ProgressCallback func(progress float64)

// Tracker converts completed work units into a bounded number of callback
// invocations mapped onto the interval [lo, hi]. It is safe for concurrent use
// and reported values never decrease.
type Tracker struct {
	total    int64
	steps    int64
	lo, hi   float64
	callback ProgressCallback

	done atomic.Int64
	last atomic.Int64
	mu   sync.Mutex
}

// NewTracker creates a tracker for total work units reporting at most steps
// times. A nil callback or non-positive total yields a tracker whose Add is a
// no-op.
func NewTracker(total int64, steps int, lo, hi float64, callback ProgressCallback) *Tracker {
	if steps <= 0 {
		steps = 100
	}
	return &Tracker{total: total, steps: int64(steps), lo: lo, hi: hi, callback: callback}
}

// Add records n completed work units.
func (t *Tracker) Add(n int64) {
	if t == nil || t.callback == nil || t.total <= 0 {
		return
	}
	done := t.done.Add(n)
	if done > t.total {
		done = t.total
	}
	step := done * t.steps / t.total
	if step <= t.last.Load() {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if step <= t.last.Load() {
		return
	}
	t.last.Store(step)
	t.callback(t.lo + (t.hi-t.lo)*float64(step)/float64(t.steps))
}

// Done returns the number of work units recorded so far.
func (t *Tracker) Done() int64 {
	if t == nil {
		return 0
	}
	return t.done.Load()
}
