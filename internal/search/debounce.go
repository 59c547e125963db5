package search

import (
	"sync"
	"time"
)

// Debouncer runs only the last of a burst of calls, once the quiet period
// has elapsed. It holds a single pending slot.
type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	duration time.Duration
}

// NewDebouncer creates a debouncer with the given quiet period.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{duration: duration}
}

// Debounce schedules fn after the quiet period, cancelling any pending call.
// It reports whether a pending call was replaced.
func (d *Debouncer) Debounce(fn func()) (replaced bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	replaced = d.stopLocked()
	d.gen++
	gen := d.gen
	d.timer = time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		// A timer that fired while a newer call was being scheduled is stale.
		if gen != d.gen || d.timer == nil {
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.mu.Unlock()
		fn()
	})
	return replaced
}

// Cancel drops any pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stopLocked()
}

// Pending reports whether a call is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}

func (d *Debouncer) stopLocked() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}
