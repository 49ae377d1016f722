package session

import (
	"sync"
	"time"
)

// debouncer coalesces rapid events into one callback: each Arm resets the
// countdown, so the function runs once per idle period instead of once per
// event.
type debouncer struct {
	mu    sync.Mutex
	timer *time.Timer
}

// Arm schedules fn after delay, cancelling any pending schedule first.
func (d *debouncer) Arm(delay time.Duration, fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(delay, fn)
}

// Cancel stops any pending callback. Safe to call when nothing is armed.
func (d *debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
