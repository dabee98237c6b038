package watcher

import (
	"sync"
	"time"
)

// Debouncer runs only the last function triggered within a quiet period
type Debouncer struct {
	delay   time.Duration
	mutex   sync.Mutex
	timer   *time.Timer
	stopped bool
}

// NewDebouncer creates a Debouncer; a non-positive delay uses 100ms
func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = 100 * time.Millisecond
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn after the delay, cancelling any pending call
func (d *Debouncer) Trigger(fn func()) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, fn)
}

// Stop cancels any pending call and ignores later triggers
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
