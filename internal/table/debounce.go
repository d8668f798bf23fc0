package table

import (
	"sync"
	"time"
)

// DefaultDebounce is the delay between the last search keystroke and re-filtering.
const DefaultDebounce = 300 * time.Millisecond

// Debouncer runs the most recently submitted function once calls have been
// quiet for the configured delay.
type Debouncer struct {
	mu    sync.Mutex
	delay time.Duration
	timer *time.Timer
	fn    func()
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay < 0 {
		delay = 0
	}
	return &Debouncer{delay: delay}
}

// Trigger schedules fn, replacing anything scheduled before.
func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
	}
	d.fn = fn
	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if d.timer != t {
			d.mu.Unlock()
			return
		}
		f := d.fn
		d.timer, d.fn = nil, nil
		d.mu.Unlock()
		f()
	})
	d.timer = t
}

// Flush runs the pending function now, if any.
func (d *Debouncer) Flush() {
	d.mu.Lock()
	f := d.fn
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer, d.fn = nil, nil
	d.mu.Unlock()

	if f != nil {
		f()
	}
}

// Stop drops the pending function.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer, d.fn = nil, nil
}
