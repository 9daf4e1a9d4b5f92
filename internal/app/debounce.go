package app

import (
	"context"
	"sync"
	"time"
)

// Debouncer holds a single pending function and runs it after a quiet
// period. Scheduling replaces any pending run. Each run gets its own
// context, cancelled when the run is superseded or the debouncer is
// cancelled, so a run that slips past the timer check is still aborted
// rather than completing against stale input.
type Debouncer struct {
	mu     sync.Mutex
	delay  time.Duration
	timer  *time.Timer
	cancel context.CancelFunc
}

func NewDebouncer(delay time.Duration) *Debouncer {
	return &Debouncer{delay: delay}
}

// Schedule queues fn to run after the quiet period, cancelling any
// previously scheduled function.
func (d *Debouncer) Schedule(fn func(ctx context.Context)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.dropPendingLocked()
	ctx, cancel := context.WithCancel(context.Background())
	d.cancel = cancel
	d.timer = time.AfterFunc(d.delay, func() {
		if ctx.Err() != nil {
			return
		}
		fn(ctx)
	})
}

// Cancel drops any pending run and aborts one already in flight.
func (d *Debouncer) Cancel() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.dropPendingLocked()
}

func (d *Debouncer) dropPendingLocked() {
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}
