package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces bursts of file events into one rerun. Only the last
// event within the interval fires the callback.
type Debouncer struct {
	interval time.Duration
	callback func(path string)
	logger   *slog.Logger

	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	lastPath string
	stopped  bool
}

// NewDebouncer creates a debouncer that waits for interval of quiet before
// firing callback with the path of the last event. A panicking callback is
// reported to logger; nil discards the report.
func NewDebouncer(interval time.Duration, logger *slog.Logger, callback func(path string)) *Debouncer {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Debouncer{
		interval: interval,
		callback: callback,
		logger:   logger,
	}
}

// Trigger records an event for path and restarts the quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	d.lastPath = path
	d.gen++
	gen := d.gen

	if d.timer != nil {
		d.timer.Stop()
	}

	d.timer = time.AfterFunc(d.interval, func() { d.fire(gen) })
}

// fire runs the callback unless a newer Trigger or a Stop superseded gen.
func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}

	p := d.lastPath
	d.mu.Unlock()

	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("debouncer callback panicked", slog.String("path", p), slog.Any("error", r))
		}
	}()

	d.callback(p)
}

// Stop cancels any pending callback. Later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
