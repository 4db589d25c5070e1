package urlsync

import "time"

// Timer is a scheduled callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped it
	// before it ran.
	Stop() bool
}

// Scheduler runs callbacks after a delay, on the same goroutine that calls
// into the Debouncer.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Debouncer holds at most one pending callback. Scheduling while one is
// pending cancels it and starts the quiet period over.
type Debouncer struct {
	sched   Scheduler
	quiet   time.Duration
	pending Timer
	seq     uint64
}

// NewDebouncer returns a trailing-edge debouncer with the given quiet period.
func NewDebouncer(sched Scheduler, quiet time.Duration) *Debouncer {
	return &Debouncer{sched: sched, quiet: quiet}
}

// Schedule arranges for fn to run once the quiet period passes without
// another Schedule or Cancel.
func (d *Debouncer) Schedule(fn func()) {
	d.Cancel()
	seq := d.seq
	d.pending = d.sched.AfterFunc(d.quiet, func() {
		if seq != d.seq {
			return
		}
		d.pending = nil
		d.seq++
		fn()
	})
}

// Cancel drops the pending callback, if any.
func (d *Debouncer) Cancel() {
	d.seq++
	if d.pending != nil {
		d.pending.Stop()
		d.pending = nil
	}
}

// Pending reports whether a callback is waiting to run.
func (d *Debouncer) Pending() bool {
	return d.pending != nil
}
