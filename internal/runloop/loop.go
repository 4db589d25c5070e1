// Package runloop runs callbacks one at a time on a single goroutine.
package runloop

import (
	"context"
	"sync"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ziadkadry99/mangaview/internal/urlsync"
)

// DefaultQueue is the task buffer size of a Loop.
const DefaultQueue = 64

// Loop executes posted tasks serially, in arrival order.
type Loop struct {
	clk   clock.Clock
	tasks chan func()

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// New creates a Loop using clk for timers. A nil clk uses the wall clock.
func New(clk clock.Clock) *Loop {
	if clk == nil {
		clk = clock.New()
	}
	return &Loop{
		clk:   clk,
		tasks: make(chan func(), DefaultQueue),
		done:  make(chan struct{}),
	}
}

// Run processes tasks until ctx is cancelled or Stop is called.
func (l *Loop) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case fn := <-l.tasks:
			fn()
		}
	}
}

// Post queues fn. It returns false once the loop has stopped. Post blocks
// while the queue is full, so it must not be called from the loop itself
// in a tight cycle.
func (l *Loop) Post(fn func()) bool {
	l.mu.Lock()
	stopped := l.stopped
	l.mu.Unlock()
	if stopped {
		return false
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Do runs fn on the loop and waits for it to finish.
func (l *Loop) Do(fn func()) bool {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return false
	}
	select {
	case <-finished:
		return true
	case <-l.done:
		return false
	}
}

// Stop ends Run. Queued tasks are dropped.
func (l *Loop) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopped {
		return
	}
	l.stopped = true
	close(l.done)
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// AfterFunc runs fn on the loop after d. Stopping the returned timer from the
// loop guarantees fn does not run, even if the clock already fired.
func (l *Loop) AfterFunc(d time.Duration, fn func()) urlsync.Timer {
	t := &timer{}
	t.inner = l.clk.AfterFunc(d, func() {
		l.Post(func() {
			if t.cancelled {
				return
			}
			t.fired = true
			fn()
		})
	})
	return t
}

// timer is only touched from the loop goroutine.
type timer struct {
	inner     *clock.Timer
	cancelled bool
	fired     bool
}

func (t *timer) Stop() bool {
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	t.inner.Stop()
	return true
}
