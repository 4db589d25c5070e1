package runloop

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/ziadkadry99/mangaview/internal/urlsync"
)

func startLoop(t *testing.T, clk clock.Clock) *Loop {
	t.Helper()
	l := New(clk)
	ctx, cancel := context.WithCancel(context.Background())
	go l.Run(ctx)
	t.Cleanup(cancel)
	return l
}

func waitClosed(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestPostRunsInOrder(t *testing.T) {
	l := startLoop(t, nil)

	var got []int
	for i := 0; i < 10; i++ {
		i := i
		l.Post(func() { got = append(got, i) })
	}
	l.Do(func() {})

	for i := range got {
		if got[i] != i {
			t.Fatalf("tasks ran out of order: %v", got)
		}
	}
	if len(got) != 10 {
		t.Errorf("ran %d tasks, want 10", len(got))
	}
}

func TestAfterFuncFiresOnLoop(t *testing.T) {
	mock := clock.NewMock()
	l := startLoop(t, mock)

	fired := make(chan struct{})
	l.Do(func() {
		l.AfterFunc(300*time.Millisecond, func() { close(fired) })
	})

	mock.Add(299 * time.Millisecond)
	l.Do(func() {})
	select {
	case <-fired:
		t.Fatal("timer fired early")
	case <-time.After(20 * time.Millisecond):
	}

	mock.Add(time.Millisecond)
	waitClosed(t, fired, "timer")
}

func TestStoppedTimerNeverRuns(t *testing.T) {
	mock := clock.NewMock()
	l := startLoop(t, mock)

	ran := false
	var tm urlsync.Timer
	l.Do(func() {
		tm = l.AfterFunc(time.Second, func() { ran = true })
	})

	// Hold the loop so the clock callback queues behind the Stop.
	release := make(chan struct{})
	stopped := make(chan struct{})
	l.Post(func() {
		<-release
		if !tm.Stop() {
			t.Error("Stop() = false, want true")
		}
		close(stopped)
	})
	mock.Add(time.Second)
	close(release)
	waitClosed(t, stopped, "stop")

	time.Sleep(20 * time.Millisecond)
	l.Do(func() {
		if ran {
			t.Error("stopped timer ran")
		}
	})
}

func TestDebouncerOnLoop(t *testing.T) {
	mock := clock.NewMock()
	l := startLoop(t, mock)

	fired := make(chan int, 4)
	var d *urlsync.Debouncer
	l.Do(func() {
		d = urlsync.NewDebouncer(l, 300*time.Millisecond)
		d.Schedule(func() { fired <- 1 })
	})
	mock.Add(100 * time.Millisecond)
	l.Do(func() { d.Schedule(func() { fired <- 2 }) })
	mock.Add(300 * time.Millisecond)

	select {
	case v := <-fired:
		if v != 2 {
			t.Errorf("fired %d, want 2", v)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("debounced callback did not run")
	}
	select {
	case v := <-fired:
		t.Errorf("unexpected extra callback %d", v)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestStop(t *testing.T) {
	l := New(nil)
	done := make(chan struct{})
	go func() {
		l.Run(context.Background())
		close(done)
	}()
	l.Stop()
	l.Stop()
	waitClosed(t, done, "run to return")

	if l.Post(func() {}) {
		t.Error("Post after Stop should fail")
	}
	if l.Do(func() {}) {
		t.Error("Do after Stop should fail")
	}
}

func TestRunStopsOnContext(t *testing.T) {
	l := New(nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		l.Run(ctx)
		close(done)
	}()
	cancel()
	waitClosed(t, done, "run to return")
	waitClosed(t, l.Done(), "loop done")
}
