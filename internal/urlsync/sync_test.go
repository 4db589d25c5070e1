package urlsync

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestDebounceBurstWritesOnce(t *testing.T) {
	sched := &manualScheduler{}
	bar := &fakeBar{}
	s := New(bar, sched, 300*time.Millisecond, nil)

	for ch := 1; ch <= 5; ch++ {
		s.Update(ch, true)
		sched.Advance(100 * time.Millisecond)
	}
	if len(bar.writes) != 0 {
		t.Fatalf("writes during burst = %v, want none", bar.writes)
	}

	sched.Advance(300 * time.Millisecond)
	if len(bar.writes) != 1 || bar.writes[0] != "#chapter-5" {
		t.Errorf("writes = %v, want [#chapter-5]", bar.writes)
	}
	if s.Mutations() != 1 {
		t.Errorf("Mutations() = %d, want 1", s.Mutations())
	}
}

func TestQuietPeriodBoundary(t *testing.T) {
	sched := &manualScheduler{}
	bar := &fakeBar{}
	s := New(bar, sched, 300*time.Millisecond, nil)

	s.Update(2, true)
	sched.Advance(299 * time.Millisecond)
	if s.Mutations() != 0 {
		t.Fatal("update applied before the quiet period elapsed")
	}
	sched.Advance(time.Millisecond)
	if bar.fragment != "#chapter-2" {
		t.Errorf("fragment = %q, want #chapter-2", bar.fragment)
	}
}

func TestCloseBeforeFireWritesNothing(t *testing.T) {
	sched := &manualScheduler{}
	bar := &fakeBar{}
	s := New(bar, sched, 300*time.Millisecond, nil)

	s.Update(3, true)
	if !s.Pending() {
		t.Fatal("expected a pending update")
	}
	s.Close()
	sched.Advance(time.Second)

	if len(bar.writes) != 0 {
		t.Errorf("writes after Close = %v, want none", bar.writes)
	}
	s.Update(4, true)
	sched.Advance(time.Second)
	if len(bar.writes) != 0 {
		t.Errorf("Update after Close wrote %v", bar.writes)
	}
}

func TestSkipsMatchingFragment(t *testing.T) {
	sched := &manualScheduler{}
	bar := &fakeBar{fragment: "#chapter-7"}
	s := New(bar, sched, 0, nil)

	s.Update(7, true)
	sched.Advance(DefaultQuiet)
	if len(bar.writes) != 0 {
		t.Errorf("writes = %v, want none for an unchanged fragment", bar.writes)
	}
}

func TestClearFragmentOnce(t *testing.T) {
	sched := &manualScheduler{}
	bar := &fakeBar{fragment: "#chapter-1"}
	s := New(bar, sched, 300*time.Millisecond, nil)

	s.Update(0, false)
	sched.Advance(300 * time.Millisecond)
	s.Update(0, false)
	sched.Advance(300 * time.Millisecond)

	if len(bar.writes) != 1 || bar.writes[0] != "" {
		t.Errorf("writes = %q, want a single clear", bar.writes)
	}
}

func TestFailureLoggedAndIgnored(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	sched := &manualScheduler{}
	bar := &fakeBar{err: errDenied}
	s := New(bar, sched, 300*time.Millisecond, zap.New(core))

	s.Update(2, true)
	sched.Advance(300 * time.Millisecond)

	if s.Mutations() != 0 {
		t.Errorf("Mutations() = %d, want 0", s.Mutations())
	}
	if logs.FilterMessage("address update failed").Len() != 1 {
		t.Errorf("expected one warning, got %v", logs.All())
	}

	// The next update tries again on its own.
	bar.err = nil
	s.Update(3, true)
	sched.Advance(300 * time.Millisecond)
	if bar.fragment != "#chapter-3" {
		t.Errorf("fragment = %q, want #chapter-3", bar.fragment)
	}
}

func TestDebouncer(t *testing.T) {
	sched := &manualScheduler{}
	d := NewDebouncer(sched, 50*time.Millisecond)

	var runs []int
	d.Schedule(func() { runs = append(runs, 1) })
	d.Schedule(func() { runs = append(runs, 2) })
	sched.Advance(50 * time.Millisecond)
	if len(runs) != 1 || runs[0] != 2 {
		t.Errorf("runs = %v, want [2]", runs)
	}
	if d.Pending() {
		t.Error("nothing should be pending after firing")
	}

	d.Schedule(func() { runs = append(runs, 3) })
	d.Cancel()
	sched.Advance(time.Second)
	if len(runs) != 1 {
		t.Errorf("cancelled callback ran: %v", runs)
	}
}

// A callback already handed to the scheduler but not yet run must not fire
// once a newer Schedule superseded it, even if Stop came too late.
func TestDebouncerIgnoresLateStop(t *testing.T) {
	sched := &lateScheduler{}
	d := NewDebouncer(sched, time.Millisecond)

	var runs []int
	d.Schedule(func() { runs = append(runs, 1) })
	first := sched.fns[0]
	d.Schedule(func() { runs = append(runs, 2) })

	first()
	if len(runs) != 0 {
		t.Errorf("superseded callback ran: %v", runs)
	}
	sched.fns[1]()
	if len(runs) != 1 || runs[0] != 2 {
		t.Errorf("runs = %v, want [2]", runs)
	}
}

// lateScheduler hands out timers whose Stop never prevents the callback.
type lateScheduler struct {
	fns []func()
}

type lateTimer struct{}

func (lateTimer) Stop() bool { return false }

func (s *lateScheduler) AfterFunc(_ time.Duration, fn func()) Timer {
	s.fns = append(s.fns, fn)
	return lateTimer{}
}
