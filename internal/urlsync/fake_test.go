package urlsync

import (
	"errors"
	"sort"
	"time"
)

// manualScheduler runs callbacks when the test advances its clock.
type manualScheduler struct {
	now    time.Duration
	timers []*manualTimer
}

type manualTimer struct {
	at      time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &manualTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

// Advance moves the clock forward, running due callbacks in deadline order.
func (s *manualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		var due []*manualTimer
		for _, t := range s.timers {
			if !t.stopped && !t.fired && t.at <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			break
		}
		sort.SliceStable(due, func(i, j int) bool { return due[i].at < due[j].at })
		t := due[0]
		s.now = t.at
		t.fired = true
		t.fn()
	}
	s.now = target
}

// fakeBar is an in-memory address bar.
type fakeBar struct {
	fragment string
	writes   []string
	err      error
}

func (b *fakeBar) Fragment() string { return b.fragment }

func (b *fakeBar) ReplaceFragment(f string) error {
	if b.err != nil {
		return b.err
	}
	b.fragment = f
	b.writes = append(b.writes, f)
	return nil
}

var errDenied = errors.New("history update denied")
