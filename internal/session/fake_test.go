package session

import (
	"errors"
	"sort"
	"time"

	"github.com/ziadkadry99/mangaview/internal/urlsync"
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

func (s *manualScheduler) AfterFunc(d time.Duration, fn func()) urlsync.Timer {
	t := &manualTimer{at: s.now + d, fn: fn}
	s.timers = append(s.timers, t)
	return t
}

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

// recorder is a Sender that keeps every message.
type recorder struct {
	sent []Message
	err  error
}

func (r *recorder) Send(m Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

func (r *recorder) ofType(typ string) []Message {
	var out []Message
	for _, m := range r.sent {
		if m.Type == typ {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) lastObserve() Message {
	obs := r.ofType(TypeObserve)
	if len(obs) == 0 {
		return Message{}
	}
	return obs[len(obs)-1]
}

var errGone = errors.New("connection gone")
