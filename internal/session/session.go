// Package session ties a Tracker, its State and a Synchronizer together for
// the lifetime of one series view.
package session

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/urlsync"
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

// ErrClosed is returned by operations on a closed Session.
var ErrClosed = errors.New("session: closed")

// Options configures a Session.
type Options struct {
	StickyOffset int           // Height of the fixed chrome, px.
	Quiet        time.Duration // Address update quiet period.
	Fraction     float64       // Observed share of the viewport; 0 uses the default.
}

// Session is the reading position state of one mounted series view. All
// methods must be called from the goroutine that runs the scheduler's
// callbacks.
type Session struct {
	state   *viewport.State
	tracker *viewport.Tracker
	sync    *urlsync.Synchronizer
	anchors []viewport.Anchor
	log     *zap.Logger
	closed  bool
}

// Open starts observing anchors and mirroring the current chapter into bar.
func Open(sched urlsync.Scheduler, obs viewport.Observer, bar urlsync.AddressBar, anchors []viewport.Anchor, opts Options, log *zap.Logger) (*Session, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		state:   viewport.NewState(),
		sync:    urlsync.New(bar, sched, opts.Quiet, log),
		anchors: anchors,
		log:     log,
	}
	s.state.Subscribe(s.sync.Update)
	s.tracker = viewport.NewTracker(obs, s.state, log)
	s.tracker.SetFraction(opts.Fraction)

	if err := s.tracker.Reset(anchors, opts.StickyOffset); err != nil {
		s.sync.Close()
		return nil, err
	}
	s.clearIfEmpty()
	return s, nil
}

// Current returns the chapter being read.
func (s *Session) Current() (int, bool) {
	return s.state.Current()
}

// StickyOffset returns the chrome height the session observes with.
func (s *Session) StickyOffset() int {
	return s.tracker.StickyOffset()
}

// SetStickyOffset rebuilds the observation for a new chrome height.
func (s *Session) SetStickyOffset(px int) error {
	if s.closed {
		return ErrClosed
	}
	if px == s.tracker.StickyOffset() {
		return nil
	}
	s.log.Debug("sticky offset changed", zap.Int("px", px))
	return s.tracker.Reset(s.anchors, px)
}

// Reobserve rebuilds the observation with unchanged anchors and offset, for
// when the observer's geometry changed.
func (s *Session) Reobserve() error {
	if s.closed {
		return ErrClosed
	}
	return s.tracker.Reset(s.anchors, s.tracker.StickyOffset())
}

// SetAnchors replaces the observed anchors.
func (s *Session) SetAnchors(anchors []viewport.Anchor) error {
	if s.closed {
		return ErrClosed
	}
	s.anchors = anchors
	if err := s.tracker.Reset(anchors, s.tracker.StickyOffset()); err != nil {
		return err
	}
	s.clearIfEmpty()
	return nil
}

// Close cancels any pending address update and stops observing.
func (s *Session) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.tracker.Close()
	s.sync.Close()
}

// clearIfEmpty asks for the fragment to be cleared when nothing can ever be
// tracked; the synchronizer skips the write if it is already empty.
func (s *Session) clearIfEmpty() {
	if len(s.anchors) == 0 {
		s.sync.Update(0, false)
	}
}
