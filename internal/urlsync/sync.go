// Package urlsync mirrors the current chapter into the address fragment.
package urlsync

import (
	"time"

	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/chapter"
)

// DefaultQuiet is the idle time after the last chapter change before the
// address is rewritten.
const DefaultQuiet = 300 * time.Millisecond

// AddressBar is the navigable address of the hosting view.
type AddressBar interface {
	// Fragment returns the current fragment including "#", or "".
	Fragment() string
	// ReplaceFragment rewrites the fragment without adding a history entry.
	ReplaceFragment(fragment string) error
}

// Synchronizer writes debounced chapter updates to an AddressBar.
type Synchronizer struct {
	bar       AddressBar
	debounce  *Debouncer
	log       *zap.Logger
	mutations int
	closed    bool
}

// New returns a Synchronizer. A non-positive quiet uses DefaultQuiet.
func New(bar AddressBar, sched Scheduler, quiet time.Duration, log *zap.Logger) *Synchronizer {
	if quiet <= 0 {
		quiet = DefaultQuiet
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Synchronizer{
		bar:      bar,
		debounce: NewDebouncer(sched, quiet),
		log:      log,
	}
}

// Update schedules the address to follow chapter; ok=false clears the fragment.
// Only the most recent update of a burst is applied.
func (s *Synchronizer) Update(n int, ok bool) {
	if s.closed {
		return
	}
	target := ""
	if ok {
		target = chapter.Fragment(n)
	}
	s.debounce.Schedule(func() { s.apply(target) })
}

// Pending reports whether an address update is scheduled.
func (s *Synchronizer) Pending() bool {
	return s.debounce.Pending()
}

// Mutations returns the number of address writes performed.
func (s *Synchronizer) Mutations() int {
	return s.mutations
}

// Close cancels any pending update. Later updates are ignored.
func (s *Synchronizer) Close() {
	s.closed = true
	s.debounce.Cancel()
}

func (s *Synchronizer) apply(target string) {
	if s.closed {
		return
	}
	if s.bar.Fragment() == target {
		return
	}
	if err := s.bar.ReplaceFragment(target); err != nil {
		s.log.Warn("address update failed", zap.String("fragment", target), zap.Error(err))
		return
	}
	s.mutations++
	s.log.Debug("address updated", zap.String("fragment", target))
}
