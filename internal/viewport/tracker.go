package viewport

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// ErrClosed is returned by Reset after Close.
var ErrClosed = errors.New("viewport: tracker closed")

// Anchor is an observable chapter start.
type Anchor struct {
	ID      string
	Chapter int
}

// Tracker resolves the current chapter from anchor intersection reports.
type Tracker struct {
	observer Observer
	state    *State
	log      *zap.Logger

	gen          uint64
	reg          Registration
	stickyOffset float64
	fraction     float64
	chapters     map[string]int     // anchor id -> chapter
	visible      map[string]float64 // intersecting anchor id -> top
	closed       bool
}

// NewTracker creates a Tracker writing into state.
func NewTracker(observer Observer, state *State, log *zap.Logger) *Tracker {
	if log == nil {
		log = zap.NewNop()
	}
	return &Tracker{observer: observer, state: state, log: log}
}

// Reset tears down the current observation and observes anchors with the
// given sticky offset. Reports from earlier observations are discarded.
func (t *Tracker) Reset(anchors []Anchor, stickyOffset int) error {
	if t.closed {
		return ErrClosed
	}
	if stickyOffset < 0 {
		return fmt.Errorf("viewport: negative sticky offset %d", stickyOffset)
	}
	t.teardown()

	t.stickyOffset = float64(stickyOffset)
	t.chapters = make(map[string]int, len(anchors))
	t.visible = make(map[string]float64)
	ids := make([]string, 0, len(anchors))
	for _, a := range anchors {
		if _, dup := t.chapters[a.ID]; dup {
			continue
		}
		t.chapters[a.ID] = a.Chapter
		ids = append(ids, a.ID)
	}
	// The state may only hold a chapter that is still anchored.
	if cur, ok := t.state.Current(); ok && !t.anchored(cur) {
		t.state.reset()
	}
	if len(ids) == 0 {
		t.log.Debug("no chapter anchors to observe")
		return nil
	}

	region := NewRegion(stickyOffset)
	if t.fraction > 0 {
		region.Fraction = t.fraction
	}
	gen := t.gen
	reg, err := t.observer.Observe(region, ids, func(entries []Entry) {
		if t.closed || gen != t.gen {
			return
		}
		t.handle(entries)
	})
	if err != nil {
		return fmt.Errorf("viewport: observe: %w", err)
	}
	t.reg = reg
	return nil
}

func (t *Tracker) anchored(chapter int) bool {
	for _, ch := range t.chapters {
		if ch == chapter {
			return true
		}
	}
	return false
}

// SetFraction sets the share of the viewport height, measured from the top,
// that counts as being read. It applies from the next Reset.
func (t *Tracker) SetFraction(f float64) {
	if f > 0 && f <= 1 {
		t.fraction = f
	}
}

// StickyOffset returns the offset of the active observation.
func (t *Tracker) StickyOffset() int {
	return int(t.stickyOffset)
}

// Close stops observing. Pending reports become no-ops.
func (t *Tracker) Close() {
	if t.closed {
		return
	}
	t.teardown()
	t.closed = true
}

func (t *Tracker) teardown() {
	t.gen++
	if t.reg != nil {
		t.reg.Unregister()
		t.reg = nil
	}
}

// handle folds a batch of reports into the visible set and updates the state.
func (t *Tracker) handle(entries []Entry) {
	for _, e := range entries {
		if _, ok := t.chapters[e.ID]; !ok {
			continue
		}
		if e.Intersecting {
			t.visible[e.ID] = e.Top
		} else {
			delete(t.visible, e.ID)
		}
	}

	chapter, ok := t.resolve()
	if !ok {
		return
	}
	if t.state.set(chapter) {
		t.log.Debug("current chapter changed", zap.Int("chapter", chapter))
	}
}

// resolve picks the anchor nearest to, but not above, the sticky offset. When
// every visible anchor sits above it, the one closest to the offset wins
// (largest top, ties to the lower chapter): the content at the offset line
// belongs to the chapter that started last above it. With tops 10 and 50 and
// an offset of 60 that is the anchor at 50.
func (t *Tracker) resolve() (int, bool) {
	type candidate struct {
		chapter int
		top     float64
	}
	var free, covered []candidate
	for id, top := range t.visible {
		c := candidate{chapter: t.chapters[id], top: top}
		if top >= t.stickyOffset {
			free = append(free, c)
		} else {
			covered = append(covered, c)
		}
	}

	if len(free) > 0 {
		sort.Slice(free, func(i, j int) bool {
			if free[i].top != free[j].top {
				return free[i].top < free[j].top
			}
			return free[i].chapter < free[j].chapter
		})
		return free[0].chapter, true
	}
	// Every visible anchor is under the sticky chrome.
	if len(covered) > 0 {
		sort.Slice(covered, func(i, j int) bool {
			if covered[i].top != covered[j].top {
				return covered[i].top > covered[j].top
			}
			return covered[i].chapter < covered[j].chapter
		})
		return covered[0].chapter, true
	}
	return 0, false
}
