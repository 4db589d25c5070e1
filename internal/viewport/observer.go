package viewport

import (
	"fmt"
	"strconv"
)

// DefaultFraction is the share of the viewport, below the sticky offset, in
// which anchors are considered.
const DefaultFraction = 0.25

// Entry is one intersection report for an anchor.
type Entry struct {
	ID           string  `json:"id"`
	Top          float64 `json:"top"` // Distance of the anchor's top edge from the viewport top, in px.
	Intersecting bool    `json:"intersecting"`
}

// MinBand is the smallest height of the region, px, however short the
// viewport is.
const MinBand = 48.0

// Region is the area of interest: a band that starts TopInset px below the
// viewport top and is Fraction of the viewport height tall.
type Region struct {
	TopInset float64
	Fraction float64
}

// NewRegion returns the region for a sticky chrome height.
func NewRegion(stickyOffset int) Region {
	return Region{TopInset: float64(stickyOffset), Fraction: DefaultFraction}
}

// Band returns the top and bottom edges of the region, in px from the
// viewport top, for a viewport viewportHeight px tall. The band is never
// shorter than MinBand.
func (r Region) Band(viewportHeight float64) (top, bottom float64) {
	frac := r.Fraction
	if frac <= 0 || frac > 1 {
		frac = DefaultFraction
	}
	height := viewportHeight * frac
	if height < MinBand {
		height = MinBand
	}
	return r.TopInset, r.TopInset + height
}

// RootMargin renders the region as an IntersectionObserver root margin for
// a viewport viewportHeight px tall.
func (r Region) RootMargin(viewportHeight float64) string {
	top, bottom := r.Band(viewportHeight)
	return fmt.Sprintf("%spx 0px %spx 0px", px(-top), px(bottom-viewportHeight))
}

func px(v float64) string {
	if v == 0 {
		return "0"
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Registration is a live observation.
type Registration interface {
	Unregister()
}

// Observer watches elements by id and reports intersection changes with the
// region. Implementations deliver fn calls on the tracker's goroutine.
type Observer interface {
	Observe(region Region, ids []string, fn func([]Entry)) (Registration, error)
}
