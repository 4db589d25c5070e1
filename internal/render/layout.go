// Package render lays out the pages of a series for the reader view.
package render

import (
	"net/url"

	"github.com/ziadkadry99/mangaview/internal/chapter"
	"github.com/ziadkadry99/mangaview/internal/library"
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

// Page is one rendered image slot.
type Page struct {
	Index    int
	Src      string
	Alt      string
	Width    int
	Height   int
	AnchorID string // Set on the first page of each chapter only.
	Chapter  int    // chapter.Unknown for unparsed filenames.
}

// Anchor ties a chapter to the DOM id carried by its first page.
type Anchor struct {
	Chapter int
	ID      string
	Index   int
}

// Layout is the ordered page sequence of a series plus its chapter anchors.
type Layout struct {
	Pages   []Page
	Anchors []Anchor // Ascending by chapter.
}

// Build lays out images, which must already be sorted. srcPrefix is
// prepended to each escaped filename to form the image URL.
func Build(images []library.ImageEntry, srcPrefix string) Layout {
	first := firstPages(images)

	var l Layout
	for i, img := range images {
		p := Page{
			Index:   i,
			Src:     srcPrefix + url.PathEscape(img.Filename),
			Alt:     img.Filename,
			Width:   img.Width,
			Height:  img.Height,
			Chapter: img.Key.Chapter,
		}
		if img.Key.Valid() && first[img.Key.Chapter] == i {
			p.AnchorID = chapter.AnchorID(img.Key.Chapter)
			l.Anchors = append(l.Anchors, Anchor{Chapter: img.Key.Chapter, ID: p.AnchorID, Index: i})
		}
		l.Pages = append(l.Pages, p)
	}
	return l
}

// firstPages maps each chapter to the index of its lowest-page image. On
// equal pages the earlier image wins.
func firstPages(images []library.ImageEntry) map[int]int {
	first := make(map[int]int)
	for i, img := range images {
		if !img.Key.Valid() {
			continue
		}
		j, ok := first[img.Key.Chapter]
		if !ok || img.Key.Page < images[j].Key.Page {
			first[img.Key.Chapter] = i
		}
	}
	return first
}

// Observed returns the anchors in the form a viewport.Tracker consumes.
func (l Layout) Observed() []viewport.Anchor {
	out := make([]viewport.Anchor, len(l.Anchors))
	for i, a := range l.Anchors {
		out[i] = viewport.Anchor{ID: a.ID, Chapter: a.Chapter}
	}
	return out
}
