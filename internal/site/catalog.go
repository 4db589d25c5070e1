package site

import (
	"path"

	"github.com/ziadkadry99/mangaview/internal/library"
	"github.com/ziadkadry99/mangaview/internal/render"
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

// IndexEntry describes one series in library.json and the HTTP API.
type IndexEntry struct {
	Slug     string `json:"slug"`
	Name     string `json:"name"`
	Title    string `json:"title"`
	Path     string `json:"path"`
	Cover    string `json:"cover,omitempty"`
	Chapters []int  `json:"chapters"`
	Pages    int    `json:"pages"`
}

// IndexEntries lists series in library order.
func IndexEntries(series []*library.Series, covers bool) []IndexEntry {
	entries := make([]IndexEntry, 0, len(series))
	for _, s := range series {
		e := IndexEntry{
			Slug:     s.Slug,
			Name:     s.Name,
			Title:    s.Title,
			Path:     path.Join(SeriesDir, s.Slug) + "/",
			Chapters: s.Chapters,
			Pages:    len(s.Images),
		}
		if e.Chapters == nil {
			e.Chapters = []int{}
		}
		if covers && len(s.Images) > 0 {
			e.Cover = path.Join(CoverDir, s.Slug+".jpg")
		}
		entries = append(entries, e)
	}
	return entries
}

// Catalog is an immutable lookup of built series by slug.
type Catalog struct {
	series  []*library.Series
	bySlug  map[string]*library.Series
	anchors map[string][]viewport.Anchor
}

// NewCatalog indexes series.
func NewCatalog(series []*library.Series) *Catalog {
	c := &Catalog{
		series:  series,
		bySlug:  make(map[string]*library.Series, len(series)),
		anchors: make(map[string][]viewport.Anchor, len(series)),
	}
	for _, s := range series {
		c.bySlug[s.Slug] = s
		c.anchors[s.Slug] = render.Build(s.Images, "").Observed()
	}
	return c
}

// Series returns all series in library order.
func (c *Catalog) Series() []*library.Series {
	return c.series
}

// Lookup finds a series by slug.
func (c *Catalog) Lookup(slug string) (*library.Series, bool) {
	s, ok := c.bySlug[slug]
	return s, ok
}

// Anchors returns the chapter anchors of the reader page of slug.
func (c *Catalog) Anchors(slug string) ([]viewport.Anchor, bool) {
	a, ok := c.anchors[slug]
	return a, ok
}
