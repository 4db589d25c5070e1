package render

import (
	"testing"

	"github.com/ziadkadry99/mangaview/internal/chapter"
	"github.com/ziadkadry99/mangaview/internal/library"
)

func entry(name string, w, h int) library.ImageEntry {
	return library.ImageEntry{Filename: name, Width: w, Height: h, Key: chapter.Parse(name)}
}

func TestBuildAnchors(t *testing.T) {
	images := []library.ImageEntry{
		entry("chapter_1_page_0.png", 800, 1200),
		entry("chapter_1_page_1.png", 800, 1200),
		entry("chapter_2_page_0.png", 800, 1100),
	}
	l := Build(images, "/manga/one-piece/")

	if len(l.Pages) != 3 {
		t.Fatalf("pages = %d, want 3", len(l.Pages))
	}
	if l.Pages[0].AnchorID != "chapter-1" {
		t.Errorf("page 0 anchor = %q, want chapter-1", l.Pages[0].AnchorID)
	}
	if l.Pages[1].AnchorID != "" {
		t.Errorf("page 1 anchor = %q, want none", l.Pages[1].AnchorID)
	}
	if l.Pages[2].AnchorID != "chapter-2" {
		t.Errorf("page 2 anchor = %q, want chapter-2", l.Pages[2].AnchorID)
	}
	if len(l.Anchors) != 2 || l.Anchors[0].Index != 0 || l.Anchors[1].Index != 2 {
		t.Errorf("anchors = %+v", l.Anchors)
	}
	if l.Pages[2].Src != "/manga/one-piece/chapter_2_page_0.png" {
		t.Errorf("src = %q", l.Pages[2].Src)
	}
	if l.Pages[2].Height != 1100 {
		t.Errorf("height = %d", l.Pages[2].Height)
	}
}

func TestBuildAnchorWithoutPageZero(t *testing.T) {
	images := []library.ImageEntry{
		entry("chapter_4_page_2.png", 1, 1),
		entry("chapter_4_page_3.png", 1, 1),
	}
	l := Build(images, "")
	if l.Pages[0].AnchorID != "chapter-4" {
		t.Errorf("lowest page should carry the anchor, got %+v", l.Pages)
	}
	if len(l.Anchors) != 1 {
		t.Errorf("anchors = %d, want exactly 1", len(l.Anchors))
	}
}

func TestBuildDuplicatePageKeys(t *testing.T) {
	images := []library.ImageEntry{
		entry("chapter_1_page_0.png", 1, 1),
		entry("vol1_chapter_1_page_0.png", 1, 1),
	}
	l := Build(images, "")
	if len(l.Anchors) != 1 || l.Anchors[0].Index != 0 {
		t.Errorf("expected a single anchor on the first entry, got %+v", l.Anchors)
	}
}

func TestBuildUnparsedHasNoAnchor(t *testing.T) {
	images := []library.ImageEntry{
		entry("chapter_1_page_0.png", 1, 1),
		entry("cover.png", 1, 1),
	}
	l := Build(images, "")
	if l.Pages[1].AnchorID != "" {
		t.Errorf("unparsed page should not be anchored")
	}
	if l.Pages[1].Chapter != chapter.Unknown {
		t.Errorf("unparsed chapter = %d", l.Pages[1].Chapter)
	}
}

func TestBuildEscapesSrc(t *testing.T) {
	l := Build([]library.ImageEntry{entry("my page#1.png", 1, 1)}, "/m/")
	if l.Pages[0].Src != "/m/my%20page%231.png" {
		t.Errorf("src = %q", l.Pages[0].Src)
	}
}

func TestObserved(t *testing.T) {
	l := Build([]library.ImageEntry{
		entry("chapter_3_page_0.png", 1, 1),
		entry("chapter_4_page_0.png", 1, 1),
	}, "")
	got := l.Observed()
	if len(got) != 2 || got[0].ID != "chapter-3" || got[0].Chapter != 3 || got[1].ID != "chapter-4" {
		t.Errorf("Observed() = %+v", got)
	}
}
