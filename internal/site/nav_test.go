package site

import (
	"strings"
	"testing"

	"github.com/ziadkadry99/mangaview/internal/chapter"
	"github.com/ziadkadry99/mangaview/internal/library"
)

func keyOf(name string) chapter.SortKey { return chapter.Parse(name) }

func TestSeriesNav(t *testing.T) {
	series := []*library.Series{
		{Name: "one-piece", Slug: "one-piece", Title: "one piece"},
		{Name: "Tom & Jerry", Slug: "tom-and-jerry", Title: "Tom & Jerry"},
	}
	got := SeriesNav(series, "one-piece", "../../")

	if !strings.Contains(got, `<a href="../../manga/one-piece/" class="active">one piece</a>`) {
		t.Errorf("current series not highlighted:\n%s", got)
	}
	if !strings.Contains(got, `data-filter="tom &amp; jerry"`) || !strings.Contains(got, ">Tom &amp; Jerry</a>") {
		t.Errorf("names not escaped:\n%s", got)
	}
	if strings.Count(got, "active") != 1 {
		t.Error("only the current series may be active")
	}
}

func TestChapterNav(t *testing.T) {
	got := ChapterNav([]int{1, 2, 10})
	for _, want := range []string{`href="#chapter-1"`, `href="#chapter-10"`, `data-chapter="2"`} {
		if !strings.Contains(got, want) {
			t.Errorf("ChapterNav missing %q", want)
		}
	}
	if ChapterNav(nil) != "" {
		t.Error("empty chapter list should render nothing")
	}
}

func TestIndexEntriesEmptyChapters(t *testing.T) {
	entries := IndexEntries([]*library.Series{{Name: "x", Slug: "x", Title: "x"}}, true)
	if entries[0].Chapters == nil || entries[0].Cover != "" {
		t.Errorf("entry = %+v", entries[0])
	}
}
