package site

import (
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/ziadkadry99/mangaview/internal/chapter"
	"github.com/ziadkadry99/mangaview/internal/library"
)

// SeriesNav renders the series list for the sidebar. current is the
// directory name of the series being read, or "" on the index page.
// basePath is the relative prefix back to the site root.
func SeriesNav(series []*library.Series, current, basePath string) string {
	var b strings.Builder
	b.WriteString(`<ul class="nav-list series-list">` + "\n")
	for _, s := range series {
		active := ""
		if s.Name == current {
			active = ` class="active"`
		}
		fmt.Fprintf(&b, `<li data-filter="%s"><a href="%s%s/%s/"%s>%s</a></li>`+"\n",
			html.EscapeString(strings.ToLower(s.Name)),
			basePath, SeriesDir, s.Slug,
			active,
			html.EscapeString(s.Title))
	}
	b.WriteString("</ul>\n")
	return b.String()
}

// ChapterNav renders in-page links to every chapter anchor.
func ChapterNav(chapters []int) string {
	if len(chapters) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(`<ul class="nav-list chapter-list">` + "\n")
	for _, ch := range chapters {
		n := strconv.Itoa(ch)
		fmt.Fprintf(&b, `<li data-filter="%s" data-chapter="%s"><a href="%s">%s</a></li>`+"\n",
			n, n, chapter.Fragment(ch), n)
	}
	b.WriteString("</ul>\n")
	return b.String()
}
