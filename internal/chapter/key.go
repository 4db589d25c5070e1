package chapter

import (
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// filenamePattern matches the chapter_<N>_page_<M>.<ext> naming convention.
// It is anchored at the end only, so prefixes such as "vol1_" are tolerated.
var filenamePattern = regexp.MustCompile(`(?i)chapter_(\d+)_page_(\d+)\.(jpg|jpeg|png)$`)

// Unknown is the value both SortKey fields take when a filename cannot be parsed.
// It compares greater than any real chapter or page number.
const Unknown = math.MaxInt

// Sentinel is the key returned for filenames outside the naming convention.
var Sentinel = SortKey{Chapter: Unknown, Page: Unknown}

// SortKey orders images of a series: chapter first, then page.
type SortKey struct {
	Chapter int
	Page    int
}

// Valid reports whether the key was parsed from a well-formed filename.
func (k SortKey) Valid() bool {
	return k.Chapter != Unknown && k.Page != Unknown
}

// Less reports whether k sorts before o.
func (k SortKey) Less(o SortKey) bool {
	return Compare(k, o) < 0
}

// Compare returns -1, 0 or +1 comparing a and b by chapter, then page.
func Compare(a, b SortKey) int {
	switch {
	case a.Chapter < b.Chapter:
		return -1
	case a.Chapter > b.Chapter:
		return 1
	case a.Page < b.Page:
		return -1
	case a.Page > b.Page:
		return 1
	}
	return 0
}

// Parse extracts the ordering key from an image filename. It never fails:
// names that do not follow the convention yield Sentinel.
func Parse(filename string) SortKey {
	m := filenamePattern.FindStringSubmatch(filename)
	if m == nil {
		return Sentinel
	}
	ch, err := strconv.Atoi(m[1])
	if err != nil {
		return Sentinel
	}
	pg, err := strconv.Atoi(m[2])
	if err != nil {
		return Sentinel
	}
	return SortKey{Chapter: ch, Page: pg}
}

// HasImageExt reports whether name carries one of the recognised image extensions.
func HasImageExt(name string) bool {
	lower := strings.ToLower(name)
	for _, ext := range []string{".jpg", ".jpeg", ".png"} {
		if strings.HasSuffix(lower, ext) {
			return true
		}
	}
	return false
}

// Set returns the distinct, ascending chapter numbers among keys.
// Sentinel keys are skipped.
func Set(keys []SortKey) []int {
	seen := make(map[int]bool)
	var chapters []int
	for _, k := range keys {
		if !k.Valid() || seen[k.Chapter] {
			continue
		}
		seen[k.Chapter] = true
		chapters = append(chapters, k.Chapter)
	}
	sort.Ints(chapters)
	return chapters
}
