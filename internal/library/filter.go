package library

import (
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// DefaultExcludes are directory names never treated as series.
var DefaultExcludes = []string{
	".git",
	"node_modules",
	".next",
	"__MACOSX",
	".DS_Store",
	"@eaDir",
}

// shouldExcludeDir checks whether a directory name is excluded by default.
// Hidden directories are always skipped.
func shouldExcludeDir(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	for _, excl := range DefaultExcludes {
		if strings.EqualFold(name, excl) {
			return true
		}
	}
	return false
}

// MatchesInclude returns true if relPath matches any include pattern.
// An empty pattern list includes everything.
func MatchesInclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return true
	}
	return matchesAny(relPath, patterns)
}

// MatchesExclude returns true if relPath matches any exclude pattern.
func MatchesExclude(relPath string, patterns []string) bool {
	if len(patterns) == 0 {
		return false
	}
	return matchesAny(relPath, patterns)
}

// matchesAny tries each pattern against the slash-separated path and its base name.
func matchesAny(relPath string, patterns []string) bool {
	normalized := filepath.ToSlash(relPath)
	base := filepath.Base(normalized)

	for _, pattern := range patterns {
		pattern = filepath.ToSlash(pattern)
		if matched, err := doublestar.Match(pattern, normalized); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(pattern, base); err == nil && matched {
			return true
		}
	}
	return false
}

// FilterSeries keeps the series whose directory name contains term, ignoring case.
func FilterSeries(series []*Series, term string) []*Series {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return series
	}
	out := []*Series{}
	for _, s := range series {
		if strings.Contains(strings.ToLower(s.Name), term) {
			out = append(out, s)
		}
	}
	return out
}

// FilterChapters keeps the chapter numbers whose decimal form contains term.
func FilterChapters(chapters []int, term string) []int {
	term = strings.TrimSpace(term)
	if term == "" {
		return chapters
	}
	out := []int{}
	for _, ch := range chapters {
		if strings.Contains(strconv.Itoa(ch), term) {
			out = append(out, ch)
		}
	}
	return out
}
