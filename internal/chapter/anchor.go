package chapter

import (
	"strconv"
	"strings"
)

const anchorPrefix = "chapter-"

// AnchorID returns the DOM id of the first page of chapter n.
func AnchorID(n int) string {
	return anchorPrefix + strconv.Itoa(n)
}

// Fragment returns the address fragment that deep-links to chapter n.
func Fragment(n int) string {
	return "#" + AnchorID(n)
}

// ParseAnchorID is the inverse of AnchorID. A leading "#" is accepted.
func ParseAnchorID(id string) (int, bool) {
	id = strings.TrimPrefix(id, "#")
	rest, ok := strings.CutPrefix(id, anchorPrefix)
	if !ok || rest == "" {
		return 0, false
	}
	for _, c := range rest {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return n, true
}
