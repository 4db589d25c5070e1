package chapter

import (
	"sort"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name string
		want SortKey
	}{
		{"chapter_1_page_0.png", SortKey{1, 0}},
		{"chapter_12_page_34.jpg", SortKey{12, 34}},
		{"chapter_007_page_010.jpeg", SortKey{7, 10}},
		{"CHAPTER_3_PAGE_4.PNG", SortKey{3, 4}},
		{"chapter_3_page_4.JpG", SortKey{3, 4}},
		{"vol2_chapter_5_page_1.png", SortKey{5, 1}},
		{"", Sentinel},
		{"cover.png", Sentinel},
		{"chapter_1.jpg", Sentinel},
		{"chapter_a_page_1.png", Sentinel},
		{"chapter_1_page_1.gif", Sentinel},
		{"chapter_1_page_1.png.bak", Sentinel},
		{"chapter__page_1.png", Sentinel},
		{"chapter_99999999999999999999999_page_1.png", Sentinel},
	}
	for _, tt := range tests {
		got := Parse(tt.name)
		if got != tt.want {
			t.Errorf("Parse(%q) = %+v, want %+v", tt.name, got, tt.want)
		}
	}
}

func TestSentinelSortsLast(t *testing.T) {
	keys := []SortKey{Sentinel, {2, 0}, {1, 5}, Sentinel, {1, 0}, {2, 1}}
	sort.SliceStable(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })

	want := []SortKey{{1, 0}, {1, 5}, {2, 0}, {2, 1}, Sentinel, Sentinel}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("sorted[%d] = %+v, want %+v (all: %v)", i, keys[i], want[i], keys)
		}
	}
	if Sentinel.Valid() {
		t.Error("Sentinel should not be valid")
	}
}

func TestCompare(t *testing.T) {
	tests := []struct {
		a, b SortKey
		want int
	}{
		{SortKey{1, 0}, SortKey{1, 0}, 0},
		{SortKey{1, 9}, SortKey{2, 0}, -1},
		{SortKey{2, 0}, SortKey{1, 9}, 1},
		{SortKey{3, 1}, SortKey{3, 2}, -1},
		{SortKey{1000, 1000}, Sentinel, -1},
	}
	for _, tt := range tests {
		if got := Compare(tt.a, tt.b); got != tt.want {
			t.Errorf("Compare(%v, %v) = %d, want %d", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSet(t *testing.T) {
	keys := []SortKey{{3, 0}, {1, 1}, Sentinel, {1, 0}, {2, 4}, {3, 2}}
	got := Set(keys)
	want := []int{1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("Set() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Set()[%d] = %d, want %d", i, got[i], want[i])
		}
	}

	if got := Set([]SortKey{Sentinel}); len(got) != 0 {
		t.Errorf("Set(sentinel only) = %v, want empty", got)
	}
}

func TestHasImageExt(t *testing.T) {
	for name, want := range map[string]bool{
		"a.png":  true,
		"a.JPEG": true,
		"a.jpg":  true,
		"a.gif":  false,
		"a.md":   false,
		"png":    false,
	} {
		if got := HasImageExt(name); got != want {
			t.Errorf("HasImageExt(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestAnchorID(t *testing.T) {
	if got := AnchorID(2); got != "chapter-2" {
		t.Errorf("AnchorID(2) = %q", got)
	}
	if got := Fragment(12); got != "#chapter-12" {
		t.Errorf("Fragment(12) = %q", got)
	}

	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"chapter-2", 2, true},
		{"#chapter-40", 40, true},
		{"chapter-", 0, false},
		{"chapter-x", 0, false},
		{"chapter--1", 0, false},
		{"page-1", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseAnchorID(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ParseAnchorID(%q) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
