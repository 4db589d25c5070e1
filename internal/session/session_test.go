package session

import (
	"testing"
	"time"

	"github.com/ziadkadry99/mangaview/internal/chapter"
	"github.com/ziadkadry99/mangaview/internal/library"
	"github.com/ziadkadry99/mangaview/internal/render"
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

func layoutFor(names ...string) render.Layout {
	images := make([]library.ImageEntry, len(names))
	for i, n := range names {
		images[i] = library.ImageEntry{Filename: n, Key: chapter.Parse(n)}
	}
	library.SortImages(images)
	return render.Build(images, "")
}

func TestScrollUpdatesFragmentAfterQuietPeriod(t *testing.T) {
	l := layoutFor("chapter_2_page_0.png", "chapter_1_page_1.png", "chapter_1_page_0.png")
	if len(l.Anchors) != 2 || l.Anchors[0].ID != "chapter-1" || l.Anchors[1].ID != "chapter-2" {
		t.Fatalf("anchors = %+v", l.Anchors)
	}

	sched := &manualScheduler{}
	out := &recorder{}
	remote := NewRemote(out)
	s, err := Open(sched, remote, remote, l.Observed(), Options{StickyOffset: 162}, nil)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer s.Close()

	obs := out.lastObserve()
	if obs.RootMargin != "-162px 0px -438px 0px" {
		t.Errorf("rootMargin = %q", obs.RootMargin)
	}
	remote.Deliver(obs.Gen, []viewport.Entry{
		{ID: "chapter-1", Top: -900, Intersecting: false},
		{ID: "chapter-2", Top: 170, Intersecting: true},
	})

	if n, ok := s.Current(); !ok || n != 2 {
		t.Fatalf("Current() = %d, %v; want 2", n, ok)
	}
	sched.Advance(299 * time.Millisecond)
	if len(out.ofType(TypeReplace)) != 0 {
		t.Fatal("fragment replaced before quiet period")
	}
	sched.Advance(time.Millisecond)
	rep := out.ofType(TypeReplace)
	if len(rep) != 1 || rep[0].Fragment != "#chapter-2" {
		t.Fatalf("replace messages = %+v", rep)
	}
	if remote.Fragment() != "#chapter-2" {
		t.Errorf("Fragment() = %q", remote.Fragment())
	}
}

func TestBurstWritesOnlyLastChapter(t *testing.T) {
	l := layoutFor("chapter_1_page_0.png", "chapter_2_page_0.png", "chapter_3_page_0.png")
	sched := &manualScheduler{}
	out := &recorder{}
	remote := NewRemote(out)
	s, err := Open(sched, remote, remote, l.Observed(), Options{StickyOffset: 100}, nil)
	if err != nil {
		t.Fatal(err)
	}
	gen := out.lastObserve().Gen

	prev := ""
	for _, id := range []string{"chapter-1", "chapter-2", "chapter-3"} {
		entries := []viewport.Entry{{ID: id, Top: 120, Intersecting: true}}
		if prev != "" {
			entries = append(entries, viewport.Entry{ID: prev, Top: -400})
		}
		remote.Deliver(gen, entries)
		prev = id
		sched.Advance(100 * time.Millisecond)
	}
	sched.Advance(time.Second)

	rep := out.ofType(TypeReplace)
	if len(rep) != 1 || rep[0].Fragment != "#chapter-3" {
		t.Fatalf("replace messages = %+v", rep)
	}
	if got := s.state.Mutations(); got != 3 {
		t.Errorf("state mutations = %d, want 3", got)
	}
}

func TestCloseCancelsPendingUpdate(t *testing.T) {
	l := layoutFor("chapter_1_page_0.png")
	sched := &manualScheduler{}
	out := &recorder{}
	remote := NewRemote(out)
	s, err := Open(sched, remote, remote, l.Observed(), Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	remote.Deliver(out.lastObserve().Gen, []viewport.Entry{{ID: "chapter-1", Top: 200, Intersecting: true}})
	s.Close()
	sched.Advance(time.Second)

	if rep := out.ofType(TypeReplace); len(rep) != 0 {
		t.Errorf("replace after close: %+v", rep)
	}
	if len(out.ofType(TypeUnobserve)) != 1 {
		t.Error("expected observation to be torn down")
	}
	if err := s.SetStickyOffset(10); err != ErrClosed {
		t.Errorf("SetStickyOffset after close = %v, want ErrClosed", err)
	}
}

func TestStickyOffsetChangeDropsStaleReports(t *testing.T) {
	l := layoutFor("chapter_1_page_0.png", "chapter_2_page_0.png")
	sched := &manualScheduler{}
	out := &recorder{}
	remote := NewRemote(out)
	s, err := Open(sched, remote, remote, l.Observed(), Options{StickyOffset: 162}, nil)
	if err != nil {
		t.Fatal(err)
	}
	old := out.lastObserve().Gen

	if err := s.SetStickyOffset(112); err != nil {
		t.Fatal(err)
	}
	cur := out.lastObserve()
	if cur.Gen == old || cur.RootMargin != "-112px 0px -488px 0px" {
		t.Fatalf("observe after resize = %+v", cur)
	}
	if remote.Deliver(old, []viewport.Entry{{ID: "chapter-2", Top: 200, Intersecting: true}}) {
		t.Error("stale report was delivered")
	}
	if _, ok := s.Current(); ok {
		t.Error("stale report changed the current chapter")
	}
	// Same offset again does not re-observe.
	n := len(out.ofType(TypeObserve))
	if err := s.SetStickyOffset(112); err != nil {
		t.Fatal(err)
	}
	if len(out.ofType(TypeObserve)) != n {
		t.Error("unchanged offset re-observed")
	}
}

func TestNoAnchorsClearsFragmentOnce(t *testing.T) {
	sched := &manualScheduler{}
	out := &recorder{}
	remote := NewRemote(out)
	remote.SetFragment("#chapter-9")

	s, err := Open(sched, remote, remote, nil, Options{}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	sched.Advance(time.Second)

	rep := out.ofType(TypeReplace)
	if len(rep) != 1 || rep[0].Fragment != "" {
		t.Fatalf("replace messages = %+v", rep)
	}
	if len(out.ofType(TypeObserve)) != 0 {
		t.Error("observed with no anchors")
	}
}

func TestSetAnchorsReplacesObservation(t *testing.T) {
	sched := &manualScheduler{}
	out := &recorder{}
	remote := NewRemote(out)
	s, err := Open(sched, remote, remote, layoutFor("chapter_1_page_0.png").Observed(), Options{StickyOffset: 50}, nil)
	if err != nil {
		t.Fatal(err)
	}
	remote.Deliver(out.lastObserve().Gen, []viewport.Entry{{ID: "chapter-1", Top: 60, Intersecting: true}})

	if err := s.SetAnchors(layoutFor("chapter_5_page_0.png").Observed()); err != nil {
		t.Fatal(err)
	}
	if _, ok := s.Current(); ok {
		t.Error("chapter 1 kept after its anchor was removed")
	}
	if ids := out.lastObserve().IDs; len(ids) != 1 || ids[0] != "chapter-5" {
		t.Errorf("observed ids = %v", ids)
	}
}

func TestFractionOption(t *testing.T) {
	out := &recorder{}
	remote := NewRemote(out)
	s, err := Open(&manualScheduler{}, remote, remote, layoutFor("chapter_1_page_0.png").Observed(), Options{StickyOffset: 40, Fraction: 0.5}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	if got := out.lastObserve().RootMargin; got != "-40px 0px -360px 0px" {
		t.Errorf("rootMargin = %q", got)
	}
}
