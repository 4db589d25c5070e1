package session

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ziadkadry99/mangaview/internal/chapter"
	"github.com/ziadkadry99/mangaview/internal/urlsync"
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

// Catalog resolves the chapter anchors of a series by slug.
type Catalog interface {
	Anchors(series string) ([]viewport.Anchor, bool)
}

// Live serves one connected reader page. It opens a new Session whenever the
// page announces a series and forwards reports to it. Handle and Close must
// be called from the scheduler's goroutine.
type Live struct {
	remote  *Remote
	catalog Catalog
	sched   urlsync.Scheduler
	opts    Options
	log     *zap.Logger

	series  string
	session *Session
}

// NewLive creates a Live bound to out.
func NewLive(out Sender, catalog Catalog, sched urlsync.Scheduler, opts Options, log *zap.Logger) *Live {
	if log == nil {
		log = zap.NewNop()
	}
	return &Live{
		remote:  NewRemote(out),
		catalog: catalog,
		sched:   sched,
		opts:    opts,
		log:     log,
	}
}

// Session returns the active session, or nil before the first hello.
func (l *Live) Session() *Session {
	return l.session
}

// Handle processes one client message.
func (l *Live) Handle(msg Message) error {
	switch msg.Type {
	case TypeHello:
		return l.hello(msg)
	case TypeEntries:
		if !l.remote.Deliver(msg.Gen, msg.Entries) {
			l.log.Debug("dropping stale report", zap.Uint64("gen", msg.Gen))
		}
		return nil
	case TypeLayout:
		return l.layout(msg)
	case TypeHash:
		if n, ok := chapter.ParseAnchorID(msg.Fragment); ok {
			l.log.Debug("page navigated to chapter", zap.Int("chapter", n))
		}
		l.remote.SetFragment(msg.Fragment)
		return nil
	default:
		return fmt.Errorf("session: unknown message type %q", msg.Type)
	}
}

func validLayout(msg Message) error {
	if msg.StickyOffset != nil && *msg.StickyOffset < 0 {
		return fmt.Errorf("session: negative sticky offset %d", *msg.StickyOffset)
	}
	if msg.ViewportHeight < 0 {
		return fmt.Errorf("session: negative viewport height %v", msg.ViewportHeight)
	}
	return nil
}

// layout applies a new chrome height or viewport size. A resize alone
// re-observes because the region's margins are in px.
func (l *Live) layout(msg Message) error {
	if err := validLayout(msg); err != nil {
		return err
	}
	resized := l.remote.SetViewportHeight(msg.ViewportHeight)
	if l.session == nil {
		if msg.StickyOffset != nil {
			l.opts.StickyOffset = *msg.StickyOffset
		}
		return nil
	}
	if msg.StickyOffset != nil && *msg.StickyOffset != l.session.StickyOffset() {
		return l.session.SetStickyOffset(*msg.StickyOffset)
	}
	if resized {
		return l.session.Reobserve()
	}
	return nil
}

func (l *Live) hello(msg Message) error {
	anchors, ok := l.catalog.Anchors(msg.Series)
	if !ok {
		return fmt.Errorf("session: unknown series %q", msg.Series)
	}
	if err := validLayout(msg); err != nil {
		return err
	}
	if l.session != nil {
		l.session.Close()
		l.session = nil
	}

	opts := l.opts
	if msg.StickyOffset != nil {
		opts.StickyOffset = *msg.StickyOffset
	}
	l.remote.SetViewportHeight(msg.ViewportHeight)
	l.remote.SetFragment(msg.Fragment)
	if n, ok := chapter.ParseAnchorID(msg.Fragment); ok {
		l.log.Debug("page opened at chapter", zap.String("series", msg.Series), zap.Int("chapter", n))
	}

	s, err := Open(l.sched, l.remote, l.remote, anchors, opts, l.log.With(zap.String("series", msg.Series)))
	if err != nil {
		return err
	}
	l.series = msg.Series
	l.session = s
	l.log.Debug("reading session opened", zap.String("series", msg.Series), zap.Int("anchors", len(anchors)))
	return nil
}

// Close tears down the active session.
func (l *Live) Close() {
	if l.session != nil {
		l.session.Close()
		l.session = nil
	}
}
