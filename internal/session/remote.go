package session

import (
	"github.com/ziadkadry99/mangaview/internal/viewport"
)

// Message types exchanged with a live reader page.
const (
	TypeHello     = "hello"     // client: series, fragment, stickyOffset, viewportHeight
	TypeEntries   = "entries"   // client: gen, entries
	TypeLayout    = "layout"    // client: stickyOffset, viewportHeight
	TypeHash      = "hash"      // client: fragment
	TypeObserve   = "observe"   // server: gen, ids, rootMargin (px)
	TypeUnobserve = "unobserve" // server: gen
	TypeReplace   = "replace"   // server: fragment
	TypeError     = "error"     // server: error
)

// Message is the JSON frame of the live reading protocol.
type Message struct {
	Type           string           `json:"type"`
	Gen            uint64           `json:"gen,omitempty"`
	Series         string           `json:"series,omitempty"`
	Fragment       string           `json:"fragment"`
	StickyOffset   *int             `json:"stickyOffset,omitempty"` // nil when not reported
	ViewportHeight float64          `json:"viewportHeight,omitempty"`
	IDs            []string         `json:"ids,omitempty"`
	RootMargin     string           `json:"rootMargin,omitempty"`
	Entries        []viewport.Entry `json:"entries,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// defaultViewportHeight is assumed until the client reports its own.
const defaultViewportHeight = 800.0

// Sender delivers messages to the client.
type Sender interface {
	Send(Message) error
}

// Remote observes anchors and rewrites the address of a page on the other
// end of a Sender. It implements viewport.Observer and urlsync.AddressBar.
type Remote struct {
	out      Sender
	gen      uint64
	active   uint64
	fn       func([]viewport.Entry)
	fragment string
	height   float64
}

// NewRemote returns a Remote writing to out.
func NewRemote(out Sender) *Remote {
	return &Remote{out: out, height: defaultViewportHeight}
}

// SetViewportHeight records the client's viewport height and reports
// whether it changed. Non-positive heights are ignored.
func (r *Remote) SetViewportHeight(h float64) bool {
	if h <= 0 || h == r.height {
		return false
	}
	r.height = h
	return true
}

type remoteRegistration struct {
	r   *Remote
	gen uint64
}

func (reg remoteRegistration) Unregister() {
	r := reg.r
	if r.active != reg.gen {
		return
	}
	r.active = 0
	r.fn = nil
	_ = r.out.Send(Message{Type: TypeUnobserve, Gen: reg.gen})
}

// Observe asks the client to watch ids. Reports tagged with an older
// generation are dropped by Deliver.
func (r *Remote) Observe(region viewport.Region, ids []string, fn func([]viewport.Entry)) (viewport.Registration, error) {
	r.gen++
	if err := r.out.Send(Message{Type: TypeObserve, Gen: r.gen, IDs: ids, RootMargin: region.RootMargin(r.height)}); err != nil {
		return nil, err
	}
	r.active = r.gen
	r.fn = fn
	return remoteRegistration{r: r, gen: r.gen}, nil
}

// Deliver passes a client report to the active observation.
func (r *Remote) Deliver(gen uint64, entries []viewport.Entry) bool {
	if gen == 0 || gen != r.active || r.fn == nil {
		return false
	}
	r.fn(entries)
	return true
}

// Fragment returns the last fragment known to be shown by the client.
func (r *Remote) Fragment() string {
	return r.fragment
}

// SetFragment records a fragment reported by the client.
func (r *Remote) SetFragment(f string) {
	r.fragment = f
}

// ReplaceFragment tells the client to replace its address fragment.
func (r *Remote) ReplaceFragment(f string) error {
	if err := r.out.Send(Message{Type: TypeReplace, Fragment: f}); err != nil {
		return err
	}
	r.fragment = f
	return nil
}
