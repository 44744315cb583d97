// Package overlay keeps the retained per-card entry overlays.
//
// Key feedback is written straight into a card's handle; the grid itself is
// only re-rendered when something is committed. Every call is a single field
// write on one handle, so it is safe to call at keystroke frequency.
package overlay

import (
	"time"

	"github.com/unkn0wn-root/cardvault/internal/entry"
)

// FlashKind is the colour pulse shown on a card.
type FlashKind int

const (
	FlashNone FlashKind = iota
	FlashInvalid
	FlashSuccess
	FlashError
)

func (k FlashKind) String() string {
	switch k {
	case FlashInvalid:
		return "invalid"
	case FlashSuccess:
		return "success"
	case FlashError:
		return "error"
	default:
		return "none"
	}
}

const (
	DefaultInvalidFlash = 150 * time.Millisecond
	DefaultResultFlash  = 600 * time.Millisecond
)

// Handle is the retained overlay bound to one card.
type Handle struct {
	CardID  string
	Visible bool
	State   entry.State
	Invalid bool
	Pending int

	flash     FlashKind
	flashSeq  int
	flashTill time.Time
}

// Expiry tells the caller when to call Expire for a flash.
type Expiry struct {
	CardID string
	Seq    int
	After  time.Duration
}

type Options struct {
	InvalidFlash time.Duration
	ResultFlash  time.Duration
	Now          func() time.Time
}

// Renderer owns all overlay handles.
type Renderer struct {
	handles map[string]*Handle
	invalid time.Duration
	result  time.Duration
	now     func() time.Time
	seq     int
}

func New(opts Options) *Renderer {
	r := &Renderer{
		handles: make(map[string]*Handle),
		invalid: opts.InvalidFlash,
		result:  opts.ResultFlash,
		now:     opts.Now,
	}
	if r.invalid <= 0 {
		r.invalid = DefaultInvalidFlash
	}
	if r.result <= 0 {
		r.result = DefaultResultFlash
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

func (r *Renderer) handle(cardID string) *Handle {
	h, ok := r.handles[cardID]
	if !ok {
		h = &Handle{CardID: cardID}
		r.handles[cardID] = h
	}
	return h
}

// Show creates or updates the overlay for cardID.
func (r *Renderer) Show(cardID string, st entry.State, invalid bool) {
	h := r.handle(cardID)
	h.Visible = true
	h.State = st
	h.Invalid = invalid
}

// Hide removes the overlay immediately. Flashes and pending markers stay;
// an otherwise idle handle is collected.
func (r *Renderer) Hide(cardID string) {
	if h, ok := r.handles[cardID]; ok {
		h.Visible = false
		h.Invalid = false
		r.gc(h)
	}
}

// Flash starts a colour pulse on cardID and returns when it should expire.
// Displayed values are not touched.
func (r *Renderer) Flash(cardID string, kind FlashKind) Expiry {
	h := r.handle(cardID)
	r.seq++
	d := r.result
	if kind == FlashInvalid {
		d = r.invalid
	}
	h.flash = kind
	h.flashSeq = r.seq
	h.flashTill = r.now().Add(d)
	return Expiry{CardID: cardID, Seq: r.seq, After: d}
}

// Expire clears the flash on cardID if seq is still the latest one.
func (r *Renderer) Expire(cardID string, seq int) bool {
	h, ok := r.handles[cardID]
	if !ok || h.flashSeq != seq || h.flash == FlashNone {
		return false
	}
	h.flash = FlashNone
	if h.Invalid && h.Visible {
		h.Invalid = false
	}
	r.gc(h)
	return true
}

// SetPending records how many submissions are in flight for cardID.
func (r *Renderer) SetPending(cardID string, n int) {
	if n < 0 {
		n = 0
	}
	h := r.handle(cardID)
	h.Pending = n
	r.gc(h)
}

// Drop forgets the handle of an unmounted card.
func (r *Renderer) Drop(cardID string) {
	delete(r.handles, cardID)
}

// View returns a snapshot of the handle for cardID.
func (r *Renderer) View(cardID string) (Handle, bool) {
	h, ok := r.handles[cardID]
	if !ok {
		return Handle{}, false
	}
	return *h, true
}

// Flashing reports the active flash on cardID, honouring its deadline even
// when the expiry tick has not been delivered yet.
func (r *Renderer) Flashing(cardID string) FlashKind {
	h, ok := r.handles[cardID]
	if !ok || h.flash == FlashNone {
		return FlashNone
	}
	if !r.now().Before(h.flashTill) {
		return FlashNone
	}
	return h.flash
}

// Len is the number of retained handles.
func (r *Renderer) Len() int {
	return len(r.handles)
}

func (r *Renderer) gc(h *Handle) {
	if !h.Visible && h.Pending == 0 && h.flash == FlashNone {
		delete(r.handles, h.CardID)
	}
}
