// Package dispatch routes every key press to the handler of the one selected
// card and keeps that card's in-progress entry.
package dispatch

import (
	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/entry"
	"github.com/unkn0wn-root/cardvault/internal/input"
	"github.com/unkn0wn-root/cardvault/internal/overlay"
	"github.com/unkn0wn-root/cardvault/internal/scene"
	"github.com/unkn0wn-root/cardvault/internal/selection"
	"github.com/unkn0wn-root/cardvault/internal/submit"
)

// Handler is registered for every mounted card.
type Handler struct {
	CardID         string
	Finishes       collection.Finishes
	OnSubmit       submit.Func
	OnFlashInvalid func()
}

// Submitter starts detached submissions.
type Submitter interface {
	Submit(fn submit.Func, u collection.Update) submit.Ticket
	InFlight(cardID string) int
}

// Result tells the shell what a key press did.
type Result struct {
	Handled  bool
	Action   entry.Action
	CardID   string
	Expiries []overlay.Expiry
	Ticket   *submit.Ticket
}

type session struct {
	cardID   string
	state    entry.State
	entering bool
}

type Dispatcher struct {
	scene    *scene.Scene
	sel      *selection.Registry
	overlay  *overlay.Renderer
	submit   Submitter
	handlers map[string]Handler
	cur      session
}

func New(s *scene.Scene, sel *selection.Registry, r *overlay.Renderer, sub Submitter) *Dispatcher {
	d := &Dispatcher{
		scene:    s,
		sel:      sel,
		overlay:  r,
		submit:   sub,
		handlers: make(map[string]Handler),
	}
	sel.OnChange(func(prev, next string) {
		if d.cur.cardID != "" && d.cur.cardID != next {
			d.discard()
		}
	})
	return d
}

func (d *Dispatcher) Register(h Handler) {
	if h.CardID == "" {
		return
	}
	d.handlers[h.CardID] = h
}

// Unregister drops the handler and any state tied to an unmounted card.
func (d *Dispatcher) Unregister(cardID string) {
	if d.cur.cardID == cardID {
		d.discard()
	}
	delete(d.handlers, cardID)
	d.overlay.Drop(cardID)
}

func (d *Dispatcher) Registered(cardID string) bool {
	_, ok := d.handlers[cardID]
	return ok
}

// HandleKey feeds key to the selected card's entry. Keys that are not part
// of the entry vocabulary come back unhandled.
func (d *Dispatcher) HandleKey(key input.Key) Result {
	if d.scene.FocusIsInput() {
		return Result{}
	}
	id, ok := d.sel.Selected()
	if !ok {
		return Result{}
	}
	h, ok := d.handlers[id]
	if !ok {
		return Result{}
	}
	if d.cur.cardID != id {
		d.cur = session{cardID: id, state: entry.New(h.Finishes)}
	}

	res := entry.Apply(d.cur.state, d.cur.entering, key, h.Finishes)
	out := Result{Handled: res.Handled(), Action: res.Action, CardID: id}

	switch res.Action {
	case entry.ActionIgnored:
		return Result{Action: res.Action, CardID: id}
	case entry.ActionUpdated:
		d.cur.state = res.State
		d.cur.entering = true
		d.overlay.Show(id, d.cur.state, false)
	case entry.ActionRejected:
		d.cur.entering = true
		d.overlay.Show(id, d.cur.state, true)
		out.Expiries = append(out.Expiries, d.overlay.Flash(id, overlay.FlashInvalid))
		if h.OnFlashInvalid != nil {
			h.OnFlashInvalid()
		}
	case entry.ActionCancel:
		d.discard()
	case entry.ActionSubmit:
		update := d.cur.state.Update(id)
		d.discard()
		if update.Count == 0 || d.submit == nil {
			return out
		}
		ticket := d.submit.Submit(h.OnSubmit, update)
		out.Ticket = &ticket
	}
	return out
}

// Entering reports whether the selected card has an entry in progress.
func (d *Dispatcher) Entering() bool {
	return d.cur.cardID != "" && d.cur.entering
}

// Session returns the in-progress entry, if any.
func (d *Dispatcher) Session() (string, entry.State, bool) {
	if !d.Entering() {
		return "", entry.State{}, false
	}
	return d.cur.cardID, d.cur.state, true
}

// Cancel discards the in-progress entry.
func (d *Dispatcher) Cancel() {
	d.discard()
}

func (d *Dispatcher) discard() {
	if d.cur.cardID != "" {
		d.overlay.Hide(d.cur.cardID)
	}
	d.cur = session{}
}
