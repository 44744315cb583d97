package dispatch

import (
	"context"
	"testing"

	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/entry"
	"github.com/unkn0wn-root/cardvault/internal/input"
	"github.com/unkn0wn-root/cardvault/internal/overlay"
	"github.com/unkn0wn-root/cardvault/internal/scene"
	"github.com/unkn0wn-root/cardvault/internal/selection"
	"github.com/unkn0wn-root/cardvault/internal/submit"
)

type fakeSubmitter struct {
	updates  []collection.Update
	inflight map[string]int
}

func (f *fakeSubmitter) Submit(_ submit.Func, u collection.Update) submit.Ticket {
	f.updates = append(f.updates, u)
	if f.inflight == nil {
		f.inflight = make(map[string]int)
	}
	f.inflight[u.CardID]++
	return submit.Ticket{ID: "t", Update: u}
}

func (f *fakeSubmitter) InFlight(cardID string) int {
	return f.inflight[cardID]
}

type fixture struct {
	d       *Dispatcher
	sel     *selection.Registry
	scene   *scene.Scene
	overlay *overlay.Renderer
	sub     *fakeSubmitter
	invalid map[string]int
}

func newFixture(t *testing.T, finishes map[string]collection.Finishes) *fixture {
	t.Helper()
	g := &scene.Group{ID: "set"}
	for _, id := range []string{"c1", "c2", "c3"} {
		g.Cards = append(g.Cards, &scene.Card{ID: id})
	}
	s := scene.New()
	s.Mount([]*scene.Group{g})
	sel := selection.New(s)
	r := overlay.New(overlay.Options{})
	sub := &fakeSubmitter{}
	f := &fixture{
		d:       New(s, sel, r, sub),
		sel:     sel,
		scene:   s,
		overlay: r,
		sub:     sub,
		invalid: make(map[string]int),
	}
	for _, c := range g.Cards {
		id := c.ID
		fs := finishes[id]
		if fs == nil {
			fs = collection.Finishes{collection.FinishNonFoil, collection.FinishFoil}
		}
		f.d.Register(Handler{
			CardID:   id,
			Finishes: fs,
			OnSubmit: func(context.Context, collection.Update) error { return nil },
			OnFlashInvalid: func() {
				f.invalid[id]++
			},
		})
	}
	return f
}

func (f *fixture) press(keys ...input.Key) []Result {
	out := make([]Result, 0, len(keys))
	for _, k := range keys {
		out = append(out, f.d.HandleKey(k))
	}
	return out
}

func runes(s string) []input.Key {
	keys := make([]input.Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, input.Rune(r))
	}
	return keys
}

func TestRoundTripSubmitsUpdate(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c1")

	f.press(runes("5f")...)
	if h, ok := f.overlay.View("c1"); !ok || !h.Visible || h.State.Count != "5" {
		t.Fatalf("expected overlay showing 5, got %+v", h)
	}
	if f.d.Phase("c1") != PhaseEntering {
		t.Fatalf("expected entering phase, got %s", f.d.Phase("c1"))
	}

	res := f.d.HandleKey(input.Named("enter"))
	if !res.Handled || res.Ticket == nil {
		t.Fatalf("expected a submission ticket, got %+v", res)
	}
	want := collection.Update{CardID: "c1", Count: 5, Finish: collection.FinishFoil}
	if len(f.sub.updates) != 1 || f.sub.updates[0] != want {
		t.Fatalf("unexpected updates %+v", f.sub.updates)
	}
	if h, _ := f.overlay.View("c1"); h.Visible {
		t.Fatalf("expected overlay hidden after submit")
	}
	if f.d.Entering() {
		t.Fatalf("expected entry session reset after submit")
	}
	if f.d.Phase("c1") != PhaseSubmitting {
		t.Fatalf("expected submitting phase, got %s", f.d.Phase("c1"))
	}
	if id, _ := f.sel.Selected(); id != "c1" {
		t.Fatalf("expected card to stay selected, got %q", id)
	}
}

func TestNegativeSubmission(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c2")
	f.press(runes("3xg")...)
	f.d.HandleKey(input.Named("enter"))
	want := collection.Update{CardID: "c2", Count: -3, Finish: collection.FinishNonFoil, Special: collection.SpecialSigned}
	if len(f.sub.updates) != 1 || f.sub.updates[0] != want {
		t.Fatalf("unexpected updates %+v", f.sub.updates)
	}
}

func TestCancelDiscardsWithoutSubmitting(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c1")
	f.press(runes("7")...)
	res := f.d.HandleKey(input.Named("esc"))
	if !res.Handled || res.Action != entry.ActionCancel {
		t.Fatalf("expected cancel, got %+v", res)
	}
	if len(f.sub.updates) != 0 {
		t.Fatalf("expected no submission")
	}
	if f.d.Entering() {
		t.Fatalf("expected session discarded")
	}
	if _, ok := f.overlay.View("c1"); ok {
		t.Fatalf("expected overlay handle released")
	}
}

func TestZeroCountIsNotSubmitted(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c1")
	f.press(runes("f")...)
	res := f.d.HandleKey(input.Named("enter"))
	if !res.Handled || res.Ticket != nil {
		t.Fatalf("expected handled enter without ticket, got %+v", res)
	}
	if len(f.sub.updates) != 0 {
		t.Fatalf("expected no submission for an empty count")
	}
}

func TestRejectedFinishFlashesOnce(t *testing.T) {
	f := newFixture(t, map[string]collection.Finishes{
		"c1": {collection.FinishNonFoil},
	})
	f.sel.Select("c1")
	f.press(runes("4")...)

	res := f.d.HandleKey(input.Rune('f'))
	if !res.Handled || res.Action != entry.ActionRejected {
		t.Fatalf("expected rejection, got %+v", res)
	}
	if len(res.Expiries) != 1 || res.Expiries[0].After != overlay.DefaultInvalidFlash {
		t.Fatalf("expected one invalid flash expiry, got %+v", res.Expiries)
	}
	if f.invalid["c1"] != 1 {
		t.Fatalf("expected OnFlashInvalid once, got %d", f.invalid["c1"])
	}
	h, _ := f.overlay.View("c1")
	if h.State.Finish != collection.FinishNonFoil || h.State.Count != "4" {
		t.Fatalf("rejected key changed state: %+v", h.State)
	}
}

func TestSelectionChangeDiscardsEntry(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c1")
	f.press(runes("9")...)
	f.sel.Select("c2")

	if f.d.Entering() {
		t.Fatalf("expected entry discarded on selection change")
	}
	if h, ok := f.overlay.View("c1"); ok && h.Visible {
		t.Fatalf("expected c1 overlay hidden")
	}
	f.press(runes("1")...)
	f.d.HandleKey(input.Named("enter"))
	if len(f.sub.updates) != 1 || f.sub.updates[0].CardID != "c2" || f.sub.updates[0].Count != 1 {
		t.Fatalf("expected fresh entry on c2, got %+v", f.sub.updates)
	}
}

func TestStaleHandlerDropsKeys(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c3")
	f.d.Unregister("c3")
	res := f.d.HandleKey(input.Rune('5'))
	if res.Handled {
		t.Fatalf("expected key for unregistered card to be dropped")
	}
	if _, ok := f.overlay.View("c3"); ok {
		t.Fatalf("expected no overlay for stale card")
	}
}

func TestUnrelatedKeysAreUnhandled(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c1")
	if res := f.d.HandleKey(input.Rune('w')); res.Handled {
		t.Fatalf("expected navigation key to pass through")
	}
	if res := f.d.HandleKey(input.Named("enter")); res.Handled {
		t.Fatalf("expected enter to be ignored while idle")
	}
	if f.d.Phase("c1") != PhaseSelected {
		t.Fatalf("expected selected phase, got %s", f.d.Phase("c1"))
	}
	if f.d.Phase("c2") != PhaseIdle {
		t.Fatalf("expected idle phase for c2")
	}
}

func TestInputFocusBypassesEntry(t *testing.T) {
	f := newFixture(t, nil)
	f.sel.Select("c1")
	f.scene.SetFocus(scene.Focus{Kind: scene.FocusInput, ID: "search"})
	if res := f.d.HandleKey(input.Rune('5')); res.Handled {
		t.Fatalf("expected keys to go to the input")
	}
}

func TestNoSelectionIsUnhandled(t *testing.T) {
	f := newFixture(t, nil)
	if res := f.d.HandleKey(input.Rune('5')); res.Handled {
		t.Fatalf("expected unhandled without a selection")
	}
}
