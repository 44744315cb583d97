package dispatch

import "github.com/unkn0wn-root/cardvault/internal/overlay"

// Phase is the lifecycle position of one card.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseSelected
	PhaseEntering
	PhaseSubmitting
	PhaseSuccessFlash
	PhaseErrorFlash
)

func (p Phase) String() string {
	switch p {
	case PhaseSelected:
		return "selected"
	case PhaseEntering:
		return "entering"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccessFlash:
		return "success-flash"
	case PhaseErrorFlash:
		return "error-flash"
	default:
		return "idle"
	}
}

// Phase derives the card's phase from the session, in-flight submissions,
// active flashes and the selection, in that order.
func (d *Dispatcher) Phase(cardID string) Phase {
	if d.cur.cardID == cardID && d.cur.entering {
		return PhaseEntering
	}
	if d.submit != nil && d.submit.InFlight(cardID) > 0 {
		return PhaseSubmitting
	}
	switch d.overlay.Flashing(cardID) {
	case overlay.FlashSuccess:
		return PhaseSuccessFlash
	case overlay.FlashError:
		return PhaseErrorFlash
	}
	if d.sel.IsSelected(cardID) {
		return PhaseSelected
	}
	return PhaseIdle
}
