package entry

import (
	"strconv"

	"github.com/unkn0wn-root/cardvault/internal/collection"
)

// MaxCountDigits bounds the typed quantity so parsing can never overflow.
const MaxCountDigits = 6

// State is the in-progress entry for the selected card.
type State struct {
	Count      string
	Finish     collection.Finish
	Special    collection.Special
	IsNegative bool
}

// New returns a fresh state for a card offering the given finishes.
func New(finishes collection.Finishes) State {
	return State{Finish: finishes.Default(), Special: collection.SpecialNone}
}

// Magnitude is the parsed count; an empty count is zero.
func (s State) Magnitude() int {
	if s.Count == "" {
		return 0
	}
	n, err := strconv.Atoi(s.Count)
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// Value is the signed count that a submission would carry.
func (s State) Value() int {
	n := s.Magnitude()
	if s.IsNegative {
		return -n
	}
	return n
}

// Update builds the submission payload for cardID.
func (s State) Update(cardID string) collection.Update {
	return collection.Update{
		CardID:  cardID,
		Count:   s.Value(),
		Finish:  s.Finish,
		Special: s.Special,
	}
}

func (s State) signAllowed() bool {
	return s.Count != "" && s.Count != "0"
}
