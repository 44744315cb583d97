package entry

import (
	"strconv"

	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/input"
)

// Action is what the caller should do after a key was applied.
type Action int

const (
	// ActionIgnored means the key is not part of the entry vocabulary
	// (or not valid in the current mode); the caller may route it elsewhere.
	ActionIgnored Action = iota
	ActionUpdated
	// ActionRejected means a finish key named a finish the card does not offer.
	ActionRejected
	ActionSubmit
	ActionCancel
)

func (a Action) String() string {
	switch a {
	case ActionUpdated:
		return "updated"
	case ActionRejected:
		return "rejected"
	case ActionSubmit:
		return "submit"
	case ActionCancel:
		return "cancel"
	default:
		return "ignored"
	}
}

// Result is the outcome of Apply.
type Result struct {
	State    State
	Action   Action
	Entering bool
}

// Handled reports whether the key was consumed by the entry machine.
func (r Result) Handled() bool {
	return r.Action != ActionIgnored
}

var finishKeys = map[rune]collection.Finish{
	'z': collection.FinishNonFoil,
	'n': collection.FinishNonFoil,
	'f': collection.FinishFoil,
	'o': collection.FinishFoil,
	'e': collection.FinishEtched,
	'h': collection.FinishEtched,
}

var specialKeys = map[rune]collection.Special{
	'g': collection.SpecialSigned,
	'i': collection.SpecialSigned,
	'r': collection.SpecialArtistProof,
	'p': collection.SpecialArtistProof,
	't': collection.SpecialAltered,
	'm': collection.SpecialAltered,
}

// Apply interprets one key press against prev. It never mutates prev.
//
// A card that is not yet entering only starts doing so on a recognised key;
// enter and esc are only recognised once entering.
func Apply(prev State, entering bool, key input.Key, finishes collection.Finishes) Result {
	ignored := Result{State: prev, Action: ActionIgnored, Entering: entering}
	if key.Modified() || key.Paste {
		return ignored
	}

	switch key.Code {
	case "enter":
		if !entering {
			return ignored
		}
		return Result{State: prev, Action: ActionSubmit, Entering: true}
	case "esc", "escape":
		if !entering {
			return ignored
		}
		return Result{State: State{}, Action: ActionCancel, Entering: false}
	}

	r := key.Lower()
	if r == 0 {
		return ignored
	}

	next := prev
	switch {
	case r >= '0' && r <= '9':
		next.Count = appendDigit(prev.Count, r)
	case r == '+' || r == '`':
		next.Count = strconv.Itoa(prev.Magnitude() + 1)
		if len(next.Count) > MaxCountDigits {
			next.Count = prev.Count
		}
	case r == '-' || r == '~':
		n := prev.Magnitude() - 1
		if n < 0 {
			n = 0
		}
		next.Count = strconv.Itoa(n)
	case r == 'x':
		if prev.signAllowed() {
			next.IsNegative = !prev.IsNegative
		}
	default:
		if f, ok := finishKeys[r]; ok {
			if !finishes.Contains(f) {
				return Result{State: prev, Action: ActionRejected, Entering: true}
			}
			next.Finish = f
			break
		}
		if sp, ok := specialKeys[r]; ok {
			if prev.Special == sp {
				next.Special = collection.SpecialNone
			} else {
				next.Special = sp
			}
			break
		}
		return ignored
	}
	return Result{State: next, Action: ActionUpdated, Entering: true}
}

func appendDigit(count string, d rune) string {
	if count == "0" {
		return string(d)
	}
	if len(count) >= MaxCountDigits {
		return count
	}
	return count + string(d)
}
