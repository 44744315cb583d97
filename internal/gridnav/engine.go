package gridnav

import (
	"github.com/unkn0wn-root/cardvault/internal/scene"
	"github.com/unkn0wn-root/cardvault/internal/selection"
)

// Direction is a cursor movement request.
type Direction int

const (
	Up Direction = iota
	Down
	Left
	Right
	Next
	Prev
)

func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Down:
		return "down"
	case Left:
		return "left"
	case Right:
		return "right"
	case Next:
		return "next"
	case Prev:
		return "prev"
	default:
		return "unknown"
	}
}

// Scroller brings a card into the nearest visible position.
type Scroller interface {
	Reveal(card *scene.Card)
}

// Engine moves the page-wide selection over the grid of groups.
type Engine struct {
	scene  *scene.Scene
	sel    *selection.Registry
	scroll Scroller
}

func New(s *scene.Scene, sel *selection.Registry, scroll Scroller) *Engine {
	return &Engine{scene: s, sel: sel, scroll: scroll}
}

// Columns infers the column count from rendered offsets: the first card
// whose top differs from the first card's top starts the second row.
func Columns(cards []*scene.Card) int {
	if len(cards) < 2 {
		return 1
	}
	top := cards[0].Top
	for i, c := range cards {
		if c.Top != top {
			return i
		}
	}
	return len(cards)
}

// Move applies dir and returns the id of the newly selected card.
// It is a no-op when a text input has focus or no destination exists.
func (e *Engine) Move(dir Direction) (string, bool) {
	if e.scene.FocusIsInput() {
		return "", false
	}
	groups := populated(e.scene.Groups())
	if len(groups) == 0 {
		return "", false
	}

	gi, idx := e.current(groups)
	if gi < 0 {
		return e.land(groups[0].Cards[0])
	}

	g := groups[gi]
	n := len(g.Cards)
	cols := Columns(g.Cards)

	switch dir {
	case Up:
		if t := idx - cols; t >= 0 {
			return e.land(g.Cards[t])
		}
		if gi > 0 {
			return e.land(lastRowAt(groups[gi-1], idx%cols))
		}
	case Down:
		if t := idx + cols; t < n {
			return e.land(g.Cards[t])
		}
		if gi+1 < len(groups) {
			return e.land(firstRowAt(groups[gi+1], idx%cols))
		}
	case Left, Prev:
		if t := idx - 1; t >= 0 {
			return e.land(g.Cards[t])
		}
		if gi > 0 {
			prev := groups[gi-1]
			return e.land(prev.Cards[len(prev.Cards)-1])
		}
	case Right, Next:
		if t := idx + 1; t < n {
			return e.land(g.Cards[t])
		}
		if gi+1 < len(groups) {
			return e.land(groups[gi+1].Cards[0])
		}
	}
	return "", false
}

// First selects the first rendered card.
func (e *Engine) First() (string, bool) {
	if e.scene.FocusIsInput() {
		return "", false
	}
	groups := populated(e.scene.Groups())
	if len(groups) == 0 {
		return "", false
	}
	return e.land(groups[0].Cards[0])
}

// Last selects the last rendered card.
func (e *Engine) Last() (string, bool) {
	if e.scene.FocusIsInput() {
		return "", false
	}
	groups := populated(e.scene.Groups())
	if len(groups) == 0 {
		return "", false
	}
	g := groups[len(groups)-1]
	return e.land(g.Cards[len(g.Cards)-1])
}

// current locates the cursor: the focused card first, the global selection
// second. It returns -1 when neither lives in a populated group.
func (e *Engine) current(groups []*scene.Group) (int, int) {
	var ids []string
	if f := e.scene.Focus(); f.Kind == scene.FocusCard {
		ids = append(ids, f.ID)
	}
	if id, ok := e.sel.Selected(); ok {
		ids = append(ids, id)
	}
	for _, id := range ids {
		for gi, g := range groups {
			if idx := g.IndexOf(id); idx >= 0 {
				return gi, idx
			}
		}
	}
	return -1, -1
}

func (e *Engine) land(card *scene.Card) (string, bool) {
	if card == nil || !e.sel.Select(card.ID) {
		return "", false
	}
	if e.scroll != nil {
		e.scroll.Reveal(card)
	}
	return card.ID, true
}

func populated(groups []*scene.Group) []*scene.Group {
	out := make([]*scene.Group, 0, len(groups))
	for _, g := range groups {
		if g != nil && len(g.Cards) > 0 {
			out = append(out, g)
		}
	}
	return out
}

func lastRowAt(g *scene.Group, col int) *scene.Card {
	n := len(g.Cards)
	cols := Columns(g.Cards)
	t := ((n-1)/cols)*cols + col
	if t > n-1 {
		t = n - 1
	}
	return g.Cards[t]
}

func firstRowAt(g *scene.Group, col int) *scene.Card {
	n := len(g.Cards)
	rowLen := Columns(g.Cards)
	if rowLen > n {
		rowLen = n
	}
	if col > rowLen-1 {
		col = rowLen - 1
	}
	return g.Cards[col]
}
