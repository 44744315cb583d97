// Package scene is the retained tree of rendered card groups.
//
// It plays the role a document tree plays in a browser: groups in document
// order, cards carrying an id and a selected attribute, layout offsets written
// by whoever renders them, and a single focus target. Selection and
// navigation read and write it directly instead of going through view state.
package scene

// FocusKind identifies what currently holds keyboard focus.
type FocusKind int

const (
	FocusNone FocusKind = iota
	FocusCard
	FocusInput
)

// Focus is the element holding keyboard focus.
type Focus struct {
	Kind FocusKind
	ID   string
}

// Card is a rendered card element.
type Card struct {
	ID       string
	GroupID  string
	Selected bool
	// Top and Left are layout offsets in cells from the document origin.
	Top    int
	Left   int
	Height int
}

// Group is a rendered container of cards.
type Group struct {
	ID    string
	Title string
	Cards []*Card
}

// IndexOf returns the position of id in the group or -1.
func (g *Group) IndexOf(id string) int {
	if g == nil {
		return -1
	}
	for i, c := range g.Cards {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// Scene holds all rendered groups.
type Scene struct {
	groups []*Group
	cards  map[string]*Card
	owner  map[string]*Group
	focus  Focus
}

func New() *Scene {
	return &Scene{
		cards: make(map[string]*Card),
		owner: make(map[string]*Group),
	}
}

// Mount replaces the rendered groups. Cards that survive keep their selected
// attribute, the way keyed elements keep their attributes across renders.
// It returns the ids that appeared and disappeared.
func (s *Scene) Mount(groups []*Group) (mounted, unmounted []string) {
	prev := s.cards
	s.groups = groups
	s.cards = make(map[string]*Card)
	s.owner = make(map[string]*Group)
	for _, g := range groups {
		if g == nil {
			continue
		}
		for _, c := range g.Cards {
			if c == nil || c.ID == "" {
				continue
			}
			c.GroupID = g.ID
			if old, ok := prev[c.ID]; ok {
				c.Selected = old.Selected
			} else {
				mounted = append(mounted, c.ID)
			}
			s.cards[c.ID] = c
			s.owner[c.ID] = g
		}
	}
	for id := range prev {
		if _, ok := s.cards[id]; !ok {
			unmounted = append(unmounted, id)
		}
	}
	if s.focus.Kind == FocusCard {
		if _, ok := s.cards[s.focus.ID]; !ok {
			s.focus = Focus{}
		}
	}
	return mounted, unmounted
}

// Groups returns the groups in document order.
func (s *Scene) Groups() []*Group {
	return s.groups
}

func (s *Scene) Card(id string) (*Card, bool) {
	c, ok := s.cards[id]
	return c, ok
}

func (s *Scene) Group(id string) (*Group, bool) {
	for _, g := range s.groups {
		if g != nil && g.ID == id {
			return g, true
		}
	}
	return nil, false
}

// GroupOf returns the group holding the card and the card's index in it.
func (s *Scene) GroupOf(cardID string) (*Group, int) {
	g, ok := s.owner[cardID]
	if !ok {
		return nil, -1
	}
	return g, g.IndexOf(cardID)
}

// Marked returns every card carrying the selected attribute, in document order.
func (s *Scene) Marked() []*Card {
	var out []*Card
	for _, g := range s.groups {
		if g == nil {
			continue
		}
		for _, c := range g.Cards {
			if c != nil && c.Selected {
				out = append(out, c)
			}
		}
	}
	return out
}

// Len is the number of mounted cards.
func (s *Scene) Len() int {
	return len(s.cards)
}

func (s *Scene) Focus() Focus {
	return s.focus
}

func (s *Scene) SetFocus(f Focus) {
	s.focus = f
}

// Blur drops focus from whatever holds it.
func (s *Scene) Blur() {
	s.focus = Focus{}
}

// FocusIsInput reports whether a text input holds focus.
func (s *Scene) FocusIsInput() bool {
	return s.focus.Kind == FocusInput
}
