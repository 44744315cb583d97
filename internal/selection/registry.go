package selection

import "github.com/unkn0wn-root/cardvault/internal/scene"

// Listener observes selection changes. Either id may be empty.
type Listener func(prev, next string)

// Registry enforces that at most one card in the whole scene is selected.
// It keeps no pointer of its own: the selected attribute on the scene is the
// single source of truth, so click, navigation and keyboard paths can all
// call in within the same update without going stale.
type Registry struct {
	scene     *scene.Scene
	listeners []Listener
}

func New(s *scene.Scene) *Registry {
	return &Registry{scene: s}
}

// OnChange adds a listener called whenever the selected id changes.
func (r *Registry) OnChange(fn Listener) {
	if fn != nil {
		r.listeners = append(r.listeners, fn)
	}
}

// Selected returns the selected card id.
func (r *Registry) Selected() (string, bool) {
	marked := r.scene.Marked()
	if len(marked) == 0 {
		return "", false
	}
	return marked[0].ID, true
}

// IsSelected reports whether id carries the selected attribute.
func (r *Registry) IsSelected(id string) bool {
	c, ok := r.scene.Card(id)
	return ok && c.Selected
}

// Select marks id as the only selected card and moves focus to it.
// Unknown ids are ignored and false is returned.
func (r *Registry) Select(id string) bool {
	card, ok := r.scene.Card(id)
	if !ok {
		return false
	}
	prev, _ := r.Selected()
	for _, c := range r.scene.Marked() {
		if c.ID != id {
			c.Selected = false
		}
	}
	card.Selected = true
	r.scene.Blur()
	r.scene.SetFocus(scene.Focus{Kind: scene.FocusCard, ID: id})
	if prev != id {
		r.notify(prev, id)
	}
	return true
}

// Clear deselects id only if it is the selected card.
func (r *Registry) Clear(id string) {
	card, ok := r.scene.Card(id)
	if !ok || !card.Selected {
		return
	}
	card.Selected = false
	if f := r.scene.Focus(); f.Kind == scene.FocusCard && f.ID == id {
		r.scene.Blur()
	}
	r.notify(id, "")
}

// ClearAll deselects every card.
func (r *Registry) ClearAll() {
	prev, ok := r.Selected()
	for _, c := range r.scene.Marked() {
		c.Selected = false
	}
	if f := r.scene.Focus(); f.Kind == scene.FocusCard {
		r.scene.Blur()
	}
	if ok {
		r.notify(prev, "")
	}
}

func (r *Registry) notify(prev, next string) {
	for _, fn := range r.listeners {
		fn(prev, next)
	}
}
