package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/config"
	"github.com/unkn0wn-root/cardvault/internal/dispatch"
	"github.com/unkn0wn-root/cardvault/internal/scene"
	"github.com/unkn0wn-root/cardvault/internal/storage"
	"github.com/unkn0wn-root/cardvault/internal/ui/scroll"
)

// layoutRow is one horizontal band of the document: a group title or a row
// of cards sharing the same top offset.
type layoutRow struct {
	top    int
	height int
	group  *scene.Group
	cards  []*scene.Card
}

func (r layoutRow) isTitle() bool {
	return r.cards == nil
}

// viewport is the scrolled window over the laid out document. It is shared
// with the navigation engine, which reveals every card it lands on.
type viewport struct {
	offset int
	height int
	total  int
}

func (v *viewport) Reveal(card *scene.Card) {
	if card == nil {
		return
	}
	v.offset = scroll.Reveal(card.Top, card.Top+card.Height-1, v.offset, v.height, v.total)
}

func (v *viewport) clamp() {
	v.offset = scroll.Clamp(v.offset, v.height, v.total)
}

func columnsFor(width int, grid config.GridSettings) int {
	cols := (width + grid.Gap) / (grid.CardWidth + grid.Gap)
	if cols < 1 {
		cols = 1
	}
	if grid.MaxColumns > 0 && cols > grid.MaxColumns {
		cols = grid.MaxColumns
	}
	return cols
}

// buildLayout groups cards by set, keeping their order, and assigns every
// card its offsets. It returns the groups, the document rows and the
// document height.
func buildLayout(cards []storage.Card, grid config.GridSettings, width int) ([]*scene.Group, []layoutRow, int) {
	cols := columnsFor(width, grid)
	rowGap := 0
	if grid.Density == config.GridDensityComfortable {
		rowGap = 1
	}

	var (
		groups []*scene.Group
		byCode = make(map[string]*scene.Group)
	)
	for _, c := range cards {
		g, ok := byCode[c.SetCode]
		if !ok {
			title := strings.TrimSpace(c.SetName)
			if title == "" {
				title = strings.ToUpper(c.SetCode)
			}
			g = &scene.Group{ID: c.SetCode, Title: title}
			byCode[c.SetCode] = g
			groups = append(groups, g)
		}
		g.Cards = append(g.Cards, &scene.Card{ID: c.ID, GroupID: c.SetCode, Height: grid.CardHeight})
	}

	var rows []layoutRow
	y := 0
	for gi, g := range groups {
		if gi > 0 {
			y++
		}
		rows = append(rows, layoutRow{top: y, height: 1, group: g})
		y++
		for start := 0; start < len(g.Cards); start += cols {
			end := start + cols
			if end > len(g.Cards) {
				end = len(g.Cards)
			}
			band := g.Cards[start:end]
			for i, c := range band {
				c.Top = y
				c.Left = i * (grid.CardWidth + grid.Gap)
			}
			rows = append(rows, layoutRow{top: y, height: grid.CardHeight, group: g, cards: band})
			y += grid.CardHeight
			if end < len(g.Cards) {
				y += rowGap
			}
		}
	}
	return groups, rows, y
}

// relayout mounts the current catalog into the scene and reconciles the
// dispatcher's handlers with what appeared and disappeared.
func (m *Model) relayout() {
	groups, rows, total := buildLayout(m.catalog, m.grid, m.width)
	mounted, unmounted := m.scene.Mount(groups)
	for _, id := range unmounted {
		m.dispatch.Unregister(id)
	}
	for _, id := range mounted {
		m.register(id)
	}
	m.rows = rows
	m.view.total = total
	m.view.height = m.bodyHeight()
	m.view.clamp()
	if id, ok := m.sel.Selected(); ok {
		if card, ok := m.scene.Card(id); ok {
			m.view.Reveal(card)
		}
	}
	m.cache.invalidate()
}

func (m *Model) register(cardID string) {
	card, ok := m.cardIndex[cardID]
	if !ok {
		return
	}
	repo := m.cfg.Collection
	source := m.entry.Source
	stats := m.stats
	h := dispatch.Handler{
		CardID:   cardID,
		Finishes: card.AvailableFinishes(),
		OnFlashInvalid: func() {
			stats.invalid++
		},
	}
	if repo != nil {
		h.OnSubmit = func(ctx context.Context, u collection.Update) error {
			_, err := repo.Apply(ctx, u, source)
			return err
		}
	}
	m.dispatch.Register(h)
}

// bodyHeight is the number of rows left for the grid.
func (m *Model) bodyHeight() int {
	h := m.height - 2
	if m.searchVisible() {
		h--
	}
	if h < 1 {
		h = 1
	}
	return h
}

func (m *Model) applyWindowSize(width, height int) {
	m.width = maxInt(width, 0)
	m.height = maxInt(height, 0)
	m.search.Width = maxInt(width-6, 10)
	m.ready = true
	m.relayout()
}

func (m *Model) groupSummary(g *scene.Group) string {
	owned := 0
	for _, c := range g.Cards {
		if m.owned[c.ID] > 0 {
			owned++
		}
	}
	parts := []string{fmt.Sprintf("%s · %d/%d owned", strings.ToUpper(g.ID), owned, len(g.Cards))}
	if set, ok := m.sets[g.ID]; ok && set.ReleasedAt != "" {
		parts = append(parts, set.ReleasedAt)
	}
	return strings.Join(parts, " · ")
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
