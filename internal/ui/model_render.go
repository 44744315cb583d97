package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/unkn0wn-root/cardvault/internal/bindings"
	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/overlay"
	"github.com/unkn0wn-root/cardvault/internal/scene"
	"github.com/unkn0wn-root/cardvault/internal/storage"
)

// cardCache holds the declarative render of every card that has no live
// overlay. An entry is reused while the inputs it was rendered from match.
type cardCache struct {
	entries map[string]cachedCard
	hits    int
}

type cachedCard struct {
	selected bool
	owned    int
	out      string
}

func newCardCache() *cardCache {
	return &cardCache{entries: make(map[string]cachedCard)}
}

func (c *cardCache) invalidate() {
	clear(c.entries)
}

func (c *cardCache) get(id string, selected bool, owned int, render func() string) string {
	if e, ok := c.entries[id]; ok && e.selected == selected && e.owned == owned {
		c.hits++
		return e.out
	}
	out := render()
	c.entries[id] = cachedCard{selected: selected, owned: owned, out: out}
	return out
}

func (m Model) View() string {
	if !m.ready {
		return "Initialising..."
	}
	sections := []string{m.renderHeader()}
	if m.searchVisible() {
		sections = append(sections, m.renderSearchPrompt())
	}
	if m.showHelp {
		sections = append(sections, m.renderHelpOverlay())
	} else {
		sections = append(sections, m.renderBody())
	}
	sections = append(sections, m.renderStatusBar())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	title := m.theme.HeaderTitle.Render("cardvault")
	if v := strings.TrimSpace(m.cfg.Version); v != "" {
		title += " " + m.theme.GroupMeta.Render(v)
	}
	stats := m.theme.HeaderValue.Render(fmt.Sprintf(
		"%d printings · %d sets · %d owned · %d copies",
		len(m.catalog), len(m.rowsGroups()), m.totals.Cards, m.totals.Copies,
	))
	line := title + "  " + stats
	if m.stats.submitted > 0 || m.stats.invalid > 0 {
		line += m.theme.GroupMeta.Render(fmt.Sprintf("  session: %d sent, %d failed, %d invalid keys",
			m.stats.submitted, m.stats.failed, m.stats.invalid))
	}
	return m.theme.Header.Width(maxInt(m.width, 1)).MaxHeight(1).Render(line)
}

func (m Model) rowsGroups() []*scene.Group {
	var out []*scene.Group
	for _, row := range m.rows {
		if row.isTitle() {
			out = append(out, row.group)
		}
	}
	return out
}

func (m Model) renderSearchPrompt() string {
	return m.theme.SearchPrompt.Render(m.search.View())
}

// renderBody draws the rows that intersect the viewport. Cards come from
// the cache unless they carry an overlay, a flash or a pending marker.
func (m Model) renderBody() string {
	h := m.view.height
	lines := make([]string, h)
	if len(m.rows) == 0 {
		lines[0] = m.theme.Empty.Render("No cards to show.")
		return strings.Join(lines, "\n")
	}
	off := m.view.offset
	for _, row := range m.rows {
		if row.top+row.height <= off {
			continue
		}
		if row.top >= off+h {
			break
		}
		block := m.renderRow(row)
		for i, line := range strings.Split(block, "\n") {
			y := row.top + i - off
			if y >= 0 && y < h {
				lines[y] = line
			}
		}
	}
	return strings.Join(lines, "\n")
}

func (m Model) renderRow(row layoutRow) string {
	if row.isTitle() {
		title := m.theme.GroupTitle.Render(row.group.Title)
		meta := m.theme.GroupMeta.Render(m.groupSummary(row.group))
		return truncateStyled(title+"  "+meta, m.width)
	}
	gap := strings.Repeat(" ", m.grid.Gap)
	blocks := make([]string, 0, len(row.cards)*2)
	for i, c := range row.cards {
		if i > 0 {
			blocks = append(blocks, gap)
		}
		blocks = append(blocks, m.renderCard(c))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, blocks...)
}

func (m Model) renderCard(c *scene.Card) string {
	card := m.cardIndex[c.ID]
	handle, live := m.overlay.View(c.ID)
	flash := m.overlay.Flashing(c.ID)
	switch {
	case live && handle.Visible:
		return m.renderOverlayCard(card, handle, flash)
	case flash != overlay.FlashNone || (live && handle.Pending > 0):
		return m.renderCardBox(card, c.Selected, m.borderFor(flash, live && handle.Pending > 0))
	}
	return m.cache.get(c.ID, c.Selected, m.owned[c.ID], func() string {
		return m.renderCardBox(card, c.Selected, "")
	})
}

func (m Model) borderFor(flash overlay.FlashKind, pending bool) lipgloss.Color {
	switch flash {
	case overlay.FlashInvalid:
		return m.theme.Flash.Invalid
	case overlay.FlashSuccess:
		return m.theme.Flash.Success
	case overlay.FlashError:
		return m.theme.Flash.Error
	}
	if pending {
		return m.theme.Flash.Pending
	}
	return ""
}

func (m Model) cardFrame(selected bool, border lipgloss.Color) lipgloss.Style {
	style := m.theme.Card
	if selected {
		style = m.theme.CardSelected
	}
	if border != "" {
		style = style.BorderForeground(border)
	}
	return style.
		Width(maxInt(m.grid.CardWidth-2, 1)).
		Height(maxInt(m.grid.CardHeight-2, 1)).
		MaxHeight(m.grid.CardHeight)
}

func (m Model) innerWidth() int {
	return maxInt(m.grid.CardWidth-4, 1)
}

func (m Model) renderCardBox(card storage.Card, selected bool, border lipgloss.Color) string {
	w := m.innerWidth()
	rarity := lipgloss.NewStyle().Foreground(m.theme.Rarity.For(card.Rarity))
	lines := []string{
		m.theme.CardTitle.Render(runewidth.Truncate(card.Name, w, "…")),
		m.theme.CardMeta.Render(runewidth.Truncate("#"+card.CollectorNumber, w/2, "…")) +
			" " + rarity.Render(runewidth.Truncate(card.Rarity, w-w/2-1, "")),
	}
	if n := m.owned[card.ID]; n > 0 {
		lines = append(lines, m.theme.CardOwned.Render(fmt.Sprintf("owned %d", n)))
	} else {
		lines = append(lines, m.theme.Empty.Render("-"))
	}
	lines = append(lines, m.theme.CardMeta.Render(runewidth.Truncate(finishLabel(card.AvailableFinishes()), w, "…")))
	return m.cardFrame(selected, border).Render(fitLines(lines, m.grid.CardHeight-2))
}

// renderOverlayCard draws the live entry for a card from its overlay handle.
func (m Model) renderOverlayCard(card storage.Card, h overlay.Handle, flash overlay.FlashKind) string {
	w := m.innerWidth()
	st := h.State
	count := st.Count
	if count == "" {
		count = "_"
	}
	if st.IsNegative {
		count = "-" + count
	} else {
		count = "+" + count
	}
	label := st.Finish.String()
	if st.Special != collection.SpecialNone {
		label += " " + st.Special.String()
	}
	lines := []string{
		m.theme.OverlayLabel.Render(runewidth.Truncate(card.Name, w, "…")),
		m.theme.OverlayCount.Render(count),
		m.theme.OverlayLabel.Render(runewidth.Truncate(label, w, "…")),
	}
	switch {
	case h.Invalid:
		lines = append(lines, m.theme.OverlayInvalid.Render("invalid"))
	case h.Pending > 0:
		lines = append(lines, m.theme.OverlayLabel.Render(fmt.Sprintf("saving %d", h.Pending)))
	}

	border := m.borderFor(flash, h.Pending > 0)
	style := m.theme.Overlay.
		BorderStyle(lipgloss.ThickBorder()).
		BorderForeground(m.theme.Flash.Pending)
	if border != "" {
		style = style.BorderForeground(border)
	}
	return style.
		Width(maxInt(m.grid.CardWidth-2, 1)).
		Height(maxInt(m.grid.CardHeight-2, 1)).
		MaxHeight(m.grid.CardHeight).
		Render(fitLines(lines, m.grid.CardHeight-2))
}

func finishLabel(fs collection.Finishes) string {
	names := make([]string, len(fs))
	for i, f := range fs {
		names[i] = f.String()
	}
	return strings.Join(names, "/")
}

// fitLines keeps at most n lines, dropping from the end.
func fitLines(lines []string, n int) string {
	if n < 1 {
		n = 1
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func truncateStyled(s string, width int) string {
	if width <= 0 {
		return s
	}
	return ansi.Truncate(s, width, "…")
}

func (m Model) renderStatusBar() string {
	lineWidth := maxInt(m.width-2, 1)
	right := m.theme.StatusBarValue.Render(m.selectionSummary())
	rightWidth := lipgloss.Width(right)
	leftWidth := lineWidth - rightWidth - 1
	if leftWidth < 0 {
		leftWidth = 0
	}
	text := runewidth.Truncate(m.statusMessage.text, leftWidth, "…")
	left := m.statusStyle(m.statusMessage.level).Render(text)
	gap := lineWidth - lipgloss.Width(left) - rightWidth
	if gap < 1 {
		gap = 1
	}
	return m.theme.StatusBar.Render(left + strings.Repeat(" ", gap) + right)
}

type helpEntry struct {
	key  string
	desc string
}

func (m Model) helpActionKey(id bindings.ActionID) string {
	keys := m.bindings.Keys(id)
	if len(keys) == 0 {
		return "unbound"
	}
	return strings.Join(keys, " / ")
}

var entryHelp = []helpEntry{
	{"0-9", "Type a count"},
	{"+ ` / - ~", "Increment / decrement"},
	{"x", "Toggle negative (remove copies)"},
	{"n z / f o / e h", "Non-foil / foil / etched"},
	{"g i / r p / t m", "Signed / artist proof / altered"},
	{"Enter", "Save entry"},
	{"Esc", "Cancel entry, or clear selection"},
}

func (m Model) renderHelpOverlay() string {
	var nav []helpEntry
	for _, id := range bindings.KnownActions() {
		nav = append(nav, helpEntry{key: m.helpActionKey(id), desc: bindings.Help(id)})
	}
	keyWidth := 0
	for _, e := range append(append([]helpEntry{}, nav...), entryHelp...) {
		keyWidth = maxInt(keyWidth, lipgloss.Width(e.key))
	}
	section := func(title string, entries []helpEntry) string {
		rows := []string{m.theme.HeaderTitle.Render(title)}
		for _, e := range entries {
			key := m.theme.HelpKey.Width(keyWidth).Render(e.key)
			rows = append(rows, key+"  "+m.theme.HelpText.Render(e.desc))
		}
		return strings.Join(rows, "\n")
	}
	content := section("Navigation", nav) + "\n\n" + section("Quick entry", entryHelp)
	box := m.theme.HelpBox.Render(content)
	return lipgloss.Place(maxInt(m.width, 1), m.view.height, lipgloss.Center, lipgloss.Center, box)
}
