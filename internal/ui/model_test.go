package ui

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/config"
	"github.com/unkn0wn-root/cardvault/internal/dispatch"
	"github.com/unkn0wn-root/cardvault/internal/gridnav"
	"github.com/unkn0wn-root/cardvault/internal/storage"
)

func testCards() []storage.Card {
	return []storage.Card{
		{ID: "tst-1", Name: "Lightning Bolt", SetCode: "tst", SetName: "Test Set", CollectorNumber: "1", Rarity: "common", Finishes: []string{"nonfoil", "foil"}, ReleasedAt: "2024-01-05"},
		{ID: "tst-2", Name: "Counterspell", SetCode: "tst", SetName: "Test Set", CollectorNumber: "2", Rarity: "uncommon", Finishes: []string{"nonfoil"}, ReleasedAt: "2024-01-05"},
		{ID: "tst-3", Name: "Llanowar Elves", SetCode: "tst", SetName: "Test Set", CollectorNumber: "3", Rarity: "common", Finishes: []string{"nonfoil", "foil"}, ReleasedAt: "2024-01-05"},
		{ID: "nxt-1", Name: "Serra Angel", SetCode: "nxt", SetName: "Next Set", CollectorNumber: "1", Rarity: "rare", Finishes: []string{"foil", "etched"}, ReleasedAt: "2024-06-01"},
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	db, err := storage.Open(storage.DefaultConfig(filepath.Join(t.TempDir(), "ui.db")))
	if err != nil {
		t.Fatalf("open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if _, err := db.Cards().UpsertCards(context.Background(), testCards()); err != nil {
		t.Fatalf("seed cards: %v", err)
	}

	m := New(Config{
		Cards:      db.Cards(),
		Collection: db.Collection(),
		Settings:   config.Settings{},
	})
	t.Cleanup(m.Close)
	// Two 24-cell cards fit in 49 columns.
	next, _ := m.Update(tea.WindowSizeMsg{Width: 49, Height: 30})
	return next.(Model)
}

func keyMsgFor(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
}

func press(m Model, keys ...string) (Model, tea.Cmd) {
	var cmd tea.Cmd
	for _, key := range keys {
		var next tea.Model
		next, cmd = m.Update(keyMsgFor(key))
		m = next.(Model)
	}
	return m, cmd
}

func waitOutcome(t *testing.T, m Model) submitResultMsg {
	t.Helper()
	select {
	case out := <-m.submit.Results():
		return submitResultMsg{outcome: out}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for submission")
		return submitResultMsg{}
	}
}

func TestBuildLayoutPositionsCardsByGroup(t *testing.T) {
	grid := config.DefaultGridSettings()
	groups, rows, total := buildLayout(testCards(), grid, 49)
	if len(groups) != 2 || groups[0].ID != "tst" || groups[1].ID != "nxt" {
		t.Fatalf("unexpected groups %+v", groups)
	}
	if cols := gridnav.Columns(groups[0].Cards); cols != 2 {
		t.Fatalf("expected two columns, got %d", cols)
	}
	first, third := groups[0].Cards[0], groups[0].Cards[2]
	if first.Top != 1 || third.Top != 1+grid.CardHeight+1 {
		t.Fatalf("unexpected row offsets %d, %d", first.Top, third.Top)
	}
	if second := groups[0].Cards[1]; second.Left != grid.CardWidth+grid.Gap {
		t.Fatalf("unexpected left offset %d", second.Left)
	}
	// title, two card rows, title, one card row
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	last := rows[len(rows)-1]
	if total != last.top+last.height {
		t.Fatalf("expected total %d, got %d", last.top+last.height, total)
	}
}

func TestColumnsForRespectsMaxColumns(t *testing.T) {
	grid := config.DefaultGridSettings()
	if got := columnsFor(10, grid); got != 1 {
		t.Fatalf("expected at least one column, got %d", got)
	}
	grid.MaxColumns = 3
	if got := columnsFor(500, grid); got != 3 {
		t.Fatalf("expected cap of 3, got %d", got)
	}
}

func TestQuickEntrySubmitsAndRefreshesOwned(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "right")
	if id, _ := m.sel.Selected(); id != "tst-1" {
		t.Fatalf("expected first card selected, got %q", id)
	}

	m, _ = press(m, "3", "f")
	if _, st, ok := m.dispatch.Session(); !ok || st.Count != "3" || st.Finish != collection.FinishFoil {
		t.Fatalf("unexpected session %+v (ok=%v)", st, ok)
	}
	if !strings.Contains(ansi.Strip(m.View()), "+3") {
		t.Fatalf("expected overlay count in view")
	}

	m, _ = press(m, "enter")
	if m.dispatch.Entering() {
		t.Fatalf("expected session reset on submit")
	}

	next, _ := m.Update(waitOutcome(t, m))
	m = next.(Model)
	if m.owned["tst-1"] != 3 {
		t.Fatalf("expected 3 owned copies, got %d", m.owned["tst-1"])
	}
	if m.statusMessage.level != statusSuccess {
		t.Fatalf("expected success status, got %+v", m.statusMessage)
	}
	if phase := m.dispatch.Phase("tst-1"); phase != dispatch.PhaseSuccessFlash {
		t.Fatalf("expected success flash, got %s", phase)
	}
	if len(m.holdings) != 1 || m.holdings[0].Finish != collection.FinishFoil || m.holdings[0].Quantity != 3 {
		t.Fatalf("unexpected holdings %+v", m.holdings)
	}
}

func TestUnavailableFinishFlashesInvalid(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "right", "right")
	if id, _ := m.sel.Selected(); id != "tst-2" {
		t.Fatalf("expected tst-2 selected, got %q", id)
	}
	m, cmd := press(m, "f")
	if cmd == nil {
		t.Fatalf("expected a flash expiry to be scheduled")
	}
	if m.stats.invalid != 1 {
		t.Fatalf("expected invalid callback to fire once, got %d", m.stats.invalid)
	}
	if !m.dispatch.Entering() {
		t.Fatalf("expected rejected finish to open the entry")
	}
}

func TestNavigationDiscardsEntry(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "right", "2", "d")
	if id, _ := m.sel.Selected(); id != "tst-2" {
		t.Fatalf("expected d to move to tst-2, got %q", id)
	}
	if m.dispatch.Entering() {
		t.Fatalf("expected entry discarded on selection change")
	}
	if h, ok := m.overlay.View("tst-1"); ok && h.Visible {
		t.Fatalf("expected overlay hidden on the previous card")
	}
}

func TestEscClearsSelectionWhenIdle(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "right", "5", "esc")
	if _, ok := m.sel.Selected(); !ok {
		t.Fatalf("expected esc to only cancel the entry")
	}
	m, _ = press(m, "esc")
	if _, ok := m.sel.Selected(); ok {
		t.Fatalf("expected second esc to clear the selection")
	}
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	switch msg := cmd().(type) {
	case tea.QuitMsg:
		return true
	case tea.BatchMsg:
		for _, c := range msg {
			if isQuit(c) {
				return true
			}
		}
	}
	return false
}

func TestQuitIsBlockedWhileEntering(t *testing.T) {
	m := newTestModel(t)
	m, cmd := press(m, "right", "4", "q")
	if isQuit(cmd) {
		t.Fatalf("expected q to be ignored while entering")
	}
	if !m.dispatch.Entering() {
		t.Fatalf("expected entry to stay open")
	}
	_, cmd = press(m, "ctrl+c")
	if !isQuit(cmd) {
		t.Fatalf("expected ctrl+c to quit")
	}
}

func TestSearchFiltersAndCapturesKeys(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "/")
	if !m.scene.FocusIsInput() {
		t.Fatalf("expected search to take focus")
	}
	m, _ = press(m, "s", "e", "r", "r", "a")
	if len(m.catalog) != 1 || m.catalog[0].ID != "nxt-1" {
		t.Fatalf("expected one match, got %+v", m.catalog)
	}
	if m.scene.Len() != 1 {
		t.Fatalf("expected only the match mounted, got %d", m.scene.Len())
	}
	if m.dispatch.Entering() {
		t.Fatalf("expected typing in search to bypass entry")
	}

	m, _ = press(m, "enter")
	if id, _ := m.sel.Selected(); id != "nxt-1" {
		t.Fatalf("expected enter to select the first match, got %q", id)
	}
	m, _ = press(m, "2")
	if !m.dispatch.Entering() {
		t.Fatalf("expected entry once search lost focus")
	}

	m, _ = press(m, "esc", "/", "esc")
	if m.filter != "" || m.scene.Len() != len(testCards()) {
		t.Fatalf("expected esc in search to clear the filter, got %q with %d cards", m.filter, m.scene.Len())
	}
}

func TestCachedCardsAreReused(t *testing.T) {
	m := newTestModel(t)
	_ = m.View()
	before := m.cache.hits
	_ = m.View()
	if m.cache.hits <= before {
		t.Fatalf("expected second frame to reuse cached cards")
	}

	m, _ = press(m, "right", "7")
	view := ansi.Strip(m.View())
	if !strings.Contains(view, "+7") {
		t.Fatalf("expected overlay to render from its handle")
	}
	cached, ok := m.cache.entries["tst-1"]
	if !ok || cached.selected || strings.Contains(cached.out, "+7") {
		t.Fatalf("expected keystrokes to leave the cached tier untouched")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "?")
	if !m.showHelp || !strings.Contains(ansi.Strip(m.View()), "Quick entry") {
		t.Fatalf("expected help overlay")
	}
	m, _ = press(m, "esc")
	if m.showHelp {
		t.Fatalf("expected esc to close help")
	}
}

func TestEscClosingHelpCancelsEntry(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "right", "7", "?")
	if !m.showHelp || !m.dispatch.Entering() {
		t.Fatalf("expected help open over an open entry")
	}
	m, _ = press(m, "esc")
	if m.showHelp {
		t.Fatalf("expected esc to close help")
	}
	if m.dispatch.Entering() {
		t.Fatalf("expected esc to discard the entry")
	}
	if h, ok := m.overlay.View("tst-1"); ok && h.Visible {
		t.Fatalf("expected overlay hidden")
	}
	m, _ = press(m, "enter")
	if n := m.submit.InFlight("tst-1"); n != 0 {
		t.Fatalf("expected nothing submitted, %d in flight", n)
	}
	select {
	case out := <-m.submit.Results():
		t.Fatalf("expected no submission, got %+v", out)
	case <-time.After(100 * time.Millisecond):
	}
	if m.owned["tst-1"] != 0 {
		t.Fatalf("expected no copies recorded, got %d", m.owned["tst-1"])
	}
}

func TestShiftedNavigationKeysMove(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(m, "D", "D")
	if id, _ := m.sel.Selected(); id != "tst-2" {
		t.Fatalf("expected D to move right, got %q", id)
	}
}
