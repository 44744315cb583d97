package ui

import (
	"context"
	"fmt"
	"log"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/cardvault/internal/bindings"
	"github.com/unkn0wn-root/cardvault/internal/entry"
	"github.com/unkn0wn-root/cardvault/internal/gridnav"
	"github.com/unkn0wn-root/cardvault/internal/input"
	"github.com/unkn0wn-root/cardvault/internal/overlay"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.applyWindowSize(typed.Width, typed.Height)
	case tea.KeyMsg:
		if cmd := m.handleKey(typed); cmd != nil {
			cmds = append(cmds, cmd)
		}
	case statusMsg:
		m.setStatusMessage(typed)
	case flashExpireMsg:
		m.overlay.Expire(typed.cardID, typed.seq)
	case submitResultMsg:
		if cmd := m.handleSubmitResult(typed); cmd != nil {
			cmds = append(cmds, cmd)
		}
		cmds = append(cmds, nextSubmitResultCmd(m.submit.Results()))
	}

	m.syncHoldings()
	return m, tea.Batch(cmds...)
}

// handleKey routes a key press: the search box when it has focus, then the
// selected card's entry, then the navigation bindings.
func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.scene.FocusIsInput() {
		return m.handleSearchKey(msg)
	}
	if m.showHelp && msg.Type == tea.KeyEsc {
		m.showHelp = false
		if m.dispatch.Entering() {
			m.dispatch.Cancel()
			m.setStatusMessage(statusMsg{text: "Entry cancelled", level: statusInfo})
		}
		return nil
	}

	key := input.FromTea(msg)
	res := m.dispatch.HandleKey(key)
	if res.Handled {
		return m.applyEntryResult(res.Action, res.Expiries, res.Ticket != nil)
	}

	if binding, ok := m.bindings.Match(key); ok {
		return m.runAction(binding)
	}

	if msg.Type == tea.KeyEsc {
		m.sel.ClearAll()
	}
	return nil
}

func (m *Model) applyEntryResult(action entry.Action, expiries []overlay.Expiry, submitted bool) tea.Cmd {
	var cmds []tea.Cmd
	for _, exp := range expiries {
		if cmd := flashExpireCmd(exp); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	switch action {
	case entry.ActionRejected:
		m.setStatusMessage(statusMsg{text: "Finish not available for this printing", level: statusWarn})
	case entry.ActionSubmit:
		if submitted {
			m.stats.submitted++
			m.setStatusMessage(statusMsg{text: "Saving...", level: statusInfo})
		} else {
			m.setStatusMessage(statusMsg{text: "Nothing to save", level: statusInfo})
		}
	case entry.ActionCancel:
		m.setStatusMessage(statusMsg{text: "Entry cancelled", level: statusInfo})
	}
	return tea.Batch(cmds...)
}

func (m *Model) runAction(binding bindings.Binding) tea.Cmd {
	switch binding.Action {
	case bindings.ActionMoveUp:
		m.nav.Move(gridnav.Up)
	case bindings.ActionMoveDown:
		m.nav.Move(gridnav.Down)
	case bindings.ActionMoveLeft:
		m.nav.Move(gridnav.Left)
	case bindings.ActionMoveRight:
		m.nav.Move(gridnav.Right)
	case bindings.ActionMoveNext:
		m.nav.Move(gridnav.Next)
	case bindings.ActionMovePrev:
		m.nav.Move(gridnav.Prev)
	case bindings.ActionScrollTop:
		m.nav.First()
	case bindings.ActionScrollBottom:
		m.nav.Last()
	case bindings.ActionClearSelect:
		m.sel.ClearAll()
	case bindings.ActionToggleHelp:
		m.showHelp = !m.showHelp
	case bindings.ActionFocusSearch:
		return m.focusSearch()
	case bindings.ActionQuit:
		// Plain keys cannot quit while an entry is open.
		if m.dispatch.Entering() && !isChord(binding.Key) {
			return nil
		}
		return tea.Quit
	}
	return nil
}

func (m *Model) handleSubmitResult(msg submitResultMsg) tea.Cmd {
	out := msg.outcome
	exp := m.submit.Resolve(out)
	u := out.Ticket.Update
	name := u.CardID
	if card, ok := m.cardIndex[u.CardID]; ok {
		name = card.Name
	}

	if !out.OK() {
		m.stats.failed++
		log.Printf("submit %s (%s) failed: %v", out.Ticket.ID, u, out.Err)
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("Save failed for %s: %v", name, out.Err), level: statusError})
		return flashExpireCmd(exp)
	}

	if err := m.refreshCollection(context.Background()); err != nil {
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("collection error: %v", err), level: statusError})
		return flashExpireCmd(exp)
	}
	m.setStatusMessage(statusMsg{
		text:  fmt.Sprintf("Saved %s %s (%d owned)", u, name, m.owned[u.CardID]),
		level: statusSuccess,
	})
	return flashExpireCmd(exp)
}

func isChord(key string) bool {
	return strings.HasPrefix(key, "ctrl+") || strings.HasPrefix(key, "alt+")
}
