package ui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/cardvault/internal/scene"
)

func (m *Model) searchVisible() bool {
	return m.scene.FocusIsInput() || m.filter != ""
}

func (m *Model) focusSearch() tea.Cmd {
	m.dispatch.Cancel()
	m.scene.SetFocus(scene.Focus{Kind: scene.FocusInput, ID: searchFocusID})
	m.view.height = m.bodyHeight()
	return m.search.Focus()
}

// blurSearch hands focus back to the selected card, if any.
func (m *Model) blurSearch() {
	m.search.Blur()
	m.scene.Blur()
	if id, ok := m.sel.Selected(); ok {
		m.scene.SetFocus(scene.Focus{Kind: scene.FocusCard, ID: id})
	}
	m.view.height = m.bodyHeight()
	m.view.clamp()
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.search.SetValue("")
		m.blurSearch()
		m.applyFilter("")
		return nil
	case tea.KeyEnter:
		m.blurSearch()
		if !m.hasSelection() {
			m.nav.First()
		}
		return nil
	case tea.KeyCtrlC:
		return tea.Quit
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := strings.TrimSpace(m.search.Value()); value != m.filter {
		m.applyFilter(value)
	}
	return cmd
}

func (m *Model) hasSelection() bool {
	_, ok := m.sel.Selected()
	return ok
}

// applyFilter reloads the catalog for query and remounts the grid.
func (m *Model) applyFilter(query string) {
	m.filter = query
	if err := m.loadCatalog(context.Background()); err != nil {
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("search error: %v", err), level: statusError})
		return
	}
	m.relayout()
	if query != "" {
		m.setStatusMessage(statusMsg{text: fmt.Sprintf("%d matching printings", len(m.catalog)), level: statusInfo})
	}
}
