package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/unkn0wn-root/cardvault/internal/collection"
	"github.com/unkn0wn-root/cardvault/internal/storage"
)

func (m *Model) setStatusMessage(msg statusMsg) {
	m.statusMessage = msg
}

func (m Model) statusStyle(level statusLevel) lipgloss.Style {
	switch level {
	case statusError:
		return m.theme.Error
	case statusSuccess:
		return m.theme.Success
	case statusWarn:
		return m.theme.StatusBarKey
	default:
		return m.theme.StatusBarValue
	}
}

// selectionSummary describes the selected card for the right side of the
// status bar.
func (m Model) selectionSummary() string {
	id, ok := m.sel.Selected()
	if !ok {
		return ""
	}
	card, ok := m.cardIndex[id]
	if !ok {
		return ""
	}
	parts := []string{card.Name, m.dispatch.Phase(id).String()}
	if _, st, entering := m.dispatch.Session(); entering {
		parts = append(parts, st.Update(id).String())
	} else if m.holdingsFor == id {
		if held := formatHoldings(m.holdings); held != "" {
			parts = append(parts, held)
		}
	}
	return strings.Join(parts, " · ")
}

func formatHoldings(holdings []storage.Holding) string {
	if len(holdings) == 0 {
		return "not owned"
	}
	out := make([]string, 0, len(holdings))
	for _, h := range holdings {
		label := h.Finish.String()
		if h.Special != collection.SpecialNone {
			label += " " + h.Special.String()
		}
		out = append(out, fmt.Sprintf("%d %s", h.Quantity, label))
	}
	return strings.Join(out, ", ")
}
