package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/unkn0wn-root/cardvault/internal/overlay"
	"github.com/unkn0wn-root/cardvault/internal/submit"
)

type statusLevel int

const (
	statusInfo statusLevel = iota
	statusWarn
	statusError
	statusSuccess
)

type statusMsg struct {
	text  string
	level statusLevel
}

// flashExpireMsg ends the flash started with the same sequence number.
type flashExpireMsg struct {
	cardID string
	seq    int
}

type submitResultMsg struct {
	outcome submit.Outcome
}

func flashExpireCmd(exp overlay.Expiry) tea.Cmd {
	if exp.CardID == "" || exp.After <= 0 {
		return nil
	}
	return tea.Tick(exp.After, func(time.Time) tea.Msg {
		return flashExpireMsg{cardID: exp.CardID, seq: exp.Seq}
	})
}

func nextSubmitResultCmd(ch <-chan submit.Outcome) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		out, ok := <-ch
		if !ok {
			return nil
		}
		return submitResultMsg{outcome: out}
	}
}
