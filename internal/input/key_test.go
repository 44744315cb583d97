package input

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestFromTea(t *testing.T) {
	cases := []struct {
		name string
		msg  tea.KeyMsg
		want string
		mod  bool
	}{
		{name: "digit", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'5'}}, want: "5"},
		{name: "upper", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'F'}}, want: "shift+f"},
		{name: "tilde", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'~'}}, want: "~"},
		{name: "enter", msg: tea.KeyMsg{Type: tea.KeyEnter}, want: "enter"},
		{name: "shift tab", msg: tea.KeyMsg{Type: tea.KeyShiftTab}, want: "shift+tab"},
		{name: "ctrl c", msg: tea.KeyMsg{Type: tea.KeyCtrlC}, want: "ctrl+c", mod: true},
		{name: "alt rune", msg: tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'f'}, Alt: true}, want: "alt+f", mod: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			k := FromTea(tc.msg)
			if got := k.String(); got != tc.want {
				t.Fatalf("expected %q, got %q (%+v)", tc.want, got, k)
			}
			if k.Modified() != tc.mod {
				t.Fatalf("expected modified=%v, got %v", tc.mod, k.Modified())
			}
		})
	}
}

func TestFromTeaMultiRuneIsPaste(t *testing.T) {
	k := FromTea(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("abc")})
	if !k.Paste {
		t.Fatalf("expected multi-rune input to be treated as paste")
	}
}
