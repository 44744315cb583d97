package input

import (
	"strings"
	"unicode"

	tea "github.com/charmbracelet/bubbletea"
)

// Key is a single key press as seen by the grid and entry engines.
// Code is a named key ("enter", "esc", "tab", "up", ...) or the typed rune.
type Key struct {
	Code  string
	Rune  rune
	Shift bool
	Ctrl  bool
	Alt   bool
	Meta  bool
	Paste bool
}

// Rune builds a plain printable key press.
func Rune(r rune) Key {
	return Key{Code: string(r), Rune: r, Shift: unicode.IsUpper(r)}
}

// Named builds a non-printable key press such as "enter" or "up".
func Named(code string) Key {
	return Key{Code: code}
}

// FromTea converts a bubbletea key message.
func FromTea(msg tea.KeyMsg) Key {
	k := Key{Alt: msg.Alt, Paste: msg.Paste}
	switch msg.Type {
	case tea.KeySpace:
		k.Code = "space"
		k.Rune = ' '
		return k
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			k.Code = string(msg.Runes)
			k.Paste = true
			return k
		}
		r := msg.Runes[0]
		k.Rune = r
		k.Code = string(r)
		k.Shift = unicode.IsUpper(r)
		return k
	}

	s := strings.TrimPrefix(msg.String(), "alt+")
	for {
		switch {
		case strings.HasPrefix(s, "ctrl+"):
			k.Ctrl = true
			s = strings.TrimPrefix(s, "ctrl+")
			continue
		case strings.HasPrefix(s, "shift+"):
			k.Shift = true
			s = strings.TrimPrefix(s, "shift+")
			continue
		}
		break
	}
	k.Code = s
	return k
}

// Modified reports whether a modifier other than Shift is held.
func (k Key) Modified() bool {
	return k.Ctrl || k.Alt || k.Meta
}

// Lower returns the lower-cased rune, or 0 for named keys.
func (k Key) Lower() rune {
	if k.Rune == 0 {
		return 0
	}
	return unicode.ToLower(k.Rune)
}

// String renders the key in the canonical "ctrl+alt+shift+cmd+key" form used by bindings.
func (k Key) String() string {
	code := k.Code
	shift := k.Shift
	if k.Rune != 0 && k.Rune != ' ' {
		if unicode.IsLetter(k.Rune) {
			code = string(unicode.ToLower(k.Rune))
		} else {
			// shifted symbols already carry the modifier in the rune
			shift = false
		}
	}
	parts := make([]string, 0, 5)
	if k.Ctrl {
		parts = append(parts, "ctrl")
	}
	if k.Alt {
		parts = append(parts, "alt")
	}
	if shift {
		parts = append(parts, "shift")
	}
	if k.Meta {
		parts = append(parts, "cmd")
	}
	return strings.Join(append(parts, code), "+")
}
