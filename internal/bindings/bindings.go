package bindings

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/unkn0wn-root/cardvault/internal/input"
)

// ActionID names a bindable grid action.
type ActionID string

// Binding is a matched key and the action it triggers.
type Binding struct {
	Action ActionID
	Key    string
}

// Map resolves key presses to grid actions.
type Map struct {
	byKey    map[string]ActionID
	byAction map[ActionID][]string
}

// fileNames are tried in order; the first one present wins.
var fileNames = []string{"bindings.toml", "bindings.json"}

// Load reads key overrides from dir. Actions missing from the file keep their
// defaults. It returns the file used, or "" when none exists.
func Load(dir string) (*Map, string, error) {
	for _, name := range fileNames {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, path, fmt.Errorf("read bindings %q: %w", path, err)
		}
		overrides, err := decode(data, filepath.Ext(name))
		if err != nil {
			return nil, path, fmt.Errorf("parse bindings %q: %w", path, err)
		}
		m, err := build(overrides)
		if err != nil {
			return nil, path, fmt.Errorf("bindings %q: %w", path, err)
		}
		return m, path, nil
	}
	return DefaultMap(), "", nil
}

// DefaultMap returns the built-in bindings.
func DefaultMap() *Map {
	m, err := build(nil)
	if err != nil {
		panic(fmt.Sprintf("bindings: invalid defaults: %v", err))
	}
	return m
}

// Match looks up the action bound to k. A shifted letter with no binding of
// its own falls back to the plain letter. Pastes never match.
func (m *Map) Match(k input.Key) (Binding, bool) {
	if m == nil || k.Paste {
		return Binding{}, false
	}
	key := k.String()
	if id, ok := m.byKey[key]; ok {
		return Binding{Action: id, Key: key}, true
	}
	if k.Shift && !k.Modified() && unicode.IsLetter(k.Rune) {
		plain := input.Rune(unicode.ToLower(k.Rune))
		if id, ok := m.byKey[plain.String()]; ok {
			return Binding{Action: id, Key: plain.String()}, true
		}
	}
	return Binding{}, false
}

// Keys returns the keys bound to action in configured order.
func (m *Map) Keys(action ActionID) []string {
	if m == nil {
		return nil
	}
	return append([]string(nil), m.byAction[action]...)
}

// KnownActions returns every action identifier, sorted.
func KnownActions() []ActionID {
	ids := make([]ActionID, 0, len(definitions))
	for _, def := range definitions {
		ids = append(ids, def.id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func decode(data []byte, ext string) (map[ActionID][]string, error) {
	var doc struct {
		Bindings map[string][]string `json:"bindings" toml:"bindings"`
	}
	var err error
	switch ext {
	case ".toml":
		err = toml.Unmarshal(data, &doc)
	case ".json":
		if len(bytes.TrimSpace(data)) > 0 {
			err = json.Unmarshal(data, &doc)
		}
	default:
		err = fmt.Errorf("unsupported file type %q", ext)
	}
	if err != nil {
		return nil, err
	}

	out := make(map[ActionID][]string, len(doc.Bindings))
	for name, specs := range doc.Bindings {
		id := ActionID(name)
		if _, ok := definitionLookup[id]; !ok {
			return nil, fmt.Errorf("unknown action %q", name)
		}
		keys := make([]string, 0, len(specs))
		for _, spec := range specs {
			k, err := ParseKey(spec)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", name, err)
			}
			if reserved(k) {
				return nil, fmt.Errorf("%s: %q is a quick-entry key", name, spec)
			}
			keys = append(keys, k.String())
		}
		out[id] = keys
	}
	return out, nil
}

func build(overrides map[ActionID][]string) (*Map, error) {
	m := &Map{
		byKey:    make(map[string]ActionID),
		byAction: make(map[ActionID][]string, len(definitions)),
	}
	var errs error
	for _, id := range KnownActions() {
		keys, ok := overrides[id]
		if !ok {
			keys = definitionLookup[id].defaults
		}
		for _, spec := range keys {
			k, err := ParseKey(spec)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("%s: %w", id, err))
				continue
			}
			key := k.String()
			if owner, taken := m.byKey[key]; taken {
				if owner != id {
					errs = errors.Join(errs, fmt.Errorf("%q bound to both %s and %s", key, owner, id))
				}
				continue
			}
			m.byKey[key] = id
			m.byAction[id] = append(m.byAction[id], key)
		}
	}
	if errs != nil {
		return nil, errs
	}
	return m, nil
}

// ParseKey reads a key spec such as "k", "K", "ctrl+u", "shift+tab" or
// "space" into the form input.FromTea produces for the same press.
func ParseKey(spec string) (input.Key, error) {
	spec = strings.TrimSpace(spec)
	switch spec {
	case "":
		return input.Key{}, errors.New("empty key")
	case "+":
		return input.Rune('+'), nil
	}
	if utf8.RuneCountInString(spec) == 1 {
		r, _ := utf8.DecodeRuneInString(spec)
		return input.Rune(r), nil
	}

	var k input.Key
	parts := strings.Split(spec, "+")
	code := strings.ToLower(strings.TrimSpace(parts[len(parts)-1]))
	for _, mod := range parts[:len(parts)-1] {
		switch strings.ToLower(strings.TrimSpace(mod)) {
		case "ctrl", "control":
			k.Ctrl = true
		case "alt", "option":
			k.Alt = true
		case "shift":
			k.Shift = true
		case "cmd", "command", "meta":
			k.Meta = true
		default:
			return input.Key{}, fmt.Errorf("key %q: unknown modifier %q", spec, mod)
		}
	}
	switch code {
	case "":
		return input.Key{}, fmt.Errorf("key %q: missing key", spec)
	case "escape":
		code = "esc"
	case "return":
		code = "enter"
	}
	k.Code = code
	if r, size := utf8.DecodeRuneInString(code); size == len(code) && !k.Ctrl {
		// "alt+x" arrives as a rune press, "ctrl+x" as a named one
		k.Rune = r
	}
	return k, nil
}

// reserved reports keys the quick-entry engine consumes before bindings run.
func reserved(k input.Key) bool {
	if k.Modified() {
		return false
	}
	if k.Code == "enter" || k.Code == "esc" {
		return true
	}
	return k.Rune != 0 && strings.ContainsRune("0123456789+`-~xznfoehgirptm", k.Lower())
}
