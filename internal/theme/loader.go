package theme

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

	toml "github.com/pelletier/go-toml/v2"
)

const DefaultKey = "default"

// Definition is one selectable theme.
type Definition struct {
	Key    string
	Name   string
	Author string
	Theme  Theme
	// Path is empty for the built-in theme.
	Path string
}

// Catalog maps theme keys to definitions. The built-in theme is always present.
type Catalog struct {
	defs map[string]Definition
}

func builtinDefinition() Definition {
	return Definition{Key: DefaultKey, Name: "Default", Theme: DefaultTheme()}
}

// Keys lists the theme keys with the built-in theme first.
func (c Catalog) Keys() []string {
	keys := make([]string, 0, len(c.defs))
	for k := range c.defs {
		if k != DefaultKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return append([]string{DefaultKey}, keys...)
}

func (c Catalog) Len() int {
	if c.defs == nil {
		return 1
	}
	return len(c.defs)
}

func (c Catalog) Get(key string) (Definition, bool) {
	key = strings.ToLower(strings.TrimSpace(key))
	if key == DefaultKey {
		if def, ok := c.defs[key]; ok {
			return def, true
		}
		return builtinDefinition(), true
	}
	def, ok := c.defs[key]
	return def, ok
}

// Resolve returns the theme stored under key. An empty or unknown key gives
// the built-in theme; ok is false only for an unknown key.
func (c Catalog) Resolve(key string) (Definition, bool) {
	if strings.TrimSpace(key) == "" {
		def, _ := c.Get(DefaultKey)
		return def, true
	}
	if def, ok := c.Get(key); ok {
		return def, true
	}
	def, _ := c.Get(DefaultKey)
	return def, false
}

// LoadCatalog reads *.toml and *.json themes from dirs. A theme is keyed by
// its file name; a later directory overrides an earlier one. Broken files are
// reported and skipped, the rest of the catalog is still returned.
func LoadCatalog(dirs []string) (Catalog, error) {
	c := Catalog{defs: map[string]Definition{DefaultKey: builtinDefinition()}}
	var errs error
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = errors.Join(errs, fmt.Errorf("themes: read %q: %w", dir, err))
			continue
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			def, ok, err := loadThemeFile(path)
			if err != nil {
				errs = errors.Join(errs, fmt.Errorf("themes: load %q: %w", path, err))
				continue
			}
			if ok {
				c.defs[def.Key] = def
			}
		}
	}
	return c, errs
}

// loadThemeFile returns ok=false for files that are not themes.
func loadThemeFile(path string) (Definition, bool, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".toml" && ext != ".json" {
		return Definition{}, false, nil
	}
	key := themeKey(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
	if key == "" || key == DefaultKey {
		return Definition{}, false, fmt.Errorf("invalid theme name %q", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, false, err
	}
	var spec ThemeSpec
	if ext == ".json" {
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&spec)
	} else {
		err = toml.Unmarshal(data, &spec)
	}
	if err != nil {
		return Definition{}, false, err
	}
	th, err := ApplySpec(DefaultTheme(), spec)
	if err != nil {
		return Definition{}, false, err
	}

	def := Definition{Key: key, Theme: th, Path: path}
	if spec.Metadata != nil {
		def.Name = strings.TrimSpace(spec.Metadata.Name)
		def.Author = strings.TrimSpace(spec.Metadata.Author)
	}
	if def.Name == "" {
		def.Name = key
	}
	return def, true, nil
}

// themeKey lowercases name and keeps letters, digits and single dashes.
func themeKey(name string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			dash = false
		case !dash && b.Len() > 0:
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
