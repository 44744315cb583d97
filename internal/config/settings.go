package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

type Settings struct {
	DefaultTheme string        `json:"default_theme" toml:"default_theme"`
	Database     string        `json:"database"      toml:"database"`
	Grid         GridSettings  `json:"grid"          toml:"grid"`
	Entry        EntrySettings `json:"entry"         toml:"entry"`
}

// Normalise fills defaults and clamps out-of-range values.
func (s Settings) Normalise() Settings {
	s.Grid = NormaliseGridSettings(s.Grid)
	s.Entry = NormaliseEntrySettings(s.Entry)
	return s
}

// DatabasePath resolves the configured database, falling back to the config dir.
func (s Settings) DatabasePath() string {
	if s.Database != "" {
		return s.Database
	}
	return DefaultDatabasePath()
}

type Format string

const (
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// SettingsFile is a settings document on disk.
type SettingsFile struct {
	Path   string
	Format Format
}

// SettingsFiles lists the files LoadSettings looks for, in order.
func SettingsFiles(dir string) []SettingsFile {
	return []SettingsFile{
		{Path: filepath.Join(dir, "settings.toml"), Format: FormatTOML},
		{Path: filepath.Join(dir, "settings.json"), Format: FormatJSON},
	}
}

// LoadSettings reads the first settings file found in Dir. With no file the
// defaults are returned along with the TOML location SaveSettings would use.
func LoadSettings() (Settings, SettingsFile, error) {
	files := SettingsFiles(Dir())
	for _, f := range files {
		data, err := os.ReadFile(f.Path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return Settings{}.Normalise(), f, fmt.Errorf("read settings %q: %w", f.Path, err)
		}
		s, err := f.decode(data)
		if err != nil {
			return Settings{}.Normalise(), f, fmt.Errorf("parse settings %q: %w", f.Path, err)
		}
		return s.Normalise(), f, nil
	}
	return Settings{}.Normalise(), files[0], nil
}

func (f SettingsFile) decode(data []byte) (Settings, error) {
	var s Settings
	switch f.Format {
	case FormatTOML:
		err := toml.Unmarshal(data, &s)
		return s, err
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err := dec.Decode(&s)
		return s, err
	}
	return s, fmt.Errorf("unsupported settings format %q", f.Format)
}

func (f SettingsFile) encode(s Settings) ([]byte, error) {
	switch f.Format {
	case FormatTOML:
		return toml.Marshal(s)
	case FormatJSON:
		return json.MarshalIndent(s, "", "  ")
	}
	return nil, fmt.Errorf("unsupported settings format %q", f.Format)
}

// SaveSettings writes the normalised settings to f, replacing it atomically.
// A zero SettingsFile means settings.toml in Dir.
func SaveSettings(s Settings, f SettingsFile) error {
	if f.Path == "" {
		f = SettingsFiles(Dir())[0]
	}
	if f.Format == "" {
		f.Format = FormatTOML
	}
	data, err := f.encode(s.Normalise())
	if err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o755); err != nil {
		return fmt.Errorf("settings dir: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(f.Path), ".settings-*")
	if err != nil {
		return fmt.Errorf("write settings %q: %w", f.Path, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmp.Name(), f.Path)
	}
	if err != nil {
		return fmt.Errorf("write settings %q: %w", f.Path, err)
	}
	return nil
}
