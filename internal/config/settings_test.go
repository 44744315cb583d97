package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSettingsDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)

	settings, file, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if file.Path != filepath.Join(dir, "settings.toml") || file.Format != FormatTOML {
		t.Fatalf("unexpected settings file %+v", file)
	}
	if settings.Grid != DefaultGridSettings() {
		t.Fatalf("expected default grid, got %+v", settings.Grid)
	}
	if settings.Entry != DefaultEntrySettings() {
		t.Fatalf("expected default entry settings, got %+v", settings.Entry)
	}
	if settings.DatabasePath() != filepath.Join(dir, "cardvault.db") {
		t.Fatalf("unexpected database path %q", settings.DatabasePath())
	}
}

func TestSaveSettingsRoundTripsThroughTOML(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)

	err := SaveSettings(Settings{
		DefaultTheme: "deep-ocean",
		Grid:         GridSettings{CardWidth: 30, Density: GridDensityCompact},
		Entry:        EntrySettings{ResultFlashMS: 900},
	}, SettingsFile{})
	if err != nil {
		t.Fatalf("SaveSettings: %v", err)
	}

	got, file, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if file.Format != FormatTOML || got.DefaultTheme != "deep-ocean" {
		t.Fatalf("unexpected load %+v from %+v", got, file)
	}
	if got.Grid.CardWidth != 30 || got.Grid.Density != GridDensityCompact {
		t.Fatalf("unexpected grid %+v", got.Grid)
	}
	if got.Entry.ResultFlashMS != 900 || got.Entry.SubmitTimeoutSec != EntrySubmitTimeoutDef {
		t.Fatalf("unexpected entry settings %+v", got.Entry)
	}
	leftovers, _ := filepath.Glob(filepath.Join(dir, ".settings-*"))
	if len(leftovers) != 0 {
		t.Fatalf("expected temp files cleaned up, found %v", leftovers)
	}
}

func TestLoadSettingsPrefersTOMLOverJSON(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)

	json := SettingsFile{Path: filepath.Join(dir, "settings.json"), Format: FormatJSON}
	if err := SaveSettings(Settings{DefaultTheme: "sunset", Database: filepath.Join(dir, "x.db")}, json); err != nil {
		t.Fatalf("save json: %v", err)
	}
	got, file, err := LoadSettings()
	if err != nil {
		t.Fatalf("LoadSettings: %v", err)
	}
	if file != json || got.DefaultTheme != "sunset" || got.DatabasePath() != filepath.Join(dir, "x.db") {
		t.Fatalf("expected json settings, got %+v from %+v", got, file)
	}

	if err := os.WriteFile(filepath.Join(dir, "settings.toml"), []byte("default_theme = \"night\"\n"), 0o644); err != nil {
		t.Fatalf("write toml: %v", err)
	}
	got, file, _ = LoadSettings()
	if file.Format != FormatTOML || got.DefaultTheme != "night" {
		t.Fatalf("expected toml to win, got %+v from %+v", got, file)
	}
}

func TestLoadSettingsRejectsUnknownJSONFields(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(envConfigDir, dir)
	if err := os.WriteFile(filepath.Join(dir, "settings.json"), []byte(`{"bogus": true}`), 0o644); err != nil {
		t.Fatalf("write json settings: %v", err)
	}
	settings, _, err := LoadSettings()
	if err == nil {
		t.Fatalf("expected parse error for unknown field")
	}
	if settings.Entry != DefaultEntrySettings() {
		t.Fatalf("expected defaults alongside the error, got %+v", settings.Entry)
	}
}
