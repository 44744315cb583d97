package theme

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeTheme(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadCatalogKeysThemesByFileName(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "Deep Ocean.toml", `
[metadata]
name = "Oceanic"
author = "QA"

[styles.card_selected]
border_color = "#ddeeff"

[colors]
flash_success = "#335577"
`)
	writeTheme(t, dir, "sunset.json", `{"colors": {"rarity_mythic": "#ff9900"}}`)
	writeTheme(t, dir, "notes.txt", "not a theme")

	catalog, err := LoadCatalog([]string{dir})
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	if got, want := catalog.Keys(), []string{"default", "deep-ocean", "sunset"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("keys = %v, want %v", got, want)
	}

	ocean, ok := catalog.Get("Deep-Ocean")
	if !ok {
		t.Fatalf("expected deep-ocean theme")
	}
	if ocean.Name != "Oceanic" || ocean.Author != "QA" {
		t.Fatalf("unexpected metadata %+v", ocean)
	}
	if ocean.Theme.Flash.Success != "#335577" {
		t.Fatalf("expected flash override, got %q", ocean.Theme.Flash.Success)
	}

	sunset, _ := catalog.Get("sunset")
	if sunset.Name != "sunset" {
		t.Fatalf("expected name to fall back to key, got %q", sunset.Name)
	}
	if sunset.Theme.Rarity.Mythic != "#ff9900" {
		t.Fatalf("expected rarity override, got %q", sunset.Theme.Rarity.Mythic)
	}
	if sunset.Theme.Flash.Invalid != DefaultTheme().Flash.Invalid {
		t.Fatalf("expected untouched colours to keep defaults")
	}
}

func TestLoadCatalogLaterDirectoryWins(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	writeTheme(t, first, "night.toml", "[colors]\nflash_error = \"#111111\"\n")
	writeTheme(t, second, "night.toml", "[colors]\nflash_error = \"#222222\"\n")

	catalog, err := LoadCatalog([]string{first, second})
	if err != nil {
		t.Fatalf("LoadCatalog: %v", err)
	}
	night, _ := catalog.Get("night")
	if night.Theme.Flash.Error != "#222222" || night.Path != filepath.Join(second, "night.toml") {
		t.Fatalf("expected second directory to win, got %+v", night)
	}
}

func TestLoadCatalogReportsBadThemes(t *testing.T) {
	dir := t.TempDir()
	writeTheme(t, dir, "broken.json", `{"colors":{"nope":"#fff"}}`)
	writeTheme(t, dir, "default.toml", "")
	writeTheme(t, dir, "blank.toml", "[colors]\nflash_invalid = \" \"\n")

	catalog, err := LoadCatalog([]string{dir})
	if err == nil {
		t.Fatalf("expected errors for broken themes")
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected only the built-in theme, got %v", catalog.Keys())
	}
}

func TestLoadCatalogHandlesMissingDirectory(t *testing.T) {
	catalog, err := LoadCatalog([]string{filepath.Join(t.TempDir(), "absent"), ""})
	if err != nil {
		t.Fatalf("missing directories should be ignored: %v", err)
	}
	if catalog.Len() != 1 {
		t.Fatalf("expected only the built-in theme, got %d", catalog.Len())
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	var catalog Catalog
	def, ok := catalog.Resolve("missing")
	if ok || def.Key != DefaultKey {
		t.Fatalf("expected fallback to default, got %q ok=%v", def.Key, ok)
	}
	if def, ok := catalog.Resolve(" "); !ok || def.Key != DefaultKey {
		t.Fatalf("expected blank key to resolve to default")
	}
}
