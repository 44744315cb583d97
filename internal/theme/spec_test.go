package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func strPtr(value string) *string {
	return &value
}

func boolPtr(value bool) *bool {
	return &value
}

func TestApplySpecOverridesStylesAndColors(t *testing.T) {
	base := DefaultTheme()
	spec := ThemeSpec{
		Colors: ColorsSpec{
			FlashInvalid: strPtr("#123456"),
			RarityRare:   strPtr("#abcdef"),
		},
		Styles: StylesSpec{
			CardTitle:    &StyleSpec{Foreground: strPtr("#222233"), Bold: boolPtr(false)},
			CardSelected: &StyleSpec{BorderStyle: strPtr("double")},
		},
	}

	updated, err := ApplySpec(base, spec)
	if err != nil {
		t.Fatalf("ApplySpec returned error: %v", err)
	}
	if updated.Flash.Invalid != "#123456" {
		t.Errorf("expected invalid flash override, got %q", updated.Flash.Invalid)
	}
	if updated.Rarity.For("rare") != "#abcdef" {
		t.Errorf("expected rare colour override, got %q", updated.Rarity.For("rare"))
	}
	if got := updated.CardTitle.GetForeground(); got != lipgloss.Color("#222233") {
		t.Errorf("expected card title foreground override, got %v", got)
	}
	if updated.CardTitle.GetBold() {
		t.Errorf("expected bold to be disabled")
	}
	if updated.CardSelected.GetBorderStyle() != lipgloss.DoubleBorder() {
		t.Errorf("expected double border on selected card")
	}
	if base.Flash.Invalid == "#123456" {
		t.Errorf("expected base theme to stay untouched")
	}
}

func TestApplySpecRejectsInvalidValues(t *testing.T) {
	_, err := ApplySpec(DefaultTheme(), ThemeSpec{
		Styles: StylesSpec{Card: &StyleSpec{BorderStyle: strPtr("zigzag")}},
	})
	if err == nil {
		t.Fatalf("expected error for unknown border style")
	}
	_, err = ApplySpec(DefaultTheme(), ThemeSpec{
		Colors: ColorsSpec{FlashError: strPtr("  ")},
	})
	if err == nil {
		t.Fatalf("expected error for empty colour")
	}
}

func TestApplySpecBorderAndAlignment(t *testing.T) {
	updated, err := ApplySpec(DefaultTheme(), ThemeSpec{
		Styles: StylesSpec{
			Card:    &StyleSpec{BorderStyle: strPtr(" None "), BorderColor: strPtr("#101010")},
			Overlay: &StyleSpec{Align: strPtr("centre")},
		},
	})
	if err != nil {
		t.Fatalf("ApplySpec: %v", err)
	}
	if updated.Card.GetBorderStyle() != (lipgloss.Border{}) {
		t.Errorf("expected border removed")
	}
	if updated.Card.GetBorderTopForeground() != lipgloss.Color("#101010") {
		t.Errorf("expected border colour override, got %v", updated.Card.GetBorderTopForeground())
	}
	if updated.Overlay.GetAlign() != lipgloss.Center {
		t.Errorf("expected centred overlay")
	}

	_, err = ApplySpec(DefaultTheme(), ThemeSpec{
		Styles: StylesSpec{HelpBox: &StyleSpec{Align: strPtr("diagonal")}},
	})
	if err == nil {
		t.Fatalf("expected error for unknown alignment")
	}
}
