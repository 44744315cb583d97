package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Metadata describes a theme file. Only Name and Author are shown.
type Metadata struct {
	Name        string `json:"name"        toml:"name"`
	Author      string `json:"author"      toml:"author"`
	Description string `json:"description" toml:"description"`
}

type ThemeSpec struct {
	Metadata *Metadata  `json:"metadata" toml:"metadata"`
	Styles   StylesSpec `json:"styles"   toml:"styles"`
	Colors   ColorsSpec `json:"colors"   toml:"colors"`
}

type StylesSpec struct {
	Header         *StyleSpec `json:"header"          toml:"header"`
	HeaderTitle    *StyleSpec `json:"header_title"    toml:"header_title"`
	HeaderValue    *StyleSpec `json:"header_value"    toml:"header_value"`
	GroupTitle     *StyleSpec `json:"group_title"     toml:"group_title"`
	GroupMeta      *StyleSpec `json:"group_meta"      toml:"group_meta"`
	Card           *StyleSpec `json:"card"            toml:"card"`
	CardSelected   *StyleSpec `json:"card_selected"   toml:"card_selected"`
	CardTitle      *StyleSpec `json:"card_title"      toml:"card_title"`
	CardMeta       *StyleSpec `json:"card_meta"       toml:"card_meta"`
	CardOwned      *StyleSpec `json:"card_owned"      toml:"card_owned"`
	Overlay        *StyleSpec `json:"overlay"         toml:"overlay"`
	OverlayCount   *StyleSpec `json:"overlay_count"   toml:"overlay_count"`
	OverlayLabel   *StyleSpec `json:"overlay_label"   toml:"overlay_label"`
	OverlayInvalid *StyleSpec `json:"overlay_invalid" toml:"overlay_invalid"`
	StatusBar      *StyleSpec `json:"status_bar"      toml:"status_bar"`
	StatusBarKey   *StyleSpec `json:"status_bar_key"  toml:"status_bar_key"`
	StatusBarValue *StyleSpec `json:"status_bar_value" toml:"status_bar_value"`
	SearchPrompt   *StyleSpec `json:"search_prompt"   toml:"search_prompt"`
	HelpBox        *StyleSpec `json:"help_box"        toml:"help_box"`
	HelpKey        *StyleSpec `json:"help_key"        toml:"help_key"`
	HelpText       *StyleSpec `json:"help_text"       toml:"help_text"`
	Empty          *StyleSpec `json:"empty"           toml:"empty"`
	Error          *StyleSpec `json:"error"           toml:"error"`
	Success        *StyleSpec `json:"success"         toml:"success"`
}

type ColorsSpec struct {
	FlashInvalid   *string `json:"flash_invalid"   toml:"flash_invalid"`
	FlashSuccess   *string `json:"flash_success"   toml:"flash_success"`
	FlashError     *string `json:"flash_error"     toml:"flash_error"`
	FlashPending   *string `json:"flash_pending"   toml:"flash_pending"`
	RarityCommon   *string `json:"rarity_common"   toml:"rarity_common"`
	RarityUncommon *string `json:"rarity_uncommon" toml:"rarity_uncommon"`
	RarityRare     *string `json:"rarity_rare"     toml:"rarity_rare"`
	RarityMythic   *string `json:"rarity_mythic"   toml:"rarity_mythic"`
	RarityDefault  *string `json:"rarity_default"  toml:"rarity_default"`
}

type StyleSpec struct {
	Foreground       *string `json:"foreground"        toml:"foreground"`
	Background       *string `json:"background"        toml:"background"`
	BorderColor      *string `json:"border_color"      toml:"border_color"`
	BorderBackground *string `json:"border_background" toml:"border_background"`
	BorderStyle      *string `json:"border_style"      toml:"border_style"`
	Bold             *bool   `json:"bold"              toml:"bold"`
	Italic           *bool   `json:"italic"            toml:"italic"`
	Underline        *bool   `json:"underline"         toml:"underline"`
	Faint            *bool   `json:"faint"             toml:"faint"`
	Align            *string `json:"align"             toml:"align"`
}

// ApplySpec returns base with every override in spec applied. base is not
// modified.
func ApplySpec(base Theme, spec ThemeSpec) (Theme, error) {
	out := base
	st := spec.Styles
	for name, target := range map[string]struct {
		style *lipgloss.Style
		spec  *StyleSpec
	}{
		"header":           {&out.Header, st.Header},
		"header_title":     {&out.HeaderTitle, st.HeaderTitle},
		"header_value":     {&out.HeaderValue, st.HeaderValue},
		"group_title":      {&out.GroupTitle, st.GroupTitle},
		"group_meta":       {&out.GroupMeta, st.GroupMeta},
		"card":             {&out.Card, st.Card},
		"card_selected":    {&out.CardSelected, st.CardSelected},
		"card_title":       {&out.CardTitle, st.CardTitle},
		"card_meta":        {&out.CardMeta, st.CardMeta},
		"card_owned":       {&out.CardOwned, st.CardOwned},
		"overlay":          {&out.Overlay, st.Overlay},
		"overlay_count":    {&out.OverlayCount, st.OverlayCount},
		"overlay_label":    {&out.OverlayLabel, st.OverlayLabel},
		"overlay_invalid":  {&out.OverlayInvalid, st.OverlayInvalid},
		"status_bar":       {&out.StatusBar, st.StatusBar},
		"status_bar_key":   {&out.StatusBarKey, st.StatusBarKey},
		"status_bar_value": {&out.StatusBarValue, st.StatusBarValue},
		"search_prompt":    {&out.SearchPrompt, st.SearchPrompt},
		"help_box":         {&out.HelpBox, st.HelpBox},
		"help_key":         {&out.HelpKey, st.HelpKey},
		"help_text":        {&out.HelpText, st.HelpText},
		"empty":            {&out.Empty, st.Empty},
		"error":            {&out.Error, st.Error},
		"success":          {&out.Success, st.Success},
	} {
		if target.spec == nil {
			continue
		}
		styled, err := target.spec.apply(*target.style)
		if err != nil {
			return Theme{}, fmt.Errorf("styles.%s.%w", name, err)
		}
		*target.style = styled
	}

	c := spec.Colors
	for name, target := range map[string]struct {
		color *lipgloss.Color
		value *string
	}{
		"flash_invalid":   {&out.Flash.Invalid, c.FlashInvalid},
		"flash_success":   {&out.Flash.Success, c.FlashSuccess},
		"flash_error":     {&out.Flash.Error, c.FlashError},
		"flash_pending":   {&out.Flash.Pending, c.FlashPending},
		"rarity_common":   {&out.Rarity.Common, c.RarityCommon},
		"rarity_uncommon": {&out.Rarity.Uncommon, c.RarityUncommon},
		"rarity_rare":     {&out.Rarity.Rare, c.RarityRare},
		"rarity_mythic":   {&out.Rarity.Mythic, c.RarityMythic},
		"rarity_default":  {&out.Rarity.Default, c.RarityDefault},
	} {
		if target.value == nil {
			continue
		}
		col, err := parseColor(*target.value)
		if err != nil {
			return Theme{}, fmt.Errorf("colors.%s: %w", name, err)
		}
		*target.color = col
	}
	return out, nil
}

var borders = map[string]lipgloss.Border{
	"none":    {},
	"hidden":  {},
	"normal":  lipgloss.NormalBorder(),
	"single":  lipgloss.NormalBorder(),
	"rounded": lipgloss.RoundedBorder(),
	"thick":   lipgloss.ThickBorder(),
	"double":  lipgloss.DoubleBorder(),
	"block":   lipgloss.BlockBorder(),
}

var alignments = map[string]lipgloss.Position{
	"":       lipgloss.Left,
	"left":   lipgloss.Left,
	"center": lipgloss.Center,
	"centre": lipgloss.Center,
	"right":  lipgloss.Right,
}

func (s *StyleSpec) apply(style lipgloss.Style) (lipgloss.Style, error) {
	colors := []struct {
		field string
		value *string
		set   func(lipgloss.Style, lipgloss.TerminalColor) lipgloss.Style
	}{
		{"foreground", s.Foreground, lipgloss.Style.Foreground},
		{"background", s.Background, lipgloss.Style.Background},
		{"border_color", s.BorderColor, func(st lipgloss.Style, c lipgloss.TerminalColor) lipgloss.Style {
			return st.BorderForeground(c)
		}},
		{"border_background", s.BorderBackground, func(st lipgloss.Style, c lipgloss.TerminalColor) lipgloss.Style {
			return st.BorderBackground(c)
		}},
	}
	for _, c := range colors {
		if c.value == nil {
			continue
		}
		col, err := parseColor(*c.value)
		if err != nil {
			return style, fmt.Errorf("%s: %w", c.field, err)
		}
		style = c.set(style, col)
	}

	if s.BorderStyle != nil {
		name := strings.ToLower(strings.TrimSpace(*s.BorderStyle))
		border, ok := borders[name]
		if !ok {
			return style, fmt.Errorf("border_style: unknown border %q", *s.BorderStyle)
		}
		style = style.BorderStyle(border)
	}
	if s.Align != nil {
		pos, ok := alignments[strings.ToLower(strings.TrimSpace(*s.Align))]
		if !ok {
			return style, fmt.Errorf("align: unknown alignment %q", *s.Align)
		}
		style = style.Align(pos)
	}

	if s.Bold != nil {
		style = style.Bold(*s.Bold)
	}
	if s.Italic != nil {
		style = style.Italic(*s.Italic)
	}
	if s.Underline != nil {
		style = style.Underline(*s.Underline)
	}
	if s.Faint != nil {
		style = style.Faint(*s.Faint)
	}
	return style, nil
}

func parseColor(value string) (lipgloss.Color, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", errors.New("empty colour")
	}
	return lipgloss.Color(value), nil
}
