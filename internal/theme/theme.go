package theme

import "github.com/charmbracelet/lipgloss"

// FlashColors tint a card border while a flash is active.
type FlashColors struct {
	Invalid lipgloss.Color
	Success lipgloss.Color
	Error   lipgloss.Color
	Pending lipgloss.Color
}

type RarityColors struct {
	Common   lipgloss.Color
	Uncommon lipgloss.Color
	Rare     lipgloss.Color
	Mythic   lipgloss.Color
	Default  lipgloss.Color
}

func (r RarityColors) For(rarity string) lipgloss.Color {
	switch rarity {
	case "common":
		return r.Common
	case "uncommon":
		return r.Uncommon
	case "rare":
		return r.Rare
	case "mythic":
		return r.Mythic
	default:
		return r.Default
	}
}

type Theme struct {
	Header         lipgloss.Style
	HeaderTitle    lipgloss.Style
	HeaderValue    lipgloss.Style
	GroupTitle     lipgloss.Style
	GroupMeta      lipgloss.Style
	Card           lipgloss.Style
	CardSelected   lipgloss.Style
	CardTitle      lipgloss.Style
	CardMeta       lipgloss.Style
	CardOwned      lipgloss.Style
	Overlay        lipgloss.Style
	OverlayCount   lipgloss.Style
	OverlayLabel   lipgloss.Style
	OverlayInvalid lipgloss.Style
	StatusBar      lipgloss.Style
	StatusBarKey   lipgloss.Style
	StatusBarValue lipgloss.Style
	SearchPrompt   lipgloss.Style
	HelpBox        lipgloss.Style
	HelpKey        lipgloss.Style
	HelpText       lipgloss.Style
	Empty          lipgloss.Style
	Error          lipgloss.Style
	Success        lipgloss.Style
	Flash          FlashColors
	Rarity         RarityColors
}

func DefaultTheme() Theme {
	accent := lipgloss.Color("#7D56F4")
	base := lipgloss.NewStyle().Foreground(lipgloss.Color("#dcd7ff"))

	return Theme{
		Header:      lipgloss.NewStyle().Foreground(lipgloss.Color("#E5E1FF")).Padding(0, 1),
		HeaderTitle: lipgloss.NewStyle().Foreground(accent).Bold(true),
		HeaderValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#D1CFF6")),
		GroupTitle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FBC859")).
			Bold(true),
		GroupMeta: lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6A86")),
		Card: base.BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#403B59")).
			Padding(0, 1),
		CardSelected: base.BorderStyle(lipgloss.ThickBorder()).
			BorderForeground(lipgloss.Color("#FFD46A")).
			Padding(0, 1),
		CardTitle: lipgloss.NewStyle().Foreground(lipgloss.Color("#E6E1FF")).Bold(true),
		CardMeta:  lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")),
		CardOwned: lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")).Bold(true),
		Overlay: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1020")).
			Background(lipgloss.Color("#FFD46A")).
			Padding(0, 1),
		OverlayCount: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#1A1020")).
			Background(lipgloss.Color("#FFD46A")).
			Bold(true),
		OverlayLabel: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#433C59")).
			Background(lipgloss.Color("#FFD46A")),
		OverlayInvalid: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FDFBFF")).
			Background(lipgloss.Color("#FF6E6E")).
			Bold(true).
			Padding(0, 1),
		StatusBar:      lipgloss.NewStyle().Foreground(lipgloss.Color("#A6A1BB")).Padding(0, 1),
		StatusBarKey:   lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8B39")).Bold(true),
		StatusBarValue: lipgloss.NewStyle().Foreground(lipgloss.Color("#EAEAEA")),
		SearchPrompt:   lipgloss.NewStyle().Foreground(accent).Bold(true),
		HelpBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Padding(1, 2),
		HelpKey:  lipgloss.NewStyle().Foreground(lipgloss.Color("#FF8B39")).Bold(true),
		HelpText: lipgloss.NewStyle().Foreground(lipgloss.Color("#C2C0D9")),
		Empty:    lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6A86")).Italic(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6E6E")),
		Success:  lipgloss.NewStyle().Foreground(lipgloss.Color("#6EF17E")),
		Flash: FlashColors{
			Invalid: lipgloss.Color("#FF6E6E"),
			Success: lipgloss.Color("#6EF17E"),
			Error:   lipgloss.Color("#FF3B5C"),
			Pending: lipgloss.Color("#56A9DD"),
		},
		Rarity: RarityColors{
			Common:   lipgloss.Color("#C2C0D9"),
			Uncommon: lipgloss.Color("#9CD6FF"),
			Rare:     lipgloss.Color("#FBC859"),
			Mythic:   lipgloss.Color("#FF8B39"),
			Default:  lipgloss.Color("#A6A1BB"),
		},
	}
}
