// Package ui provides the visual styling and small view components for
// the PromptVault dashboard. The palette follows the PromptVault brand
// (emerald/teal) with light and dark mode support.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light mode colors (default)
	LightBackground = lipgloss.Color("#ecfdf5") // emerald-50
	LightForeground = lipgloss.Color("#064e3b") // emerald-900
	LightPrimary    = lipgloss.Color("#059669") // emerald-600
	LightAccent     = lipgloss.Color("#0d9488") // teal-600
	LightSecondary  = lipgloss.Color("#d1fae5") // emerald-100
	LightMuted      = lipgloss.Color("#6ee7b7") // emerald-300
	LightBorder     = lipgloss.Color("#a7f3d0") // emerald-200
	LightCard       = lipgloss.Color("#ffffff")

	// Dark mode colors
	DarkBackground = lipgloss.Color("#022c22") // emerald-950
	DarkForeground = lipgloss.Color("#d1fae5") // emerald-100
	DarkPrimary    = lipgloss.Color("#34d399") // emerald-400
	DarkAccent     = lipgloss.Color("#2dd4bf") // teal-400
	DarkSecondary  = lipgloss.Color("#064e3b")
	DarkMuted      = lipgloss.Color("#047857")
	DarkBorder     = lipgloss.Color("#065f46")
	DarkCard       = lipgloss.Color("#042f2e")

	// Semantic colors (same in both modes)
	Destructive = lipgloss.Color("#dc2626") // red-600
	Success     = lipgloss.Color("#059669")
	Warning     = lipgloss.Color("#d97706") // amber-600
	Info        = lipgloss.Color("#2563eb") // blue-600
)

// Theme holds the current color scheme.
type Theme struct {
	Background lipgloss.Color
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Secondary  lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	Card       lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme.
func LightTheme() Theme {
	return Theme{
		Background: LightBackground,
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Secondary:  LightSecondary,
		Muted:      LightMuted,
		Border:     LightBorder,
		Card:       LightCard,
	}
}

// DarkTheme returns the dark mode theme.
func DarkTheme() Theme {
	return Theme{
		Background: DarkBackground,
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Secondary:  DarkSecondary,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		Card:       DarkCard,
		IsDark:     true,
	}
}

// ThemeByName resolves a configured theme name, falling back to
// terminal detection for anything unrecognized.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	case "dark":
		return DarkTheme()
	default:
		return DetectTheme()
	}
}

// DetectTheme picks a theme from terminal hints, defaulting to light.
func DetectTheme() Theme {
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		// Format is "foreground;background"; ANSI backgrounds 0-6
		// and 8 are dark.
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}
	if os.Getenv("PROMPTVAULT_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// Styles holds the styled components used by the dashboard.
type Styles struct {
	Theme Theme

	// Layout
	App     lipgloss.Style
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Sidebar lipgloss.Style
	Pane    lipgloss.Style

	// Text
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Muted    lipgloss.Style
	Bold     lipgloss.Style

	// List items
	ListItem     lipgloss.Style
	SelectedItem lipgloss.Style
	ArchivedItem lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Components
	Tag      lipgloss.Style
	Badge    lipgloss.Style
	Divider  lipgloss.Style
	Modal    lipgloss.Style
	FormHint lipgloss.Style
}

// NewStyles creates a Styles instance for the given theme.
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		App: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 1),

		Sidebar: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderRight(true).
			BorderForeground(theme.Border).
			PaddingRight(1),

		Pane: lipgloss.NewStyle().
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Subtitle: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Body: lipgloss.NewStyle().
			Foreground(theme.Foreground),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		ListItem: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 1),

		SelectedItem: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Background(theme.Secondary).
			Bold(true).
			Padding(0, 1),

		ArchivedItem: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Strikethrough(true).
			Padding(0, 1),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Warning: lipgloss.NewStyle().
			Foreground(Warning).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		Tag: lipgloss.NewStyle().
			Background(theme.Secondary).
			Foreground(theme.Primary).
			Padding(0, 1),

		Badge: lipgloss.NewStyle().
			Background(theme.Accent).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 1),

		Divider: lipgloss.NewStyle().
			Foreground(theme.Border),

		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(theme.Primary).
			Padding(1, 3),

		FormHint: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),
	}
}
