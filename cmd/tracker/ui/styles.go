// Package ui provides the visual styling for the tracker terminal client.
// Light and dark palettes are provided; the active one is picked from
// config or detected from the terminal.
package ui

import (
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
var (
	// Light Mode Colors (Default)
	LightForeground = lipgloss.Color("#0b0c0c")
	LightPrimary    = lipgloss.Color("#1d70b8") // Blue
	LightAccent     = lipgloss.Color("#00703c") // Green
	LightMuted      = lipgloss.Color("#6f777b")
	LightBorder     = lipgloss.Color("#b1b4b6")

	// Dark Mode Colors
	DarkForeground = lipgloss.Color("#f3f2f1")
	DarkPrimary    = lipgloss.Color("#5694ca")
	DarkAccent     = lipgloss.Color("#85994b")
	DarkMuted      = lipgloss.Color("#8e979c")
	DarkBorder     = lipgloss.Color("#3d4244")

	// Semantic Colors (same in both modes)
	Destructive = lipgloss.Color("#d4351c")
	Success     = lipgloss.Color("#00703c")
	Info        = lipgloss.Color("#1d70b8")
)

// Theme holds the current color scheme
type Theme struct {
	Foreground lipgloss.Color
	Primary    lipgloss.Color
	Accent     lipgloss.Color
	Muted      lipgloss.Color
	Border     lipgloss.Color
	IsDark     bool
}

// LightTheme returns the light mode theme
func LightTheme() Theme {
	return Theme{
		Foreground: LightForeground,
		Primary:    LightPrimary,
		Accent:     LightAccent,
		Muted:      LightMuted,
		Border:     LightBorder,
	}
}

// DarkTheme returns the dark mode theme
func DarkTheme() Theme {
	return Theme{
		Foreground: DarkForeground,
		Primary:    DarkPrimary,
		Accent:     DarkAccent,
		Muted:      DarkMuted,
		Border:     DarkBorder,
		IsDark:     true,
	}
}

// DetectTheme picks a theme from COLORFGBG or TRACKER_DARK_MODE, falling
// back to light.
func DetectTheme() Theme {
	// Format is usually "foreground;background"
	if colorTerm := os.Getenv("COLORFGBG"); colorTerm != "" {
		parts := strings.Split(colorTerm, ";")
		if len(parts) == 2 {
			if bgIdx, err := strconv.Atoi(parts[1]); err == nil {
				// 0-6 and 8 (dark grey) are dark backgrounds
				if (bgIdx >= 0 && bgIdx <= 6) || bgIdx == 8 {
					return DarkTheme()
				}
			}
		}
	}

	// Explicit dark mode preference
	if os.Getenv("TRACKER_DARK_MODE") == "1" {
		return DarkTheme()
	}
	return LightTheme()
}

// ThemeByName resolves a ui.theme config value.
func ThemeByName(name string) Theme {
	switch name {
	case "dark":
		return DarkTheme()
	case "light":
		return LightTheme()
	default:
		return DetectTheme()
	}
}

// Styles holds all the styled components
type Styles struct {
	Theme Theme

	// Layout
	Header  lipgloss.Style
	Footer  lipgloss.Style
	Content lipgloss.Style

	// Text
	Title lipgloss.Style
	Muted lipgloss.Style
	Bold  lipgloss.Style

	// Interactive
	Prompt   lipgloss.Style
	Button   lipgloss.Style
	Disabled lipgloss.Style

	// Status
	Success lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Table
	TableHeader lipgloss.Style
	Cell        lipgloss.Style
	Separator   lipgloss.Style

	// Components
	Spinner lipgloss.Style
}

// NewStyles creates a new Styles instance with the given theme
func NewStyles(theme Theme) Styles {
	return Styles{
		Theme: theme,

		Header: lipgloss.NewStyle().
			Background(theme.Primary).
			Foreground(lipgloss.Color("#ffffff")).
			Padding(0, 2).
			Bold(true),

		Footer: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Padding(0, 2),

		Content: lipgloss.NewStyle().
			Padding(0, 2),

		Title: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Muted: lipgloss.NewStyle().
			Foreground(theme.Muted),

		Bold: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true),

		Prompt: lipgloss.NewStyle().
			Foreground(theme.Accent).
			Bold(true),

		Button: lipgloss.NewStyle().
			Foreground(theme.Primary).
			Bold(true),

		Disabled: lipgloss.NewStyle().
			Foreground(theme.Border).
			Strikethrough(true),

		Success: lipgloss.NewStyle().
			Foreground(Success).
			Bold(true),

		Error: lipgloss.NewStyle().
			Foreground(Destructive).
			Bold(true),

		Info: lipgloss.NewStyle().
			Foreground(Info),

		TableHeader: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Bold(true).
			Padding(0, 1),

		Cell: lipgloss.NewStyle().
			Foreground(theme.Foreground).
			Padding(0, 1),

		Separator: lipgloss.NewStyle().
			Foreground(theme.Border),

		Spinner: lipgloss.NewStyle().
			Foreground(theme.Accent),
	}
}
