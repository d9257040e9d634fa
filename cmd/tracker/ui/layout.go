// Package ui layout constants for consistent spacing and dimensions
package ui

// Layout constants for viewport sizing
const (
	// Chrome around the table viewport
	HeaderHeight    = 2 // title line plus blank
	StatusBarHeight = 2 // range line plus controls line
	BannerHeight    = 2
	PromptHeight    = 1
	FooterHeight    = 1

	ViewportHorizontalPadding = 4

	// Responsive breakpoints
	MinimumTerminalWidth = 80
	CompactModeWidth     = 100

	// Cell truncation in compact mode
	CompactCellWidth = 28
)

// LayoutConfig provides computed layout dimensions based on terminal size
type LayoutConfig struct {
	TerminalWidth  int
	TerminalHeight int
	IsCompact      bool
}

// NewLayoutConfig creates a layout configuration for the given terminal size
func NewLayoutConfig(width, height int) LayoutConfig {
	return LayoutConfig{
		TerminalWidth:  width,
		TerminalHeight: height,
		IsCompact:      width < CompactModeWidth,
	}
}

// ContentWidth returns the usable content width for the table viewport
func (l LayoutConfig) ContentWidth() int {
	return clampMin(l.TerminalWidth-ViewportHorizontalPadding, 1)
}

// TableHeight returns the rows left for the table once the fixed chrome is
// drawn. banner and prompt add their lines when visible.
func (l LayoutConfig) TableHeight(banner, prompt bool) int {
	h := l.TerminalHeight - HeaderHeight - StatusBarHeight - FooterHeight
	if banner {
		h -= BannerHeight
	}
	if prompt {
		h -= PromptHeight
	}
	return clampMin(h, 1)
}

// CellWidth returns the cell truncation width, or 0 when cells may grow.
func (l LayoutConfig) CellWidth() int {
	if l.IsCompact {
		return CompactCellWidth
	}
	return 0
}

func clampMin(v, floor int) int {
	if v < floor {
		return floor
	}
	return v
}
