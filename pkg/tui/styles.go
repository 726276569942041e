// Package tui implements an interactive findings browser for validation
// reports, rendered as a Bubble Tea app.
package tui

import "github.com/charmbracelet/lipgloss"

// Classification glyphs — convey meaning without relying on color alone.
const (
	glyphValid       = "✓"
	glyphUnknown     = "✗"
	glyphDisabled    = "◌"
	glyphConsistency = "≠"
	glyphSyntax      = "!"
	glyphCursor      = "▸"
)

var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan).
			Padding(0, 1)

	passBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(colorGreen).
			Padding(0, 1)

	failBadge = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("0")).
			Background(colorRed).
			Padding(0, 1)

	rowValid       = lipgloss.NewStyle().Foreground(colorGreen)
	rowUnknown     = lipgloss.NewStyle().Foreground(colorRed)
	rowWarn        = lipgloss.NewStyle().Foreground(colorYellow)
	rowDim         = lipgloss.NewStyle().Foreground(colorDim)
	rowSelected    = lipgloss.NewStyle().Bold(true)
	fileStyle      = lipgloss.NewStyle().Bold(true).Underline(true)
	statusBarStyle = lipgloss.NewStyle().Foreground(colorDim)
)
