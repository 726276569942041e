package report

import "github.com/charmbracelet/lipgloss"

// Classification glyphs — convey meaning without relying on color alone.
const (
	GlyphValid       = "✓"
	GlyphUnknown     = "✗"
	GlyphDisabled    = "◌"
	GlyphConsistency = "≠"
	GlyphSyntax      = "!"
	GlyphAdvisory    = "ℹ"
)

// Palette adapts to terminal capabilities via lipgloss.
var (
	colorGreen  = lipgloss.Color("42")
	colorRed    = lipgloss.Color("196")
	colorYellow = lipgloss.Color("214")
	colorCyan   = lipgloss.Color("51")
	colorDim    = lipgloss.Color("240")
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorCyan)

	passStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorGreen)

	failStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorRed)

	validStyle       = lipgloss.NewStyle().Foreground(colorGreen)
	unknownStyle     = lipgloss.NewStyle().Foreground(colorRed)
	warnStyle        = lipgloss.NewStyle().Foreground(colorYellow)
	dimStyle         = lipgloss.NewStyle().Foreground(colorDim)
	fileHeadingStyle = lipgloss.NewStyle().Bold(true).Underline(true)
)
