// Package styles holds the terminal colors and glyphs used across commands.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Palette.
var (
	ColorGreen  = lipgloss.Color("2")
	ColorRed    = lipgloss.Color("1")
	ColorYellow = lipgloss.Color("3")
	ColorCyan   = lipgloss.Color("14")
	ColorGrey   = lipgloss.Color("8")

	GreenStyle  = lipgloss.NewStyle().Foreground(ColorGreen)
	RedStyle    = lipgloss.NewStyle().Foreground(ColorRed)
	YellowStyle = lipgloss.NewStyle().Foreground(ColorYellow)
	CyanStyle   = lipgloss.NewStyle().Foreground(ColorCyan)
	GreyStyle   = lipgloss.NewStyle().Foreground(ColorGrey)
	BoldStyle   = lipgloss.NewStyle().Bold(true)
)

// Status glyphs.
const (
	GlyphSuccess = "✔"
	GlyphWarn    = "ø"
	GlyphError   = "✘"
)

var disabled bool

// Disable turns off all styling, e.g. for --no-color or NO_COLOR.
func Disable() {
	disabled = true
}

// Enabled reports whether styling is active.
func Enabled() bool {
	return !disabled
}

func render(style lipgloss.Style, s string) string {
	if disabled {
		return s
	}
	return style.Render(s)
}

// Green renders s in green.
func Green(s string) string { return render(GreenStyle, s) }

// Red renders s in red.
func Red(s string) string { return render(RedStyle, s) }

// Yellow renders s in yellow.
func Yellow(s string) string { return render(YellowStyle, s) }

// Cyan renders s in cyan.
func Cyan(s string) string { return render(CyanStyle, s) }

// Grey renders s in grey.
func Grey(s string) string { return render(GreyStyle, s) }

// Bold renders s in bold.
func Bold(s string) string { return render(BoldStyle, s) }

// Success prefixes msg with a green check mark.
func Success(msg string) string {
	return Green(GlyphSuccess) + " " + msg
}

// Warning prefixes msg with a yellow warning glyph.
func Warning(msg string) string {
	return Yellow(GlyphWarn) + " " + msg
}

// Failure prefixes msg with a red cross.
func Failure(msg string) string {
	return Red(GlyphError) + " " + msg
}
