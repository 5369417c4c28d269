package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Semantic colors for status indication
const (
	ColorSuccess lipgloss.Color = "2" // Green
	ColorError   lipgloss.Color = "1" // Red
	ColorWarning lipgloss.Color = "3" // Yellow
	ColorInfo    lipgloss.Color = "6" // Cyan
)

// Text colors for content hierarchy
const (
	ColorPrimary   lipgloss.Color = "7" // White/default
	ColorSecondary lipgloss.Color = "4" // Blue
	ColorMuted     lipgloss.Color = "8" // Gray (bright black)
)

// GradientColors cycle through the spinner frames.
var GradientColors = []lipgloss.Color{
	lipgloss.Color("#FF2E97"),
	lipgloss.Color("#BF40FF"),
	lipgloss.Color("#00FFFF"),
	lipgloss.Color("#39FF14"),
}

// SymbolWarning marks a degraded but usable result.
const SymbolWarning = "⚠"

// SuccessStyle renders green text.
func SuccessStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorSuccess) }

// ErrorStyle renders red text.
func ErrorStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorError) }

// WarningStyle renders yellow text.
func WarningStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorWarning) }

// InfoStyle renders cyan text.
func InfoStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorInfo) }

// MutedStyle renders gray text.
func MutedStyle() lipgloss.Style { return lipgloss.NewStyle().Foreground(ColorMuted) }

// LevelStyle colors a value by warning and critical thresholds.
func LevelStyle(value, warning, critical float64) lipgloss.Style {
	switch {
	case value >= critical:
		return ErrorStyle()
	case value >= warning:
		return WarningStyle()
	default:
		return SuccessStyle()
	}
}

// PrintWarning writes a yellow warning line to w.
func PrintWarning(w io.Writer, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	fmt.Fprintln(w, WarningStyle().Render(SymbolWarning+" "+msg))
}

// DisableColors switches lipgloss to monochrome output.
func DisableColors() {
	lipgloss.SetColorProfile(termenv.Ascii)
}
