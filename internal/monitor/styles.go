package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Dashboard color palette - Gen Z Electric Synthwave
const (
	// Background colors
	ColorDarkBg    = lipgloss.Color("#0A0A0F") // Deep void
	ColorSurfaceBg = lipgloss.Color("#12121A") // Dark surface
	ColorBorder    = lipgloss.Color("#2A2A4A") // Glass border (purple tint)

	// Semantic colors for metrics - neon style
	ColorHealthy  = lipgloss.Color("#39FF14") // Neon green
	ColorWarning  = lipgloss.Color("#FFAA00") // Electric amber
	ColorCritical = lipgloss.Color("#FF0055") // Hot red-pink

	// Text colors
	ColorTextPrimary   = lipgloss.Color("#FFFFFF")
	ColorTextSecondary = lipgloss.Color("#B4B4D0")
	ColorTextMuted     = lipgloss.Color("#6B6B8D")

	// Accent colors
	ColorAccent    = lipgloss.Color("#FF2E97") // Neon pink
	ColorAccentDim = lipgloss.Color("#BF40FF") // Neon purple

	// Graph colors
	ColorGraph       = lipgloss.Color("#00FFFF") // Neon cyan
	ColorGraphMemory = lipgloss.Color("#BF40FF")
)

// Default thresholds for percentage metrics.
const (
	WarningThreshold  = 70.0
	CriticalThreshold = 90.0
)

// Default thresholds for CPU temperature in degrees Celsius.
const (
	TemperatureWarningC  = 50.0
	TemperatureCriticalC = 70.0
)

// Base styles for the dashboard
var (
	HeaderStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Background(ColorSurfaceBg).
			Bold(true).
			Padding(0, 1)

	FooterStyle = lipgloss.NewStyle().
			Foreground(ColorTextMuted).
			Padding(0, 1)

	// Card styles - no background set here, each line handles its own
	CardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorBorder).
			Padding(0, 1).
			MarginRight(1)

	CardTitleStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary).
			Bold(true)

	LabelStyle = lipgloss.NewStyle().
			Foreground(ColorTextSecondary)

	ValueStyle = lipgloss.NewStyle().
			Foreground(ColorTextPrimary)

	// Source badges
	LiveBadgeStyle = lipgloss.NewStyle().
			Foreground(ColorDarkBg).
			Background(ColorHealthy).
			Bold(true).
			Padding(0, 1)

	SyntheticBadgeStyle = lipgloss.NewStyle().
				Foreground(ColorDarkBg).
				Background(ColorWarning).
				Bold(true).
				Padding(0, 1)

	BannerStyle = lipgloss.NewStyle().
			Foreground(ColorWarning).
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(ColorWarning).
			Padding(0, 1)
)

// Process status glyphs
const (
	StatusRunningGlyph  = "◉"
	StatusSleepingGlyph = "◌"
	StatusStoppedGlyph  = "◼"
)

// MetricColor returns the appropriate color for a percentage-based metric.
// Uses threshold-based coloring: green < 70%, yellow 70-90%, red > 90%.
func MetricColor(percent float64) lipgloss.Color {
	return MetricColorWithThresholds(percent, int(WarningThreshold), int(CriticalThreshold))
}

// MetricColorWithThresholds returns the appropriate color for a metric
// using the provided warning and critical threshold values.
func MetricColorWithThresholds(value float64, warning, critical int) lipgloss.Color {
	switch {
	case value >= float64(critical):
		return ColorCritical
	case value >= float64(warning):
		return ColorWarning
	default:
		return ColorHealthy
	}
}

// MetricStyleWithThresholds returns a style with the appropriate foreground color
// using custom warning and critical thresholds.
func MetricStyleWithThresholds(value float64, warning, critical int) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(MetricColorWithThresholds(value, warning, critical))
}

// CompactProgressBar renders a minimal progress bar filled to percent and
// colored by the default thresholds.
func CompactProgressBar(width int, percent float64) string {
	return Bar(width, percent, MetricColor(percent))
}

// Bar renders a bracketless bar filled to percent in the given color.
// The fill and the color are independent so that readings on non-percentage
// scales (temperature) can color by their own thresholds.
func Bar(width int, percent float64, color lipgloss.Color) string {
	if width < 1 {
		width = 1
	}

	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}

	filled := int(percent / 100.0 * float64(width))
	if filled > width {
		filled = width
	}

	bar := strings.Repeat("▰", filled) + strings.Repeat("▱", width-filled)
	return lipgloss.NewStyle().Foreground(color).Render(bar)
}

// SectionHeader renders a section header with the title on the left and value on the right.
// Format: ╭─ Title ────────────────────────────────────── Value ╮
func SectionHeader(title, value string, width int) string {
	if width < 10 {
		width = 10
	}

	// Left: "╭─ " + title + " "
	leftWidth := 3 + lipgloss.Width(title) + 1

	// Right: " " + value + " ╮"
	rightWidth := 1 + lipgloss.Width(value) + 2

	fillWidth := width - leftWidth - rightWidth
	if fillWidth < 1 {
		fillWidth = 1
	}

	middle := strings.Repeat("─", fillWidth)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	titleStyle := lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(ColorGraph).Bold(true)

	return borderStyle.Render("╭─ ") +
		titleStyle.Render(title) +
		borderStyle.Render(" "+middle+" ") +
		valueStyle.Render(value) +
		borderStyle.Render(" ╮")
}

// SectionFooter renders the bottom border of a section.
// Format: ╰────────────────────────────────────────────────────╯
func SectionFooter(width int) string {
	if width < 2 {
		width = 2
	}

	middle := strings.Repeat("─", width-2)

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)
	return borderStyle.Render("╰" + middle + "╯")
}

// SectionContentLine renders a content line with left and right borders, properly padded to width.
// Format: │ content                                              │
func SectionContentLine(content string, width int) string {
	if width < 4 {
		width = 4
	}

	borderStyle := lipgloss.NewStyle().Foreground(ColorBorder)

	contentWidth := lipgloss.Width(content)

	// "│ " on the left and " │" on the right
	innerWidth := width - 4

	padding := innerWidth - contentWidth
	if padding < 0 {
		padding = 0
	}

	return borderStyle.Render("│") + " " + content + strings.Repeat(" ", padding) + " " + borderStyle.Render("│")
}
