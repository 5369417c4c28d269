package monitor

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const helpKeyWidth = 12

var (
	helpFrame = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorAccent).
			Background(ColorSurfaceBg).
			Padding(1, 3)

	helpHeading = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	helpKey     = lipgloss.NewStyle().Foreground(ColorTextPrimary).Bold(true).Width(helpKeyWidth)
	helpDesc    = lipgloss.NewStyle().Foreground(ColorTextSecondary)
)

// renderHelpOverlay centers the key reference over the dashboard.
func (m Model) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(helpHeading.Render("sysdash keys"))
	b.WriteString("\n")

	for _, section := range m.keys.sections() {
		b.WriteString("\n")
		b.WriteString(LabelStyle.Render(strings.ToUpper(section.title)))
		b.WriteString("\n")
		for _, binding := range section.bindings {
			h := binding.Help()
			b.WriteString(helpKey.Render(h.Key))
			b.WriteString(helpDesc.Render(h.Desc))
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(LabelStyle.Render("Chart ranges reuse retained history and never fetch."))

	box := helpFrame.Render(b.String())
	if m.width <= 0 || m.height <= 0 {
		return box
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box,
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(ColorDarkBg))
}
