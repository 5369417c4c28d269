package monitor

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// cardCount is the number of stat cards.
const cardCount = 5

// cardMinWidth keeps values and bars legible.
const cardMinWidth = 22

// statCard is the content of one card before layout.
type statCard struct {
	title  string
	value  string
	detail string
	bar    string
}

// renderCardLine pads content to width with the card background.
func renderCardLine(content string, width int) string {
	contentWidth := lipgloss.Width(content)
	padding := ""
	if width > contentWidth {
		padding = strings.Repeat(" ", width-contentWidth)
	}
	return lipgloss.NewStyle().Background(ColorSurfaceBg).Render(content + padding)
}

// render draws the card at the given outer width.
func (c statCard) render(width int) string {
	inner := width - 5 // border, padding, and margin
	if inner < 1 {
		inner = 1
	}

	// Title on the left, value right-aligned.
	title := LabelStyle.Render(c.title)
	gap := inner - lipgloss.Width(title) - lipgloss.Width(c.value)
	if gap < 1 {
		gap = 1
	}

	lines := []string{
		renderCardLine(title+strings.Repeat(" ", gap)+c.value, inner),
		renderCardLine(c.bar, inner),
		renderCardLine(LabelStyle.Render(c.detail), inner),
	}
	return CardStyle.Width(width - 3).Render(strings.Join(lines, "\n"))
}

// cpuCard shows CPU usage against the CPU thresholds.
func (m Model) cpuCard(barWidth int) statCard {
	pct := metrics.ClampPercent(m.snapshot.Status.CPU.UsagePercent)
	color := MetricColorWithThresholds(pct, m.thresholds.CPUWarning, m.thresholds.CPUCritical)
	return statCard{
		title:  "CPU",
		value:  lipgloss.NewStyle().Foreground(color).Bold(true).Render(metrics.FormatPercent(pct)),
		detail: "usage",
		bar:    Bar(barWidth, pct, color),
	}
}

// temperatureCard colors by degrees Celsius but fills the bar across the
// sensor range, so 20 °C reads as empty and 100 °C as full.
func (m Model) temperatureCard(barWidth int) statCard {
	c := m.snapshot.Status.CPU.TemperatureC
	if c <= 0 {
		return statCard{
			title:  "Temperature",
			value:  LabelStyle.Render("n/a"),
			detail: "no CPU sensor",
			bar:    Bar(barWidth, 0, ColorTextMuted),
		}
	}
	color := MetricColorWithThresholds(c, m.thresholds.TemperatureWarning, m.thresholds.TemperatureCritical)
	return statCard{
		title:  "Temperature",
		value:  lipgloss.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("%.1f°C", c)),
		detail: fmt.Sprintf("%.0f-%.0f°C range", metrics.TemperatureFloorC, metrics.TemperatureCeilingC),
		bar:    Bar(barWidth, metrics.TemperaturePercent(c), color),
	}
}

// usageCard shows a capacity-bounded resource.
func usageCard(title string, u metrics.Usage, barWidth int) statCard {
	pct := metrics.ClampPercent(u.UsagePercent)
	color := MetricColor(pct)
	return statCard{
		title:  title,
		value:  lipgloss.NewStyle().Foreground(color).Bold(true).Render(metrics.FormatPercent(pct)),
		detail: metrics.FormatBytes(u.UsedBytes) + " / " + metrics.FormatBytes(u.TotalBytes),
		bar:    Bar(barWidth, pct, color),
	}
}

// networkCard names the primary interface with its cumulative counters. The
// rate line is throughput summed over every non-loopback interface, from the
// last two samples.
func (m Model) networkCard() statCard {
	iface, ok := m.snapshot.Status.PrimaryInterface()
	if !ok {
		return statCard{title: "Network", value: LabelStyle.Render("n/a"), detail: "no interfaces"}
	}

	name := ValueStyle.Bold(true).Render(iface.Name)
	if extra := m.extraInterfaces(iface.Name); extra > 0 {
		name += LabelStyle.Render(fmt.Sprintf(" +%d", extra))
	}

	rate := LabelStyle.Render("rate pending")
	if len(m.rates) > 0 {
		arrow := lipgloss.NewStyle().Foreground(ColorAccent)
		rate = arrow.Render("↓") + ValueStyle.Render(metrics.FormatRate(m.netIn)) + " " +
			arrow.Render("↑") + ValueStyle.Render(metrics.FormatRate(m.netOut))
	}

	return statCard{
		title:  "Network",
		value:  name,
		detail: "rx " + metrics.FormatBytes(iface.BytesRecv) + " · tx " + metrics.FormatBytes(iface.BytesSent),
		bar:    rate,
	}
}

// extraInterfaces counts non-loopback interfaces other than primary.
func (m Model) extraInterfaces(primary string) int {
	n := 0
	for _, iface := range m.snapshot.Status.Network {
		if iface.Name != primary && !metrics.IsLoopback(iface.Name) {
			n++
		}
	}
	return n
}

// renderCards lays the stat cards out in as many columns as fit.
func (m Model) renderCards(width int) string {
	perRow := cardCount
	for perRow > 1 && width/perRow < cardMinWidth {
		perRow--
	}
	cardWidth := width / perRow
	barWidth := cardWidth - 5
	if barWidth < 1 {
		barWidth = 1
	}

	cards := []statCard{
		m.cpuCard(barWidth),
		m.temperatureCard(barWidth),
		usageCard("Memory", m.snapshot.Status.Memory, barWidth),
		usageCard("Disk", m.snapshot.Status.Disk, barWidth),
		m.networkCard(),
	}

	var rows []string
	for i := 0; i < len(cards); i += perRow {
		end := min(i+perRow, len(cards))
		rendered := make([]string, 0, end-i)
		for _, c := range cards[i:end] {
			rendered = append(rendered, c.render(cardWidth))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, rendered...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
