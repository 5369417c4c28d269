package monitor

import (
	stderrors "errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/store"
)

// renderDashboard renders the complete dashboard view.
func (m Model) renderDashboard() string {
	width := m.contentWidth()

	var b strings.Builder
	b.WriteString(m.renderTop())
	b.WriteString("\n")
	b.WriteString(m.renderProcesses(width))

	if m.ShowFooter() {
		b.WriteString("\n")
		b.WriteString(m.renderFooter())
	}

	return b.String()
}

// renderTop renders everything above the process table. It is also used to
// measure how much height the table can have.
func (m Model) renderTop() string {
	width := m.contentWidth()

	parts := []string{m.renderHeader()}
	if banner := m.renderBanner(width); banner != "" {
		parts = append(parts, banner)
	}
	parts = append(parts, m.renderCards(width), m.renderGraphs(width))
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// renderHeader renders the title, endpoint, data source, and update age.
func (m Model) renderHeader() string {
	title := lipgloss.NewStyle().
		Foreground(ColorAccent).
		Bold(true).
		Render("sysdash")

	badge := LiveBadgeStyle.Render("LIVE")
	if m.Degraded() {
		badge = SyntheticBadgeStyle.Render("SYNTHETIC")
	}

	var updateText string
	switch secs := m.SecondsSinceUpdate(); {
	case m.snapshot.CapturedAt.IsZero():
		updateText = "waiting for data"
	case secs == 0:
		updateText = "updated just now"
	default:
		updateText = fmt.Sprintf("updated %ds ago", secs)
	}
	if m.Loading() {
		updateText += " · refreshing"
	}

	endpoint := m.endpoint
	if endpoint == "" {
		endpoint = "no endpoint"
	}

	stats := lipgloss.NewStyle().
		Foreground(ColorTextSecondary).
		Render(fmt.Sprintf(" | %s | %s ", endpoint, updateText))

	return HeaderStyle.Render(title+stats) + " " + badge
}

// renderBanner explains why data is synthetic. Empty when both slots are healthy.
func (m Model) renderBanner(width int) string {
	var lines []string
	if line := slotProblem("Status", m.statusState); line != "" {
		lines = append(lines, line)
	}
	if line := slotProblem("Processes", m.processState); line != "" {
		lines = append(lines, line)
	}
	if len(lines) == 0 {
		return ""
	}
	lines = append(lines, LabelStyle.Render("Showing synthetic data until the endpoint recovers. Press r to retry."))
	return BannerStyle.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// slotProblem describes a slot's last error, if any.
func slotProblem(name string, s store.SlotState) string {
	if s.Err == nil {
		return ""
	}
	return fmt.Sprintf("⚠ %s: %s", name, describeError(s.Err))
}

// describeError renders structured errors on one line with their code.
func describeError(err error) string {
	var e *errors.Error
	if stderrors.As(err, &e) {
		return e.Summary()
	}
	return err.Error()
}

// renderFooter renders the keyboard hints.
func (m Model) renderFooter() string {
	hints := []string{
		"q quit",
		"r refresh",
		"t/1-4 range: " + m.timeRange.String(),
		"s sort: " + m.processSort.String(),
		"↑↓ scroll",
		"? help",
	}
	return FooterStyle.Render(strings.Join(hints, " | "))
}

// splitLines splits rendered output into lines.
func splitLines(s string) []string {
	return strings.Split(s, "\n")
}
