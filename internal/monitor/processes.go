package monitor

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/ui"
)

// Fixed process column widths; the name column takes the rest.
const (
	pidColumnWidth     = 8
	percentColumnWidth = 8
	statusColumnWidth  = 11
	minNameColumnWidth = 12
	cellPadding        = 2 // bubbles table pads each cell by one on both sides
)

// processColumns sizes the table to width.
func processColumns(width int) []table.Column {
	fixed := pidColumnWidth + 2*percentColumnWidth + statusColumnWidth + 5*cellPadding
	name := width - fixed
	if name < minNameColumnWidth {
		name = minNameColumnWidth
	}
	return ui.Columns([]ui.TableColumn{
		{Title: "PID", Width: pidColumnWidth},
		{Title: "Name", Width: name},
		{Title: "CPU %", Width: percentColumnWidth},
		{Title: "MEM %", Width: percentColumnWidth},
		{Title: "Status", Width: statusColumnWidth},
	})
}

func newProcessTable() table.Model {
	t := table.New(
		table.WithColumns(processColumns(BreakpointCompact)),
		table.WithFocused(true),
		table.WithHeight(minTableHeight),
	)

	s := ui.TableStyles()
	s.Header = s.Header.Foreground(ColorAccent).BorderForeground(ColorBorder)
	s.Cell = s.Cell.Foreground(ColorTextPrimary)
	s.Selected = s.Selected.Foreground(ColorTextPrimary).Background(ColorBorder)
	t.SetStyles(s)
	return t
}

// processRows formats processes in table order.
func processRows(ps []metrics.Process) []table.Row {
	rows := make([]table.Row, len(ps))
	for i, p := range ps {
		rows[i] = table.Row{
			strconv.FormatUint(uint64(p.PID), 10),
			p.Name,
			fmt.Sprintf("%.1f", p.CPUPercent),
			fmt.Sprintf("%.1f", p.MemPercent),
			statusGlyph(p.Status) + " " + p.Status.Label(),
		}
	}
	return rows
}

// statusGlyph returns an uncolored glyph; table cells are styled as a whole.
func statusGlyph(s metrics.ProcessStatus) string {
	switch s {
	case metrics.StatusRunning:
		return StatusRunningGlyph
	case metrics.StatusStopped:
		return StatusStoppedGlyph
	default:
		return StatusSleepingGlyph
	}
}

// refreshTable reloads table rows in the current sort order, keeping the
// cursor in range.
func (m *Model) refreshTable() {
	sorted := metrics.SortProcesses(m.snapshot.Processes, m.processSort)
	m.table.SetRows(processRows(sorted))
	if c := m.table.Cursor(); c >= len(sorted) {
		m.table.SetCursor(max(0, len(sorted)-1))
	}
}

// renderProcesses renders the process table inside a section frame.
func (m Model) renderProcesses(width int) string {
	title := fmt.Sprintf("Processes (%d)", len(m.snapshot.Processes))
	value := "sort: " + m.processSort.String()
	if m.processState.Degraded() {
		value += " · synthetic"
	}

	body := m.table.View()
	if len(m.snapshot.Processes) == 0 {
		body = LabelStyle.Render("No processes reported")
	}

	lines := []string{SectionHeader(title, value, width)}
	for _, line := range splitLines(body) {
		lines = append(lines, SectionContentLine(line, width))
	}
	lines = append(lines, SectionFooter(width))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
