package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
)

// TableColumn defines a table column with name and width.
type TableColumn struct {
	Title string
	Width int
}

// Columns converts TableColumns to bubbles table columns.
func Columns(columns []TableColumn) []table.Column {
	cols := make([]table.Column, len(columns))
	for i, c := range columns {
		cols[i] = table.Column{Title: c.Title, Width: c.Width}
	}
	return cols
}

// TableStyles returns bubbles table styles in the CLI palette.
func TableStyles() table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		BorderBottom(true).
		Bold(true).
		Foreground(ColorPrimary)
	s.Cell = s.Cell.
		Foreground(ColorPrimary)
	s.Selected = s.Selected.
		Foreground(ColorPrimary).
		Background(ColorMuted).
		Bold(false)
	return s
}

// NewTable creates a non-focused bubbles table sized to its rows.
func NewTable(columns []TableColumn, rows []table.Row) table.Model {
	t := table.New(
		table.WithColumns(Columns(columns)),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(len(rows)+1), // +1 for header
	)
	t.SetStyles(TableStyles())
	return t
}

// RenderSimpleTable renders a non-interactive table string for one-shot
// command output.
func RenderSimpleTable(columns []TableColumn, rows [][]string) string {
	if len(rows) == 0 {
		return ""
	}

	tableRows := make([]table.Row, len(rows))
	for i, row := range rows {
		tableRows[i] = table.Row(row)
	}
	return NewTable(columns, tableRows).View()
}

// KeyValue is one line of a key/value report.
type KeyValue struct {
	Key   string
	Value string
}

// RenderKeyValues renders aligned "key  value" lines with muted keys.
func RenderKeyValues(pairs []KeyValue) string {
	width := 0
	for _, p := range pairs {
		if w := lipgloss.Width(p.Key); w > width {
			width = w
		}
	}

	var b strings.Builder
	for _, p := range pairs {
		b.WriteString("  ")
		b.WriteString(MutedStyle().Render(padRight(p.Key, width)))
		b.WriteString("  ")
		b.WriteString(p.Value)
		b.WriteString("\n")
	}
	return b.String()
}

// padRight pads a string to the specified visible width.
func padRight(s string, width int) string {
	visibleLen := lipgloss.Width(s)
	if visibleLen >= width {
		return s
	}
	return s + strings.Repeat(" ", width-visibleLen)
}
