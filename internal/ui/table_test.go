package ui

import (
	"strings"
	"testing"

	"github.com/charmbracelet/bubbles/table"
	"github.com/stretchr/testify/assert"
)

func TestNewTable(t *testing.T) {
	columns := []TableColumn{
		{Title: "PID", Width: 8},
		{Title: "Name", Width: 20},
	}
	rows := []table.Row{
		{"1", "init"},
		{"42", "postgres"},
	}

	view := NewTable(columns, rows).View()
	assert.Contains(t, view, "PID")
	assert.Contains(t, view, "Name")
	assert.Contains(t, view, "init")
	assert.Contains(t, view, "postgres")
}

func TestNewTable_EmptyRows(t *testing.T) {
	view := NewTable([]TableColumn{{Title: "Name", Width: 20}}, []table.Row{}).View()
	assert.Contains(t, view, "Name")
}

func TestColumns(t *testing.T) {
	cols := Columns([]TableColumn{{Title: "CPU %", Width: 7}})
	assert.Equal(t, []table.Column{{Title: "CPU %", Width: 7}}, cols)
}

func TestRenderSimpleTable(t *testing.T) {
	columns := []TableColumn{{Title: "Interface", Width: 12}, {Title: "Recv", Width: 10}}
	out := RenderSimpleTable(columns, [][]string{{"eth0", "1.5 KB"}})
	assert.Contains(t, out, "Interface")
	assert.Contains(t, out, "eth0")
	assert.Contains(t, out, "1.5 KB")
}

func TestRenderSimpleTable_EmptyRows(t *testing.T) {
	assert.Empty(t, RenderSimpleTable([]TableColumn{{Title: "X", Width: 3}}, nil))
}

func TestRenderKeyValues(t *testing.T) {
	out := RenderKeyValues([]KeyValue{
		{Key: "CPU", Value: "35.8%"},
		{Key: "Memory", Value: "50.0%"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 2)
	assert.Contains(t, lines[0], "35.8%")
	assert.Contains(t, lines[1], "Memory")
}

func TestPadRight(t *testing.T) {
	tests := []struct {
		input string
		width int
		want  string
	}{
		{"abc", 5, "abc  "},
		{"abcdef", 3, "abcdef"},
		{"", 2, "  "},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, padRight(tt.input, tt.width))
	}
}
