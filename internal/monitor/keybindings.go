package monitor

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// keyMap holds every dashboard binding. The help overlay is generated from it.
type keyMap struct {
	Quit       key.Binding
	Refresh    key.Binding
	CycleRange key.Binding
	RangeHour  key.Binding
	RangeDay   key.Binding
	RangeWeek  key.Binding
	RangeMonth key.Binding
	CycleSort  key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Help       key.Binding
	Close      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q / Ctrl+C", "Quit")),
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "Refresh now")),
		CycleRange: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "Cycle time range")),
		RangeHour:  key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "Last hour")),
		RangeDay:   key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "Last 24 hours")),
		RangeWeek:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "Last 7 days")),
		RangeMonth: key.NewBinding(key.WithKeys("4"), key.WithHelp("4", "Last 30 days")),
		CycleSort:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "Cycle process sort")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("up / k", "Scroll processes up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("down / j", "Scroll processes down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("Home / g", "First process")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("End / G", "Last process")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "Toggle this help")),
		Close:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("Esc", "Close help")),
	}
}

// helpSection groups bindings under a heading in the help overlay.
type helpSection struct {
	title    string
	bindings []key.Binding
}

func (k keyMap) sections() []helpSection {
	return []helpSection{
		{"Data", []key.Binding{k.Refresh, k.Quit}},
		{"Charts", []key.Binding{k.CycleRange, k.RangeHour, k.RangeDay, k.RangeWeek, k.RangeMonth}},
		{"Processes", []key.Binding{k.CycleSort, k.Up, k.Down, k.Top, k.Bottom}},
		{"Help", []key.Binding{k.Help, k.Close}},
	}
}

// bindings lists every binding in help order.
func (k keyMap) bindings() []key.Binding {
	var out []key.Binding
	for _, s := range k.sections() {
		out = append(out, s.bindings...)
	}
	return out
}

// HandleKeyMsg processes keyboard input and returns updated model state and command.
// Returns true if the key was handled, false otherwise.
//
// Only the refresh key returns a command that reaches the poller; range and
// sort keys work purely on data already in the store.
func (m *Model) HandleKeyMsg(msg tea.KeyMsg) (bool, tea.Cmd) {
	// Help toggle takes priority
	if key.Matches(msg, m.keys.Help) {
		m.showHelp = !m.showHelp
		return true, nil
	}

	if m.showHelp && key.Matches(msg, m.keys.Close) {
		m.showHelp = false
		return true, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return true, tea.Quit

	case key.Matches(msg, m.keys.Refresh):
		if m.refreshing {
			return true, nil
		}
		cmd := m.refreshCmd()
		m.refreshing = cmd != nil
		m.log.Debug("manual refresh requested")
		return true, cmd

	case key.Matches(msg, m.keys.CycleRange):
		m.setTimeRange(m.timeRange.Next())
		return true, nil

	case key.Matches(msg, m.keys.RangeHour):
		m.setTimeRange(metrics.RangeHour)
		return true, nil

	case key.Matches(msg, m.keys.RangeDay):
		m.setTimeRange(metrics.RangeDay)
		return true, nil

	case key.Matches(msg, m.keys.RangeWeek):
		m.setTimeRange(metrics.RangeWeek)
		return true, nil

	case key.Matches(msg, m.keys.RangeMonth):
		m.setTimeRange(metrics.RangeMonth)
		return true, nil

	case key.Matches(msg, m.keys.CycleSort):
		m.processSort = m.processSort.Next()
		m.refreshTable()
		return true, nil

	case key.Matches(msg, m.keys.Up):
		m.table.MoveUp(1)
		return true, nil

	case key.Matches(msg, m.keys.Down):
		m.table.MoveDown(1)
		return true, nil

	case key.Matches(msg, m.keys.Top):
		m.table.GotoTop()
		return true, nil

	case key.Matches(msg, m.keys.Bottom):
		m.table.GotoBottom()
		return true, nil
	}

	return false, nil
}
