package monitor

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/poller"
	"github.com/rileyhilliard/sysdash/internal/series"
	"github.com/rileyhilliard/sysdash/internal/store"
)

// LayoutMode represents the responsive layout mode based on terminal size.
type LayoutMode int

const (
	// LayoutMinimal is for terminals < 80 columns: one card per row
	LayoutMinimal LayoutMode = iota
	// LayoutCompact is for terminals 80-120 columns
	LayoutCompact
	// LayoutStandard is for terminals 120-160 columns: all cards on one row
	LayoutStandard
	// LayoutWide is for terminals 160+ columns: graphs side by side
	LayoutWide
)

// Width breakpoints for layout modes
const (
	BreakpointCompact  = 80
	BreakpointStandard = 120
	BreakpointWide     = 160
)

// HeightMinimal is the smallest height that still shows the footer.
const HeightMinimal = 24

// minTableHeight keeps a few process rows visible on short terminals.
const minTableHeight = 5

// clockInterval re-renders the "updated Ns ago" age.
const clockInterval = time.Second

// Refresher runs an immediate fetch of both kinds. *poller.Poller satisfies it.
type Refresher interface {
	Refresh(ctx context.Context) poller.RefreshResult
}

// Thresholds color the CPU and temperature readings.
type Thresholds struct {
	CPUWarning          int
	CPUCritical         int
	TemperatureWarning  int
	TemperatureCritical int
}

// DefaultThresholds returns 70/90 % for CPU and 50/70 °C for temperature.
func DefaultThresholds() Thresholds {
	return Thresholds{
		CPUWarning:          int(WarningThreshold),
		CPUCritical:         int(CriticalThreshold),
		TemperatureWarning:  int(TemperatureWarningC),
		TemperatureCritical: int(TemperatureCriticalC),
	}
}

// Options configures a Model.
type Options struct {
	Store      *store.Store
	Refresher  Refresher
	Endpoint   string
	TimeRange  metrics.TimeRange
	Thresholds Thresholds
	Logger     logger.Logger
	Now        func() time.Time
}

// Model is the Bubble Tea model for the dashboard. It only reads the store;
// fetching belongs to the poller, reached through the Refresher.
type Model struct {
	store     *store.Store
	refresher Refresher
	endpoint  string
	log       logger.Logger
	now       func() time.Time
	keys      keyMap

	timeRange   metrics.TimeRange
	processSort metrics.ProcessSort
	thresholds  Thresholds

	snapshot     metrics.Snapshot
	statusState  store.SlotState
	processState store.SlotState
	series       series.Series
	rates        []store.NetworkRate
	netIn        float64 // bytes/s summed over non-loopback interfaces
	netOut       float64

	table table.Model

	width      int
	height     int
	showHelp   bool
	quitting   bool
	refreshing bool
}

// storeUpdatedMsg signals that the store changed.
type storeUpdatedMsg struct{}

// clockTickMsg re-renders relative timestamps.
type clockTickMsg time.Time

// refreshDoneMsg reports a manual refresh finished.
type refreshDoneMsg struct {
	result poller.RefreshResult
}

// NewModel creates a dashboard over st. Zero thresholds select the defaults.
func NewModel(opts Options) Model {
	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	thresholds := opts.Thresholds
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds()
	}

	m := Model{
		store:      opts.Store,
		refresher:  opts.Refresher,
		endpoint:   opts.Endpoint,
		log:        log,
		now:        now,
		keys:       defaultKeyMap(),
		timeRange:  opts.TimeRange,
		thresholds: thresholds,
		table:      newProcessTable(),
	}
	m.reload()
	return m
}

// Init subscribes to store updates and starts the clock.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.waitForUpdate(),
		m.clockTickCmd(),
	)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		handled, cmd := m.HandleKeyMsg(msg)
		if handled {
			return m, cmd
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeTable()

	case storeUpdatedMsg:
		m.reload()
		return m, m.waitForUpdate()

	case clockTickMsg:
		return m, m.clockTickCmd()

	case refreshDoneMsg:
		m.refreshing = false
		m.log.Debug("manual refresh finished (status started: %t, processes started: %t)",
			msg.result.StatusStarted, msg.result.ProcessesStarted)
	}

	return m, nil
}

// View renders the dashboard.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	return m.renderDashboard()
}

// waitForUpdate blocks until the store signals a change.
func (m Model) waitForUpdate() tea.Cmd {
	if m.store == nil {
		return nil
	}
	updates := m.store.Updates()
	return func() tea.Msg {
		<-updates
		return storeUpdatedMsg{}
	}
}

func (m Model) clockTickCmd() tea.Cmd {
	return tea.Tick(clockInterval, func(t time.Time) tea.Msg {
		return clockTickMsg(t)
	})
}

// refreshCmd asks the poller for an immediate fetch of both kinds.
func (m Model) refreshCmd() tea.Cmd {
	if m.refresher == nil {
		return nil
	}
	refresher := m.refresher
	return func() tea.Msg {
		return refreshDoneMsg{result: refresher.Refresh(context.Background())}
	}
}

// reload copies the latest store state into the model.
func (m *Model) reload() {
	if m.store == nil {
		return
	}
	m.snapshot = m.store.Snapshot()
	m.statusState = m.store.StatusState()
	m.processState = m.store.ProcessesState()
	m.series = series.Derive(m.store.History(), m.timeRange)
	recent := m.store.Recent(2)
	m.rates = store.NetworkRates(recent)
	m.netIn, m.netOut = store.TotalNetworkRate(recent)
	m.refreshTable()
	m.resizeTable()
}

// setTimeRange re-derives the charts from retained history. It never fetches.
func (m *Model) setTimeRange(r metrics.TimeRange) {
	if r == m.timeRange {
		return
	}
	m.timeRange = r
	if m.store != nil {
		m.series = series.Derive(m.store.History(), r)
	}
	m.log.Debug("time range changed to %s", r)
}

// TimeRange returns the selected chart range.
func (m Model) TimeRange() metrics.TimeRange {
	return m.timeRange
}

// ProcessSort returns the process table order.
func (m Model) ProcessSort() metrics.ProcessSort {
	return m.processSort
}

// Series returns the derived chart data for the selected range.
func (m Model) Series() series.Series {
	return m.series
}

// Snapshot returns the snapshot the view is rendering.
func (m Model) Snapshot() metrics.Snapshot {
	return m.snapshot
}

// Degraded reports whether either half of the view is synthetic.
func (m Model) Degraded() bool {
	return m.statusState.Degraded() || m.processState.Degraded()
}

// Loading reports whether a fetch of either kind is in flight.
func (m Model) Loading() bool {
	return m.statusState.Loading || m.processState.Loading || m.refreshing
}

// SecondsSinceUpdate returns how many seconds have passed since the status
// half last changed.
func (m Model) SecondsSinceUpdate() int {
	if m.snapshot.CapturedAt.IsZero() {
		return 0
	}
	secs := int(m.now().Sub(m.snapshot.CapturedAt).Seconds())
	if secs < 0 {
		return 0
	}
	return secs
}

// LayoutMode returns the current layout mode based on terminal width.
func (m Model) LayoutMode() LayoutMode {
	switch {
	case m.width >= BreakpointWide:
		return LayoutWide
	case m.width >= BreakpointStandard:
		return LayoutStandard
	case m.width >= BreakpointCompact:
		return LayoutCompact
	default:
		return LayoutMinimal
	}
}

// ShowFooter returns true if the terminal is tall enough to show the footer.
func (m Model) ShowFooter() bool {
	return m.height >= HeightMinimal
}

// resizeTable fits the process table into whatever height the rest of the
// dashboard leaves over.
func (m *Model) resizeTable() {
	if m.width <= 0 || m.height <= 0 {
		return
	}
	inner := m.contentWidth() - 4 // section borders
	m.table.SetColumns(processColumns(inner))
	m.table.SetWidth(inner)

	used := lipgloss.Height(m.renderTop()) + 2 // section header and footer
	if m.ShowFooter() {
		used += 2
	}
	h := m.height - used
	if h < minTableHeight {
		h = minTableHeight
	}
	m.table.SetHeight(h)
}

// contentWidth is the usable width inside the screen margin.
func (m Model) contentWidth() int {
	if m.width <= 0 {
		return BreakpointCompact
	}
	return m.width - 2
}
