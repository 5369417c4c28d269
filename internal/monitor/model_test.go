package monitor

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/poller"
	"github.com/rileyhilliard/sysdash/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

type fakeRefresher struct {
	calls atomic.Int32
}

func (f *fakeRefresher) Refresh(ctx context.Context) poller.RefreshResult {
	f.calls.Add(1)
	return poller.RefreshResult{StatusStarted: true, ProcessesStarted: true}
}

func testStatus(cpu float64) metrics.SystemStatus {
	return metrics.SystemStatus{
		CPU:    metrics.CPUStatus{UsagePercent: cpu, TemperatureC: 45.2},
		Memory: metrics.Usage{TotalBytes: 16 << 30, UsedBytes: 8 << 30, FreeBytes: 8 << 30, UsagePercent: 50},
		Disk:   metrics.Usage{TotalBytes: 512 << 30, UsedBytes: 128 << 30, FreeBytes: 384 << 30, UsagePercent: 25},
		Network: []metrics.NetworkInterface{
			{Name: "lo", BytesSent: 10, BytesRecv: 10},
			{Name: "eth0", BytesSent: 1000, BytesRecv: 2000},
		},
	}
}

func testProcesses() []metrics.Process {
	return []metrics.Process{
		{PID: 300, Name: "postgres", CPUPercent: 5, MemPercent: 12, Status: metrics.StatusRunning},
		{PID: 1, Name: "init", CPUPercent: 0.1, MemPercent: 0.5, Status: metrics.StatusSleeping},
		{PID: 42, Name: "nginx", CPUPercent: 22, MemPercent: 3, Status: metrics.StatusRunning},
	}
}

// liveStore returns a store with one live status and process list at base.
func liveStore(t *testing.T) *store.Store {
	t.Helper()
	st := store.New(0)
	st.SetStatus(testStatus(35.8), metrics.SourceLive, base, nil)
	st.SetProcesses(testProcesses(), metrics.SourceLive, base, nil)
	return st
}

func newTestModel(t *testing.T, st *store.Store, r Refresher) Model {
	t.Helper()
	return NewModel(Options{
		Store:     st,
		Refresher: r,
		Endpoint:  "http://127.0.0.1:7800/api",
		Now:       func() time.Time { return base.Add(3 * time.Second) },
	})
}

func TestNewModel_LoadsStore(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})

	assert.Equal(t, 35.8, m.Snapshot().Status.CPU.UsagePercent)
	assert.Len(t, m.Snapshot().Processes, 3)
	assert.False(t, m.Degraded())
	assert.False(t, m.Loading())
	assert.Equal(t, metrics.RangeHour, m.TimeRange())
	assert.Equal(t, metrics.SortByCPU, m.ProcessSort())
	assert.Equal(t, 1, m.Series().Len())
}

func TestNewModel_Defaults(t *testing.T) {
	m := NewModel(Options{Store: store.New(0)})
	assert.Equal(t, DefaultThresholds(), m.thresholds)
	assert.NotNil(t, m.log)
	assert.NotNil(t, m.now)

	custom := Thresholds{CPUWarning: 50, CPUCritical: 60, TemperatureWarning: 40, TemperatureCritical: 80}
	m = NewModel(Options{Store: store.New(0), Thresholds: custom})
	assert.Equal(t, custom, m.thresholds)
}

func TestModel_Init(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	assert.NotNil(t, m.Init())
}

func TestModel_StoreUpdateReloads(t *testing.T) {
	st := liveStore(t)
	m := newTestModel(t, st, &fakeRefresher{})

	st.SetStatus(testStatus(80), metrics.SourceLive, base.Add(time.Minute), nil)

	updated, cmd := m.Update(storeUpdatedMsg{})
	m = updated.(Model)
	assert.NotNil(t, cmd, "resubscribes to the store")
	assert.Equal(t, 80.0, m.Snapshot().Status.CPU.UsagePercent)
	assert.Equal(t, 2, m.Series().Len())
}

func TestModel_WaitForUpdate(t *testing.T) {
	st := store.New(0)
	m := newTestModel(t, st, &fakeRefresher{})

	cmd := m.waitForUpdate()
	require.NotNil(t, cmd)

	got := make(chan tea.Msg, 1)
	go func() { got <- cmd() }()

	st.SetStatus(testStatus(10), metrics.SourceLive, base, nil)

	select {
	case msg := <-got:
		assert.IsType(t, storeUpdatedMsg{}, msg)
	case <-time.After(time.Second):
		t.Fatal("store update was not delivered")
	}
}

func TestModel_WaitForUpdateWithoutStore(t *testing.T) {
	m := NewModel(Options{})
	assert.Nil(t, m.waitForUpdate())
}

func TestModel_DegradedState(t *testing.T) {
	st := liveStore(t)
	fetchErr := errors.New(errors.ErrTransport, "Can't reach the metrics endpoint", "")
	st.SetStatus(testStatus(20), metrics.SourceSynthetic, base.Add(time.Second), fetchErr)

	m := newTestModel(t, st, &fakeRefresher{})
	assert.True(t, m.Degraded())
	assert.Equal(t, fetchErr, m.statusState.Err)
	assert.Nil(t, m.processState.Err)
}

func TestModel_LoadingWhileInFlight(t *testing.T) {
	st := liveStore(t)
	st.BeginProcesses()

	m := newTestModel(t, st, &fakeRefresher{})
	assert.True(t, m.Loading())
}

func TestModel_SecondsSinceUpdate(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	assert.Equal(t, 3, m.SecondsSinceUpdate())

	m.now = func() time.Time { return base.Add(-time.Second) }
	assert.Equal(t, 0, m.SecondsSinceUpdate(), "clock skew never goes negative")

	empty := NewModel(Options{Store: store.New(0)})
	assert.Equal(t, 0, empty.SecondsSinceUpdate())
}

func TestModel_RefreshDoneClearsFlag(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	m.refreshing = true

	updated, cmd := m.Update(refreshDoneMsg{})
	assert.Nil(t, cmd)
	assert.False(t, updated.(Model).refreshing)
}

func TestModel_ClockTickReschedules(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	_, cmd := m.Update(clockTickMsg(base))
	assert.NotNil(t, cmd)
}

func TestModel_WindowSizeFitsTable(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 140, Height: 80})
	m = updated.(Model)
	tall := m.table.Height()

	updated, _ = m.Update(tea.WindowSizeMsg{Width: 140, Height: 20})
	m = updated.(Model)

	assert.Greater(t, tall, minTableHeight)
	assert.Equal(t, minTableHeight, m.table.Height())
}

func TestModel_LayoutMode(t *testing.T) {
	tests := []struct {
		width int
		want  LayoutMode
	}{
		{40, LayoutMinimal},
		{79, LayoutMinimal},
		{80, LayoutCompact},
		{119, LayoutCompact},
		{120, LayoutStandard},
		{159, LayoutStandard},
		{160, LayoutWide},
		{300, LayoutWide},
	}

	for _, tt := range tests {
		m := Model{width: tt.width}
		assert.Equal(t, tt.want, m.LayoutMode(), "width %d", tt.width)
	}
}

func TestModel_ShowFooter(t *testing.T) {
	assert.False(t, Model{height: 23}.ShowFooter())
	assert.True(t, Model{height: 24}.ShowFooter())
}

func TestModel_QuittingRendersNothing(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	m.quitting = true
	assert.Empty(t, m.View())
}
