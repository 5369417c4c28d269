package monitor

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/store"
	"github.com/stretchr/testify/assert"
)

func sized(m Model, width, height int) Model {
	updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: height})
	return updated.(Model)
}

func TestView_LiveDashboard(t *testing.T) {
	m := sized(newTestModel(t, liveStore(t), &fakeRefresher{}), 140, 60)
	view := m.View()

	for _, want := range []string{
		"sysdash",
		"http://127.0.0.1:7800/api",
		"updated 3s ago",
		"LIVE",
		"CPU",
		"Temperature",
		"Memory",
		"Disk",
		"Network",
		"eth0",
		"Processes (3)",
		"postgres",
		"sort: CPU",
		"q quit",
	} {
		assert.Contains(t, view, want)
	}
	assert.NotContains(t, view, "SYNTHETIC")
	assert.NotContains(t, view, "Press r to retry")
}

func TestRenderTop_NeverExceedsWidth(t *testing.T) {
	for _, width := range []int{90, 130, 180} {
		t.Run(fmt.Sprint(width), func(t *testing.T) {
			m := sized(newTestModel(t, liveStore(t), &fakeRefresher{}), width, 60)
			for i, line := range splitLines(m.renderTop()) {
				assert.LessOrEqual(t, lipgloss.Width(line), width, "line %d", i)
			}
		})
	}
}

func TestView_SyntheticBanner(t *testing.T) {
	st := liveStore(t)
	st.SetStatus(testStatus(20), metrics.SourceSynthetic, base.Add(time.Second),
		errors.New(errors.ErrTransport, "Can't reach the metrics endpoint", "Is it running?"))
	st.SetProcesses(testProcesses(), metrics.SourceSynthetic, base.Add(time.Second),
		errors.New(errors.ErrProtocol, "Endpoint returned 503", ""))

	m := sized(newTestModel(t, st, &fakeRefresher{}), 140, 60)
	view := m.View()

	assert.Contains(t, view, "SYNTHETIC")
	assert.Contains(t, view, "TRANSPORT: Can't reach the metrics endpoint")
	assert.Contains(t, view, "PROTOCOL: Endpoint returned 503")
	assert.Contains(t, view, "Press r to retry")
	assert.Contains(t, view, "· synthetic")
}

func TestView_WaitingForData(t *testing.T) {
	m := sized(NewModel(Options{Store: store.New(0)}), 120, 40)
	view := m.View()

	assert.Contains(t, view, "waiting for data")
	assert.Contains(t, view, "no endpoint")
	assert.Contains(t, view, "Collecting data...")
	assert.Contains(t, view, "No processes reported")
}

func TestRenderHeader_Refreshing(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	m.HandleKeyMsg(runeKey("r"))
	assert.Contains(t, m.renderHeader(), "refreshing")

	m.now = func() time.Time { return base }
	m.refreshing = false
	assert.Contains(t, m.renderHeader(), "updated just now")
}

func TestView_FooterHiddenWhenShort(t *testing.T) {
	m := sized(newTestModel(t, liveStore(t), &fakeRefresher{}), 140, HeightMinimal-1)
	assert.NotContains(t, m.View(), "q quit")
}

func TestRenderFooter_ReflectsState(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	m.HandleKeyMsg(runeKey("3"))
	m.HandleKeyMsg(runeKey("s"))

	footer := m.renderFooter()
	assert.Contains(t, footer, "range: week")
	assert.Contains(t, footer, "sort: MEM")
}

func TestView_HelpOverlay(t *testing.T) {
	m := sized(newTestModel(t, liveStore(t), &fakeRefresher{}), 120, 40)
	m.HandleKeyMsg(runeKey("?"))

	view := m.View()
	assert.Contains(t, view, "sysdash keys")
	for _, heading := range []string{"DATA", "CHARTS", "PROCESSES", "HELP"} {
		assert.Contains(t, view, heading)
	}
	for _, b := range m.keys.bindings() {
		assert.Contains(t, view, b.Help().Desc)
	}
	assert.NotContains(t, view, "Processes (3)")
}

func TestDescribeError(t *testing.T) {
	structured := errors.WrapWithCode(fmt.Errorf("dial tcp: connection refused"), errors.ErrTransport,
		"Can't reach the metrics endpoint", "")
	assert.Equal(t, "TRANSPORT: Can't reach the metrics endpoint: dial tcp: connection refused", describeError(structured))

	wrapped := fmt.Errorf("poll: %w", errors.New(errors.ErrSchema, "status.cpu is missing", ""))
	assert.Equal(t, "SCHEMA: status.cpu is missing", describeError(wrapped))

	assert.Equal(t, "boom", describeError(fmt.Errorf("boom")))
}

func TestTemperatureCard(t *testing.T) {
	tests := []struct {
		name    string
		celsius float64
		color   lipgloss.Color
	}{
		{"cool", 45.2, ColorHealthy},
		{"warm", 55, ColorWarning},
		// 75°C fills only ~69% of the bar but is already critical.
		{"hot", 75, ColorCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestModel(t, liveStore(t), &fakeRefresher{})
			m.snapshot.Status.CPU.TemperatureC = tt.celsius

			card := m.temperatureCard(20)
			assert.Contains(t, card.value, fmt.Sprintf("%.1f°C", tt.celsius))
			assert.Equal(t, Bar(20, metrics.TemperaturePercent(tt.celsius), tt.color), card.bar)
			assert.Equal(t, "20-100°C range", card.detail)
		})
	}
}

func TestTemperatureCard_NoSensor(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})
	m.snapshot.Status.CPU.TemperatureC = 0

	card := m.temperatureCard(10)
	assert.Contains(t, card.value, "n/a")
	assert.Equal(t, Bar(10, 0, ColorTextMuted), card.bar)
}

func TestCPUCard_UsesConfiguredThresholds(t *testing.T) {
	st := store.New(0)
	st.SetStatus(testStatus(55), metrics.SourceLive, base, nil)
	m := NewModel(Options{
		Store:      st,
		Thresholds: Thresholds{CPUWarning: 50, CPUCritical: 80, TemperatureWarning: 50, TemperatureCritical: 70},
	})

	card := m.cpuCard(10)
	assert.Equal(t, Bar(10, 55, ColorWarning), card.bar)
}

func TestNetworkCard(t *testing.T) {
	st := store.New(0)
	st.SetStatus(testStatus(10), metrics.SourceLive, base, nil)
	m := NewModel(Options{Store: st})
	assert.Contains(t, m.networkCard().bar, "rate pending")

	next := testStatus(10)
	next.Network[1].BytesRecv += 2048
	next.Network[1].BytesSent += 1024
	st.SetStatus(next, metrics.SourceLive, base.Add(time.Second), nil)
	m = NewModel(Options{Store: st})

	card := m.networkCard()
	assert.Contains(t, card.value, "eth0")
	assert.Contains(t, card.bar, metrics.FormatRate(2048))
	assert.Contains(t, card.bar, metrics.FormatRate(1024))
}

func TestNetworkCard_SumsNonLoopbackInterfaces(t *testing.T) {
	withWifi := func(sent, recv uint64) metrics.SystemStatus {
		s := testStatus(10)
		s.Network = append(s.Network, metrics.NetworkInterface{Name: "wlan0", BytesSent: sent, BytesRecv: recv})
		return s
	}

	st := store.New(0)
	st.SetStatus(withWifi(0, 0), metrics.SourceLive, base, nil)

	next := withWifi(512, 4096)
	next.Network[0].BytesRecv += 1 << 20 // loopback traffic is ignored
	next.Network[1].BytesRecv += 2048
	next.Network[1].BytesSent += 1024
	st.SetStatus(next, metrics.SourceLive, base.Add(2*time.Second), nil)

	card := NewModel(Options{Store: st}).networkCard()
	assert.Contains(t, card.value, "eth0")
	assert.Contains(t, card.value, "+1")
	assert.Contains(t, card.bar, metrics.FormatRate((2048+4096)/2))
	assert.Contains(t, card.bar, metrics.FormatRate((1024+512)/2))
	assert.Contains(t, card.detail, "rx "+metrics.FormatBytes(2000+2048))
}

func TestNetworkCard_NoInterfaces(t *testing.T) {
	st := store.New(0)
	status := testStatus(10)
	status.Network = nil
	st.SetStatus(status, metrics.SourceLive, base, nil)

	card := NewModel(Options{Store: st}).networkCard()
	assert.Contains(t, card.value, "n/a")
	assert.Equal(t, "no interfaces", card.detail)
}

func TestRenderCards_Wraps(t *testing.T) {
	m := newTestModel(t, liveStore(t), &fakeRefresher{})

	wide := m.renderCards(150)
	narrow := m.renderCards(60)
	assert.Greater(t, lipgloss.Height(narrow), lipgloss.Height(wide))
	for _, line := range strings.Split(narrow, "\n") {
		assert.LessOrEqual(t, lipgloss.Width(line), 60)
	}
}

func TestRenderProcesses_Empty(t *testing.T) {
	st := store.New(0)
	st.SetProcesses(nil, metrics.SourceLive, base, nil)
	m := NewModel(Options{Store: st})

	out := m.renderProcesses(80)
	assert.Contains(t, out, "Processes (0)")
	assert.Contains(t, out, "No processes reported")
}

func TestProcessRows(t *testing.T) {
	rows := processRows([]metrics.Process{
		{PID: 42, Name: "nginx", CPUPercent: 22.26, MemPercent: 3, Status: metrics.StatusStopped},
	})
	assert.Len(t, rows, 1)
	assert.Equal(t, "42", rows[0][0])
	assert.Equal(t, "nginx", rows[0][1])
	assert.Equal(t, "22.3", rows[0][2])
	assert.Equal(t, "3.0", rows[0][3])
	assert.Contains(t, rows[0][4], "Stopped")
}
