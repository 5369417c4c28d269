package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/fetch"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

type fakeCollector struct {
	status    metrics.SystemStatus
	processes []metrics.Process
	err       error
}

func (f *fakeCollector) Status(ctx context.Context) (metrics.SystemStatus, error) {
	return f.status, f.err
}

func (f *fakeCollector) Processes(ctx context.Context) ([]metrics.Process, error) {
	return f.processes, f.err
}

func sampleStatus() metrics.SystemStatus {
	return metrics.SystemStatus{
		CPU:    metrics.CPUStatus{UsagePercent: 35.8, TemperatureC: 45.2},
		Memory: metrics.Usage{TotalBytes: 16 << 30, UsedBytes: 8 << 30, FreeBytes: 8 << 30, UsagePercent: 50},
		Disk:   metrics.Usage{TotalBytes: 512 << 30, UsedBytes: 128 << 30, FreeBytes: 384 << 30, UsagePercent: 25},
		Network: []metrics.NetworkInterface{
			{Name: "eth0", BytesSent: 1000, BytesRecv: 2000},
		},
	}
}

func get(t *testing.T, s *Server, path string, header ...string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestServer_Status(t *testing.T) {
	s := New(Options{Collector: &fakeCollector{status: sampleStatus()}})

	w := get(t, s, "/api/system/status")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	cpu := body["cpu"].(map[string]any)
	assert.Equal(t, 35.8, cpu["usage_percent"])
	assert.Equal(t, 45.2, cpu["temperature"])
	assert.Contains(t, body, "memory")
	assert.Contains(t, body, "disk")
	assert.Len(t, body["network"], 1)
}

func TestServer_StatusEmptyNetworkIsArray(t *testing.T) {
	status := sampleStatus()
	status.Network = nil
	s := New(Options{Collector: &fakeCollector{status: status}})

	w := get(t, s, "/api/system/status")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"network":[]`)
}

func TestServer_Processes(t *testing.T) {
	procs := []metrics.Process{
		{PID: 1, Name: "init", CPUPercent: 0.1, MemPercent: 0.2, Status: metrics.StatusSleeping},
		{PID: 42, Name: "postgres", CPUPercent: 12.5, MemPercent: 3.1, Status: metrics.StatusRunning},
	}
	s := New(Options{Collector: &fakeCollector{processes: procs}})

	w := get(t, s, "/api/system/processes")
	require.Equal(t, http.StatusOK, w.Code)

	var got []metrics.Process
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, procs, got)
}

func TestServer_ProcessesEmptyIsArray(t *testing.T) {
	s := New(Options{Collector: &fakeCollector{}})

	w := get(t, s, "/api/system/processes")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestServer_CollectorError(t *testing.T) {
	log := logger.NewBufferLogger()
	s := New(Options{Collector: &fakeCollector{err: fmt.Errorf("sensor read failed")}, Logger: log})

	for _, path := range []string{"/api/system/status", "/api/system/processes"} {
		t.Run(path, func(t *testing.T) {
			w := get(t, s, path)
			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.JSONEq(t, `{"error":"sensor read failed"}`, w.Body.String())
		})
	}
	assert.Equal(t, 2, log.Count("warn"))
}

func TestServer_Health(t *testing.T) {
	s := New(Options{Collector: &fakeCollector{}, Version: "1.2.3"})

	w := get(t, s, "/api/health")
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "1.2.3", body["version"])
	assert.NotEmpty(t, body["uptime"])
}

func TestServer_NotFound(t *testing.T) {
	s := New(Options{Collector: &fakeCollector{}})

	w := get(t, s, "/api/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "not found: /api/nope")
}

func TestServer_CORS(t *testing.T) {
	tests := []struct {
		name    string
		origins []string
		origin  string
		want    string
	}{
		{"wildcard", []string{"*"}, "http://anywhere.test", "*"},
		{"default allows all", nil, "http://anywhere.test", "*"},
		{"listed origin", []string{"http://localhost:3000"}, "http://localhost:3000", "http://localhost:3000"},
		{"unlisted origin", []string{"http://localhost:3000"}, "http://evil.test", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(Options{Collector: &fakeCollector{status: sampleStatus()}, AllowedOrigins: tt.origins})
			w := get(t, s, "/api/system/status", "Origin", tt.origin)
			assert.Equal(t, tt.want, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestServer_DebugRequestLog(t *testing.T) {
	log := logger.NewBufferLogger()
	s := New(Options{Collector: &fakeCollector{}, Logger: log})

	get(t, s, "/api/health")
	assert.Equal(t, 1, log.Count("debug"))
}

// The client and agent agree on the wire format.
func TestServer_RoundTripThroughFetchClient(t *testing.T) {
	procs := []metrics.Process{
		{PID: 7, Name: "nginx", CPUPercent: 1.5, MemPercent: 0.4, Status: metrics.StatusRunning},
		{PID: 9, Name: "cron", CPUPercent: 0, MemPercent: 0.1, Status: metrics.StatusStopped},
	}
	s := New(Options{Collector: &fakeCollector{status: sampleStatus(), processes: procs}})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	client := fetch.New(fetch.Options{BaseURL: srv.URL + "/api", Timeout: time.Second})

	status, err := client.FetchStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, sampleStatus(), status)

	got, err := client.FetchProcesses(context.Background())
	require.NoError(t, err)
	assert.Equal(t, procs, got)
}

func TestServer_RoundTripCollectorErrorIsProtocol(t *testing.T) {
	s := New(Options{Collector: &fakeCollector{err: fmt.Errorf("boom")}})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	client := fetch.New(fetch.Options{BaseURL: srv.URL + "/api", Timeout: time.Second})
	_, err := client.FetchStatus(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrProtocol))
}

func TestServer_ServeShutsDownOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	s := New(Options{Collector: &fakeCollector{}})
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/api/health")
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(ShutdownTimeout + time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunBadAddr(t *testing.T) {
	s := New(Options{Collector: &fakeCollector{}, Addr: "not-an-address"})
	err := s.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsCode(err, errors.ErrServe))
}
