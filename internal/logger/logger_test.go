package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_Debug(t *testing.T) {
	tests := []struct {
		name      string
		debug     bool
		expectLog bool
	}{
		{
			name:      "logs when debug is enabled",
			debug:     true,
			expectLog: true,
		},
		{
			name:      "does not log when debug is disabled",
			debug:     false,
			expectLog: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer

			l := New(&buf, "test", tt.debug)
			l.Debug("test message %s", "arg")

			if tt.expectLog {
				assert.Contains(t, buf.String(), "test message arg")
				assert.Contains(t, buf.String(), "DBG")
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestLogger_Levels(t *testing.T) {
	tests := []struct {
		name  string
		log   func(Logger)
		level string
		text  string
	}{
		{"info", func(l Logger) { l.Info("info message %d", 42) }, "INF", "info message 42"},
		{"warn", func(l Logger) { l.Warn("warning message") }, "WRN", "warning message"},
		{"error", func(l Logger) { l.Error("error message") }, "ERR", "error message"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(New(&buf, "poller", false))

			out := buf.String()
			assert.Contains(t, out, tt.level)
			assert.Contains(t, out, tt.text)
			assert.Contains(t, out, "component=poller")
		})
	}
}

func TestLogger_NoPrefix(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, "", false).Info("bare")

	assert.Contains(t, buf.String(), "bare")
	assert.NotContains(t, buf.String(), "component=")
}

func TestLogger_FormatStrings(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "fmt", false)

	l.Info("int: %d, string: %s, float: %.2f", 42, "hello", 3.14159)

	output := buf.String()
	assert.Contains(t, output, "int: 42")
	assert.Contains(t, output, "string: hello")
	assert.Contains(t, output, "float: 3.14")
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sysdash.log")

	l, closer, err := NewFileLogger(path, "monitor", false)
	require.NoError(t, err)
	l.Info("written to %s", "file")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestNewFileLogger_EmptyPath(t *testing.T) {
	l, closer, err := NewFileLogger("", "monitor", true)
	require.NoError(t, err)
	require.NotNil(t, closer)
	assert.IsType(t, &noopLogger{}, l)
	assert.NoError(t, closer.Close())
}

func TestNewFileLogger_BadPath(t *testing.T) {
	_, _, err := NewFileLogger(filepath.Join(t.TempDir(), "missing", "dir", "x.log"), "", false)
	assert.Error(t, err)
}

func TestBufferLogger(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("debug %s", "msg")
	l.Info("info %s", "msg")
	l.Warn("warn %s", "msg")
	l.Error("error %s", "msg")

	msgs := l.Snapshot()
	require.Len(t, msgs, 4)

	assert.Equal(t, LogMessage{Level: "debug", Message: "debug msg"}, msgs[0])
	assert.Equal(t, LogMessage{Level: "info", Message: "info msg"}, msgs[1])
	assert.Equal(t, LogMessage{Level: "warn", Message: "warn msg"}, msgs[2])
	assert.Equal(t, LogMessage{Level: "error", Message: "error msg"}, msgs[3])
}

func TestBufferLogger_HasLevel(t *testing.T) {
	l := NewBufferLogger()

	assert.False(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Debug("test")
	assert.True(t, l.HasLevel("debug"))
	assert.False(t, l.HasLevel("error"))

	l.Error("test")
	l.Error("again")
	assert.True(t, l.HasLevel("error"))
	assert.Equal(t, 2, l.Count("error"))
}

func TestBufferLogger_Clear(t *testing.T) {
	l := NewBufferLogger()

	l.Debug("test1")
	l.Info("test2")
	require.Len(t, l.Snapshot(), 2)

	l.Clear()
	assert.Empty(t, l.Snapshot())
}

func TestDefault(t *testing.T) {
	original := defaultLogger
	defer func() { defaultLogger = original }()

	assert.NotNil(t, Default())

	buf := NewBufferLogger()
	SetDefault(buf)

	assert.Equal(t, buf, Default())
}

func TestLoggerInterface(t *testing.T) {
	var _ Logger = NewEnvLogger("")
	var _ Logger = Noop()
	var _ Logger = NewBufferLogger()
}
