package ui

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// syncBuffer guards a builder shared with the animation goroutine.
type syncBuffer struct {
	mu sync.Mutex
	b  strings.Builder
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.b.String()
}

func TestNewSpinner(t *testing.T) {
	s := NewSpinner("Fetching", &syncBuffer{})
	assert.Equal(t, SpinnerPending, s.State())
}

func TestSpinnerStartStop(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner("Fetching", buf)

	s.Start()
	s.Start()
	assert.Equal(t, SpinnerInProgress, s.State())
	time.Sleep(20 * time.Millisecond)
	s.Stop()
	s.Stop()

	assert.Equal(t, SpinnerInProgress, s.State())
	assert.Contains(t, buf.String(), "Fetching...")
}

func TestSpinnerSuccess(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner("Fetching status", buf)

	s.Start()
	s.Success()

	assert.Equal(t, SpinnerSuccess, s.State())
	out := buf.String()
	assert.Contains(t, out, SymbolSuccess)
	assert.Contains(t, out, "Fetching status")
	assert.True(t, strings.HasSuffix(out, "\n"))
}

func TestSpinnerFail(t *testing.T) {
	buf := &syncBuffer{}
	s := NewSpinner("Fetching status", buf)

	s.Start()
	s.Fail()

	assert.Equal(t, SpinnerFailed, s.State())
	assert.Contains(t, buf.String(), SymbolFail)
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0.05s", formatDuration(50*time.Millisecond))
	assert.Equal(t, "1.2s", formatDuration(1200*time.Millisecond))
}
