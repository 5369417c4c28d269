package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// SpinnerState represents the current state of a spinner.
type SpinnerState int

const (
	SpinnerPending SpinnerState = iota
	SpinnerInProgress
	SpinnerSuccess
	SpinnerFailed
)

// Spinner animation frames
var spinnerFrames = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

const spinnerInterval = 80 * time.Millisecond

// Spinner shows an animated indicator next to a label while a blocking call
// runs, then replaces it with a final symbol and the elapsed time.
type Spinner struct {
	mu        sync.Mutex
	label     string
	state     SpinnerState
	frame     int
	startTime time.Time
	stopChan  chan struct{}
	doneChan  chan struct{}
	out       io.Writer
	running   bool
	lastWidth int
}

// NewSpinner creates a spinner writing to out.
func NewSpinner(label string, out io.Writer) *Spinner {
	return &Spinner{
		label: label,
		state: SpinnerPending,
		out:   out,
	}
}

// Start begins the animation. Calling Start twice is a no-op.
func (s *Spinner) Start() {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return
	}
	s.running = true
	s.state = SpinnerInProgress
	s.startTime = time.Now()
	s.stopChan = make(chan struct{})
	s.doneChan = make(chan struct{})
	s.mu.Unlock()

	s.render()
	go s.animate()
}

// Stop halts the animation without changing state.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.stopChan)
	s.mu.Unlock()

	<-s.doneChan
}

// Success stops the spinner and marks it as successful.
func (s *Spinner) Success() {
	s.finish(SpinnerSuccess)
}

// Fail stops the spinner and marks it as failed.
func (s *Spinner) Fail() {
	s.finish(SpinnerFailed)
}

// State returns the current spinner state.
func (s *Spinner) State() SpinnerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Spinner) finish(state SpinnerState) {
	s.Stop()
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
	s.renderFinal()
}

func (s *Spinner) animate() {
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()
	defer close(s.doneChan)

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.frame = (s.frame + 1) % len(spinnerFrames)
			s.mu.Unlock()
			s.render()
		}
	}
}

// clear erases the previously drawn line. Callers hold s.mu.
func (s *Spinner) clear() {
	if s.lastWidth > 0 {
		fmt.Fprint(s.out, "\r"+strings.Repeat(" ", s.lastWidth)+"\r")
	}
}

func (s *Spinner) render() {
	s.mu.Lock()
	defer s.mu.Unlock()

	colorIndex := (s.frame / 2) % len(GradientColors)
	style := lipgloss.NewStyle().Foreground(GradientColors[colorIndex])
	line := fmt.Sprintf("%s %s...", style.Render(spinnerFrames[s.frame]), s.label)

	s.clear()
	fmt.Fprint(s.out, "\r"+line)
	s.lastWidth = lipgloss.Width(line)
}

func (s *Spinner) renderFinal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	var symbol string
	var style lipgloss.Style
	switch s.state {
	case SpinnerSuccess:
		symbol, style = SymbolSuccess, SuccessStyle()
	case SpinnerFailed:
		symbol, style = SymbolFail, ErrorStyle()
	default:
		symbol, style = SymbolPending, MutedStyle()
	}

	s.clear()
	fmt.Fprintf(s.out, "%s %s %s\n", style.Render(symbol), s.label, MutedStyle().Render(formatDuration(time.Since(s.startTime))))
	s.lastWidth = 0
}

// formatDuration formats a duration for display (e.g., "0.3s", "1.2s").
func formatDuration(d time.Duration) string {
	secs := d.Seconds()
	if secs < 0.1 {
		return fmt.Sprintf("%.2fs", secs)
	}
	return fmt.Sprintf("%.1fs", secs)
}
