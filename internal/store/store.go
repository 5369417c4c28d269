// Package store holds the latest metrics snapshot and a bounded status history.
//
// The status half and the process half of the snapshot are independent slots,
// each with its own loading flag, error, source and update time, so either
// fetch can land first without waiting on the other. Only the poller mutates
// a Store; reads are unrestricted and always return copies.
package store

import (
	"sync"
	"time"

	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// SlotState describes one half of the snapshot.
type SlotState struct {
	Loading   bool
	Err       error
	Source    metrics.Source
	UpdatedAt time.Time
}

// Degraded reports whether the slot currently holds synthetic data.
func (s SlotState) Degraded() bool {
	return s.Source == metrics.SourceSynthetic
}

// Store is safe for concurrent use.
type Store struct {
	mu sync.RWMutex

	status     metrics.SystemStatus
	statusSlot SlotState
	hasStatus  bool

	processes    []metrics.Process
	processSlot  SlotState
	hasProcesses bool

	history *ringBuffer
	updates chan struct{}
}

// New creates an empty store retaining up to capacity status samples.
// capacity <= 0 selects DefaultCapacity; smaller positive values are raised
// to MinCapacity so the month view always has enough room.
func New(capacity int) *Store {
	switch {
	case capacity <= 0:
		capacity = DefaultCapacity
	case capacity < MinCapacity:
		capacity = MinCapacity
	}
	return &Store{
		history: newRingBuffer(capacity),
		updates: make(chan struct{}, 1),
	}
}

// Updates delivers a signal after every mutation. Signals coalesce: a reader
// that falls behind sees one pending signal, not a backlog.
func (s *Store) Updates() <-chan struct{} {
	return s.updates
}

func (s *Store) notify() {
	select {
	case s.updates <- struct{}{}:
	default:
	}
}

// Capacity returns the history capacity.
func (s *Store) Capacity() int {
	return s.history.size
}

// Ready reports whether both halves of the snapshot are populated.
func (s *Store) Ready() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasStatus && s.hasProcesses
}

// Seed fills any empty half with the given data, tagged synthetic.
// Populated halves are left alone. Returns true if anything was written.
func (s *Store) Seed(status metrics.SystemStatus, processes []metrics.Process, at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	seeded := false
	if !s.hasStatus {
		s.writeStatus(status, metrics.SourceSynthetic, at)
		seeded = true
	}
	if !s.hasProcesses {
		s.writeProcesses(processes, metrics.SourceSynthetic, at)
		seeded = true
	}
	if seeded {
		s.notify()
	}
	return seeded
}

// BeginStatus marks a status fetch as in flight.
func (s *Store) BeginStatus() {
	s.mu.Lock()
	s.statusSlot.Loading = true
	s.mu.Unlock()
	s.notify()
}

// SetStatus records the outcome of a status fetch cycle and appends it to history.
// err is the fetch failure that caused a synthetic fallback, or nil.
func (s *Store) SetStatus(status metrics.SystemStatus, source metrics.Source, at time.Time, err error) {
	s.mu.Lock()
	s.writeStatus(status, source, at)
	s.statusSlot.Err = err
	s.mu.Unlock()
	s.notify()
}

// writeStatus must be called with s.mu held.
func (s *Store) writeStatus(status metrics.SystemStatus, source metrics.Source, at time.Time) {
	status = status.Clone()
	s.status = status
	s.hasStatus = true
	s.statusSlot.Loading = false
	s.statusSlot.Source = source
	s.statusSlot.UpdatedAt = at
	s.history.push(Sample{At: at, Status: status, Source: source})
}

// BeginProcesses marks a process fetch as in flight.
func (s *Store) BeginProcesses() {
	s.mu.Lock()
	s.processSlot.Loading = true
	s.mu.Unlock()
	s.notify()
}

// SetProcesses records the outcome of a process fetch cycle.
func (s *Store) SetProcesses(processes []metrics.Process, source metrics.Source, at time.Time, err error) {
	s.mu.Lock()
	s.writeProcesses(processes, source, at)
	s.processSlot.Err = err
	s.mu.Unlock()
	s.notify()
}

// writeProcesses must be called with s.mu held.
func (s *Store) writeProcesses(processes []metrics.Process, source metrics.Source, at time.Time) {
	s.processes = copyProcesses(processes)
	s.hasProcesses = true
	s.processSlot.Loading = false
	s.processSlot.Source = source
	s.processSlot.UpdatedAt = at
}

// Snapshot returns a deep copy of the current snapshot.
func (s *Store) Snapshot() metrics.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return metrics.Snapshot{
		Status:          s.status.Clone(),
		CapturedAt:      s.statusSlot.UpdatedAt,
		Source:          s.statusSlot.Source,
		Processes:       copyProcesses(s.processes),
		ProcessesAt:     s.processSlot.UpdatedAt,
		ProcessesSource: s.processSlot.Source,
	}
}

// StatusState returns the state of the status slot.
func (s *Store) StatusState() SlotState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statusSlot
}

// ProcessesState returns the state of the process slot.
func (s *Store) ProcessesState() SlotState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processSlot
}

// History returns retained samples, oldest first.
func (s *Store) History() []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.getAll()
}

// Recent returns up to n of the newest samples, oldest first.
func (s *Store) Recent(n int) []Sample {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.history.getLast(n)
}

func copyProcesses(ps []metrics.Process) []metrics.Process {
	out := make([]metrics.Process, len(ps))
	copy(out, ps)
	return out
}
