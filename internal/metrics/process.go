package metrics

import (
	"sort"
	"strings"
)

// ProcessStatus is the scheduler state of a process.
type ProcessStatus string

const (
	StatusRunning  ProcessStatus = "running"
	StatusSleeping ProcessStatus = "sleeping"
	StatusStopped  ProcessStatus = "stopped"
)

// processStatusTokens maps the spellings emitted by ps, /proc and gopsutil.
var processStatusTokens = map[string]ProcessStatus{
	"running":    StatusRunning,
	"r":          StatusRunning,
	"sleeping":   StatusSleeping,
	"sleep":      StatusSleeping,
	"s":          StatusSleeping,
	"idle":       StatusSleeping,
	"i":          StatusSleeping,
	"disk-sleep": StatusSleeping,
	"d":          StatusSleeping,
	"wait":       StatusSleeping,
	"w":          StatusSleeping,
	"lock":       StatusSleeping,
	"l":          StatusSleeping,
	"stopped":    StatusStopped,
	"stop":       StatusStopped,
	"t":          StatusStopped,
	"zombie":     StatusStopped,
	"z":          StatusStopped,
}

// ParseProcessStatus normalizes a status token. ok is false for unknown tokens.
func ParseProcessStatus(token string) (status ProcessStatus, ok bool) {
	status, ok = processStatusTokens[strings.ToLower(strings.TrimSpace(token))]
	return status, ok
}

// Label returns the display label for the status.
func (s ProcessStatus) Label() string {
	switch s {
	case StatusRunning:
		return "Running"
	case StatusSleeping:
		return "Sleeping"
	case StatusStopped:
		return "Stopped"
	default:
		return string(s)
	}
}

// ProcessSort defines the ordering of the process table.
type ProcessSort int

const (
	SortByCPU ProcessSort = iota
	SortByMem
	SortByPID
	SortByName
)

// String returns a human-readable label for the sort order.
func (s ProcessSort) String() string {
	switch s {
	case SortByMem:
		return "MEM"
	case SortByPID:
		return "PID"
	case SortByName:
		return "name"
	default:
		return "CPU"
	}
}

// Next cycles to the next sort order.
func (s ProcessSort) Next() ProcessSort {
	return ProcessSort((int(s) + 1) % 4)
}

// SortProcesses returns a sorted copy of ps. CPU and MEM sort descending,
// PID and name ascending; ties fall back to PID.
func SortProcesses(ps []Process, by ProcessSort) []Process {
	out := make([]Process, len(ps))
	copy(out, ps)

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch by {
		case SortByMem:
			if a.MemPercent != b.MemPercent {
				return a.MemPercent > b.MemPercent
			}
		case SortByName:
			if a.Name != b.Name {
				return a.Name < b.Name
			}
		case SortByPID:
		default:
			if a.CPUPercent != b.CPUPercent {
				return a.CPUPercent > b.CPUPercent
			}
		}
		return a.PID < b.PID
	})

	return out
}
