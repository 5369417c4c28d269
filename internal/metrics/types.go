package metrics

import "time"

// SystemStatus is one point-in-time reading of the host's resources.
type SystemStatus struct {
	CPU     CPUStatus          `json:"cpu"`
	Memory  Usage              `json:"memory"`
	Disk    Usage              `json:"disk"`
	Network []NetworkInterface `json:"network"`
}

// CPUStatus contains CPU usage information.
type CPUStatus struct {
	UsagePercent float64 `json:"usage_percent"`
	TemperatureC float64 `json:"temperature"`
}

// Usage describes a capacity-bounded resource (memory or a disk volume).
// UsedBytes+FreeBytes may fall short of TotalBytes because of cache and
// reserved-block accounting.
type Usage struct {
	TotalBytes   uint64  `json:"total"`
	UsedBytes    uint64  `json:"used"`
	FreeBytes    uint64  `json:"free"`
	UsagePercent float64 `json:"usage_percent"`
}

// NetworkInterface contains cumulative I/O counters for a single interface.
type NetworkInterface struct {
	Name      string `json:"name"`
	BytesSent uint64 `json:"bytes_sent"`
	BytesRecv uint64 `json:"bytes_recv"`
}

// Process is one entry of the host's process table.
// CPUPercent may exceed 100 on multi-core hosts.
type Process struct {
	PID        uint32        `json:"pid"`
	Name       string        `json:"name"`
	CPUPercent float64       `json:"cpu_percent"`
	MemPercent float64       `json:"mem_percent"`
	Status     ProcessStatus `json:"status"`
}

// Source records where a piece of data came from.
type Source string

const (
	// SourceLive marks data fetched from the metrics endpoint.
	SourceLive Source = "live"
	// SourceSynthetic marks generated stand-in data.
	SourceSynthetic Source = "synthetic"
)

// Snapshot bundles the latest status and process list.
// The two halves are updated independently, so each carries its own
// capture time and source.
type Snapshot struct {
	Status     SystemStatus `json:"status"`
	CapturedAt time.Time    `json:"captured_at"`
	Source     Source       `json:"source"`

	Processes       []Process `json:"processes"`
	ProcessesAt     time.Time `json:"processes_at"`
	ProcessesSource Source    `json:"processes_source"`
}

// Degraded reports whether any half of the snapshot is synthetic.
func (s Snapshot) Degraded() bool {
	return s.Source == SourceSynthetic || s.ProcessesSource == SourceSynthetic
}

// Clone returns a deep copy of the status.
func (s SystemStatus) Clone() SystemStatus {
	out := s
	if s.Network != nil {
		out.Network = make([]NetworkInterface, len(s.Network))
		copy(out.Network, s.Network)
	}
	return out
}

// PrimaryInterface returns the first non-loopback interface, falling back to
// the first interface. ok is false when there are no interfaces.
func (s SystemStatus) PrimaryInterface() (iface NetworkInterface, ok bool) {
	for _, n := range s.Network {
		if !IsLoopback(n.Name) {
			return n, true
		}
	}
	if len(s.Network) > 0 {
		return s.Network[0], true
	}
	return NetworkInterface{}, false
}

// IsLoopback reports whether name is a loopback interface.
func IsLoopback(name string) bool {
	return name == "lo" || name == "lo0"
}
