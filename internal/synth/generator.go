// Package synth produces plausible stand-in metrics for when the metrics
// endpoint cannot be reached. Output always satisfies the data-model
// invariants (usage within [0,100], used+free <= total), so the dashboard
// can render it exactly like live data.
package synth

import (
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// DefaultProcessCount is the number of processes generated when count <= 0.
const DefaultProcessCount = 20

// Fixed capacities used for generated resources.
const (
	MemoryTotalBytes uint64 = 8 * 1024 * 1024 * 1024
	DiskTotalBytes   uint64 = 100 * 1024 * 1024 * 1024
)

// ProcessNames is the rotating pool assigned round-robin to generated processes.
var ProcessNames = []string{
	"systemd", "nginx", "mysql", "redis-server", "node",
	"go", "python3", "bash", "sshd", "docker",
}

// Generator produces synthetic metrics. Implementations must never fail.
type Generator interface {
	Status() metrics.SystemStatus
	Processes(count int) []metrics.Process
}

// Random generates values uniformly inside realistic bounds.
// It is safe for concurrent use.
type Random struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandom returns a generator seeded from the clock.
func NewRandom() *Random {
	now := uint64(time.Now().UnixNano())
	return NewSeeded(now, now>>32)
}

// NewSeeded returns a deterministic generator; equal seeds give equal output.
func NewSeeded(seed1, seed2 uint64) *Random {
	return &Random{rng: rand.New(rand.NewPCG(seed1, seed2))}
}

// between returns a value in [lo, hi). Must be called with r.mu held.
func (r *Random) between(lo, hi float64) float64 {
	return lo + r.rng.Float64()*(hi-lo)
}

// Status returns a synthetic system status.
func (r *Random) Status() metrics.SystemStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	return metrics.SystemStatus{
		CPU: metrics.CPUStatus{
			UsagePercent: r.between(10, 60),
			TemperatureC: r.between(40, 70),
		},
		Memory: r.usage(MemoryTotalBytes, 15, 55),
		Disk:   r.usage(DiskTotalBytes, 10, 30),
		Network: []metrics.NetworkInterface{
			{
				Name:      "eth0",
				BytesSent: uint64(r.between(50_000_000, 100_000_000)),
				BytesRecv: uint64(r.between(100_000_000, 200_000_000)),
			},
		},
	}
}

// usage builds a consistent Usage for the given total and percent bounds.
// Must be called with r.mu held.
func (r *Random) usage(total uint64, minPct, maxPct float64) metrics.Usage {
	pct := r.between(minPct, maxPct)
	used := uint64(float64(total) * pct / 100)
	return metrics.Usage{
		TotalBytes:   total,
		UsedBytes:    used,
		FreeBytes:    total - used,
		UsagePercent: metrics.UsagePercentOf(used, total),
	}
}

// Processes returns count synthetic processes (DefaultProcessCount if count <= 0).
// Names rotate through ProcessNames and status cycles running/sleeping/stopped by index.
func (r *Random) Processes(count int) []metrics.Process {
	if count <= 0 {
		count = DefaultProcessCount
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]metrics.Process, count)
	for i := range out {
		out[i] = metrics.Process{
			PID:        uint32(1000 + i),
			Name:       ProcessNames[i%len(ProcessNames)],
			CPUPercent: r.between(0, 10),
			MemPercent: r.between(0, 5),
			Status:     statusForIndex(i),
		}
	}
	return out
}

func statusForIndex(i int) metrics.ProcessStatus {
	switch i % 3 {
	case 0:
		return metrics.StatusRunning
	case 1:
		return metrics.StatusSleeping
	default:
		return metrics.StatusStopped
	}
}
