package store

import (
	"time"

	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// History capacity bounds.
const (
	DefaultCapacity = 720
	MinCapacity     = 30
)

// Sample is one status reading retained for charting.
type Sample struct {
	At     time.Time
	Status metrics.SystemStatus
	Source metrics.Source
}

// ringBuffer is a fixed-size circular buffer of samples.
type ringBuffer struct {
	data  []Sample
	head  int
	count int
	size  int
}

func newRingBuffer(size int) *ringBuffer {
	return &ringBuffer{
		data: make([]Sample, size),
		size: size,
	}
}

// push adds a sample, evicting the oldest once full.
func (r *ringBuffer) push(s Sample) {
	r.data[r.head] = s
	r.head = (r.head + 1) % r.size
	if r.count < r.size {
		r.count++
	}
}

// getLast returns the last count samples in chronological order (oldest first).
func (r *ringBuffer) getLast(count int) []Sample {
	if count <= 0 || r.count == 0 {
		return nil
	}
	if count > r.count {
		count = r.count
	}

	result := make([]Sample, count)

	// head is the next write position, so the newest sample sits at head-1.
	start := (r.head - count + r.size) % r.size
	for i := 0; i < count; i++ {
		s := r.data[(start+i)%r.size]
		s.Status = s.Status.Clone()
		result[i] = s
	}
	return result
}

func (r *ringBuffer) getAll() []Sample {
	return r.getLast(r.count)
}

// NetworkRate is the throughput of one interface between two samples.
type NetworkRate struct {
	Interface      string
	BytesInPerSec  float64
	BytesOutPerSec float64
}

// NetworkRates computes per-interface throughput from the two newest samples.
// Interfaces missing from either sample are skipped; counter resets and the
// non-monotonic counters of synthetic data clamp to zero.
func NetworkRates(samples []Sample) []NetworkRate {
	if len(samples) < 2 {
		return nil
	}
	prev, cur := samples[len(samples)-2], samples[len(samples)-1]

	elapsed := cur.At.Sub(prev.At).Seconds()
	if elapsed <= 0 {
		return nil
	}

	before := make(map[string]metrics.NetworkInterface, len(prev.Status.Network))
	for _, iface := range prev.Status.Network {
		before[iface.Name] = iface
	}

	var rates []NetworkRate
	for _, iface := range cur.Status.Network {
		old, ok := before[iface.Name]
		if !ok {
			continue
		}
		rates = append(rates, NetworkRate{
			Interface:      iface.Name,
			BytesInPerSec:  counterDelta(old.BytesRecv, iface.BytesRecv) / elapsed,
			BytesOutPerSec: counterDelta(old.BytesSent, iface.BytesSent) / elapsed,
		})
	}
	return rates
}

// TotalNetworkRate sums throughput across all non-loopback interfaces.
func TotalNetworkRate(samples []Sample) (bytesInPerSec, bytesOutPerSec float64) {
	for _, r := range NetworkRates(samples) {
		if metrics.IsLoopback(r.Interface) {
			continue
		}
		bytesInPerSec += r.BytesInPerSec
		bytesOutPerSec += r.BytesOutPerSec
	}
	return
}

func counterDelta(old, cur uint64) float64 {
	if cur < old {
		return 0
	}
	return float64(cur - old)
}
