// Package series turns retained status samples into chart-ready time series.
//
// Derive is a pure function of its inputs: the window is anchored on the
// newest sample rather than the wall clock, so identical history and range
// always produce identical output. Bucket starts are aligned to the grain
// (minute, hour, 6 hours, day) on the local clock of the newest sample.
// Buckets with no samples are omitted, which makes a freshly started
// dashboard show a chart that begins where data exists.
package series

import (
	"sort"
	"time"

	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/store"
)

// CPUPoint is the mean CPU usage of one bucket.
type CPUPoint struct {
	Start   time.Time
	Label   string
	Percent float64
}

// MemoryPoint is the mean memory usage of one bucket.
type MemoryPoint struct {
	Start     time.Time
	Label     string
	UsedBytes uint64
	FreeBytes uint64
	Percent   float64
}

// Series is the bucketed view of history for one time range.
// CPU and Memory share bucket boundaries and are ordered oldest first.
type Series struct {
	Range  metrics.TimeRange
	CPU    []CPUPoint
	Memory []MemoryPoint
}

type bucket struct {
	start   time.Time
	n       int
	cpu     float64
	used    uint64
	free    uint64
	percent float64
}

// Derive buckets history for r. history need not be sorted. Buckets follow
// the wall clock of the newest sample's location.
func Derive(history []store.Sample, r metrics.TimeRange) Series {
	out := Series{Range: r}
	if len(history) == 0 {
		return out
	}

	anchor := history[0].At
	for _, s := range history[1:] {
		if s.At.After(anchor) {
			anchor = s.At
		}
	}
	loc := anchor.Location()
	grain := r.Grain()
	// The window holds exactly r.Buckets() buckets, the newest being the
	// one containing the anchor.
	first := stepBack(BucketStart(anchor, grain), grain, r.Buckets()-1)

	buckets := make(map[int64]*bucket)
	for _, s := range history {
		start := BucketStart(s.At.In(loc), grain)
		if start.Before(first) || s.At.After(anchor) {
			continue
		}
		key := start.UnixNano()
		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: start}
			buckets[key] = b
		}
		b.n++
		b.cpu += metrics.ClampPercent(s.Status.CPU.UsagePercent)
		b.used += s.Status.Memory.UsedBytes
		b.free += s.Status.Memory.FreeBytes
		b.percent += metrics.ClampPercent(s.Status.Memory.UsagePercent)
	}

	ordered := make([]*bucket, 0, len(buckets))
	for _, b := range buckets {
		ordered = append(ordered, b)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].start.Before(ordered[j].start)
	})

	out.CPU = make([]CPUPoint, len(ordered))
	out.Memory = make([]MemoryPoint, len(ordered))
	for i, b := range ordered {
		n := float64(b.n)
		label := Label(b.start, grain)
		out.CPU[i] = CPUPoint{
			Start:   b.start,
			Label:   label,
			Percent: b.cpu / n,
		}
		out.Memory[i] = MemoryPoint{
			Start:     b.start,
			Label:     label,
			UsedBytes: b.used / uint64(b.n),
			FreeBytes: b.free / uint64(b.n),
			Percent:   b.percent / n,
		}
	}
	return out
}

// BucketStart returns the start of the grain-sized bucket holding t, aligned
// to t's wall clock: local midnight for days, local hour multiples for
// hour grains, minute multiples below that.
func BucketStart(t time.Time, grain time.Duration) time.Time {
	y, mo, d := t.Date()
	loc := t.Location()
	switch {
	case grain >= 24*time.Hour:
		return time.Date(y, mo, d, 0, 0, 0, 0, loc)
	case grain >= time.Hour:
		gh := int(grain / time.Hour)
		return time.Date(y, mo, d, t.Hour()-t.Hour()%gh, 0, 0, 0, loc)
	default:
		gm := int(grain / time.Minute)
		if gm < 1 {
			gm = 1
		}
		return time.Date(y, mo, d, t.Hour(), t.Minute()-t.Minute()%gm, 0, 0, loc)
	}
}

// stepBack moves a bucket start n buckets into the past. Days step by
// calendar date so DST transitions keep starts on local midnight.
func stepBack(start time.Time, grain time.Duration, n int) time.Time {
	if grain >= 24*time.Hour {
		days := int(grain / (24 * time.Hour))
		return start.AddDate(0, 0, -n*days)
	}
	return BucketStart(start.Add(-time.Duration(n)*grain), grain)
}

// Label formats a bucket start for the given grain.
func Label(t time.Time, grain time.Duration) string {
	switch {
	case grain >= 24*time.Hour:
		return t.Format("Jan 2")
	case grain > time.Hour:
		return t.Format("Jan 2 15:04")
	default:
		return t.Format("15:04")
	}
}

// Len returns the number of buckets.
func (s Series) Len() int {
	return len(s.CPU)
}

// CPUValues returns the CPU percentages in order, for graph widgets.
func (s Series) CPUValues() []float64 {
	out := make([]float64, len(s.CPU))
	for i, p := range s.CPU {
		out[i] = p.Percent
	}
	return out
}

// MemoryPercents returns the memory usage percentages in order.
func (s Series) MemoryPercents() []float64 {
	out := make([]float64, len(s.Memory))
	for i, p := range s.Memory {
		out[i] = p.Percent
	}
	return out
}

// Labels returns the bucket labels in order.
func (s Series) Labels() []string {
	out := make([]string, len(s.CPU))
	for i, p := range s.CPU {
		out[i] = p.Label
	}
	return out
}
