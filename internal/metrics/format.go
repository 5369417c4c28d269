package metrics

import (
	"fmt"
	"math"
	"strconv"
)

// Temperature sensor range used to scale Celsius readings onto a bar.
const (
	TemperatureFloorC   = 20.0
	TemperatureCeilingC = 100.0
)

// FormatBytes formats a byte count using binary units with up to two decimals,
// e.g. 0 -> "0 Bytes", 1536 -> "1.5 KB", 1073741824 -> "1 GB".
func FormatBytes(bytes uint64) string {
	if bytes == 0 {
		return "0 Bytes"
	}

	const base = 1024.0
	units := []string{"Bytes", "KB", "MB", "GB", "TB", "PB"}

	value := float64(bytes)
	exp := 0
	for value >= base && exp < len(units)-1 {
		value /= base
		exp++
	}

	rounded := math.Round(value*100) / 100
	return strconv.FormatFloat(rounded, 'f', -1, 64) + " " + units[exp]
}

// FormatRate formats a bytes-per-second rate as a human-readable string.
func FormatRate(bytesPerSecond float64) string {
	if bytesPerSecond < 1024 {
		return fmt.Sprintf("%.0f B/s", bytesPerSecond)
	} else if bytesPerSecond < 1024*1024 {
		return fmt.Sprintf("%.1f KB/s", bytesPerSecond/1024)
	} else if bytesPerSecond < 1024*1024*1024 {
		return fmt.Sprintf("%.1f MB/s", bytesPerSecond/(1024*1024))
	}
	return fmt.Sprintf("%.1f GB/s", bytesPerSecond/(1024*1024*1024))
}

// FormatPercent renders a percentage with one decimal after clamping.
func FormatPercent(percent float64) string {
	return fmt.Sprintf("%.1f%%", ClampPercent(percent))
}

// ClampPercent bounds a percentage to [0, 100]. NaN becomes 0.
func ClampPercent(percent float64) float64 {
	switch {
	case math.IsNaN(percent), percent < 0:
		return 0
	case percent > 100:
		return 100
	default:
		return percent
	}
}

// TemperaturePercent maps a Celsius reading onto [0, 100] across the
// TemperatureFloorC..TemperatureCeilingC sensor range, for bar widths.
func TemperaturePercent(celsius float64) float64 {
	span := TemperatureCeilingC - TemperatureFloorC
	return ClampPercent((celsius - TemperatureFloorC) / span * 100)
}

// UsagePercentOf derives a usage percentage from used and total bytes.
func UsagePercentOf(used, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return float64(used) / float64(total) * 100
}
