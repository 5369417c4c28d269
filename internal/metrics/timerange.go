package metrics

import (
	"fmt"
	"strings"
	"time"
)

// TimeRange selects how much retained history the charts cover.
// It is a view parameter only and never changes what is fetched.
type TimeRange int

const (
	RangeHour TimeRange = iota
	RangeDay
	RangeWeek
	RangeMonth
)

// TimeRanges lists every range in display order.
var TimeRanges = []TimeRange{RangeHour, RangeDay, RangeWeek, RangeMonth}

// String returns the config/flag spelling of the range.
func (r TimeRange) String() string {
	switch r {
	case RangeHour:
		return "hour"
	case RangeDay:
		return "day"
	case RangeWeek:
		return "week"
	case RangeMonth:
		return "month"
	default:
		return "hour"
	}
}

// Label returns a human-readable label for selectors and headers.
func (r TimeRange) Label() string {
	switch r {
	case RangeDay:
		return "Last 24 hours"
	case RangeWeek:
		return "Last 7 days"
	case RangeMonth:
		return "Last 30 days"
	default:
		return "Last 1 hour"
	}
}

// Span is the total window covered by the range.
func (r TimeRange) Span() time.Duration {
	switch r {
	case RangeDay:
		return 24 * time.Hour
	case RangeWeek:
		return 7 * 24 * time.Hour
	case RangeMonth:
		return 30 * 24 * time.Hour
	default:
		return time.Hour
	}
}

// Grain is the bucket width used when charting the range.
func (r TimeRange) Grain() time.Duration {
	switch r {
	case RangeDay:
		return time.Hour
	case RangeWeek:
		return 6 * time.Hour
	case RangeMonth:
		return 24 * time.Hour
	default:
		return time.Minute
	}
}

// Buckets is the maximum number of buckets the range can produce.
func (r TimeRange) Buckets() int {
	return int(r.Span() / r.Grain())
}

// Next cycles to the next range.
func (r TimeRange) Next() TimeRange {
	return TimeRange((int(r) + 1) % len(TimeRanges))
}

// ParseTimeRange accepts the config spelling ("hour", "day", "week", "month")
// and common aliases ("1h", "24h", "7d", "30d", "lastHour", ...).
func ParseTimeRange(s string) (TimeRange, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "hour", "1h", "lasthour", "":
		return RangeHour, nil
	case "day", "24h", "1d", "last24h":
		return RangeDay, nil
	case "week", "7d", "1w", "last7d":
		return RangeWeek, nil
	case "month", "30d", "last30d":
		return RangeMonth, nil
	}
	return RangeHour, fmt.Errorf("unknown time range %q (want hour, day, week, or month)", s)
}
