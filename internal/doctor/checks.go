// Package doctor runs diagnostic checks against the config, the metrics
// endpoint, and the local host's ability to run the agent.
package doctor

import (
	"context"
	"fmt"
)

// CheckStatus represents the result status of a check.
type CheckStatus int

const (
	StatusPass CheckStatus = iota
	StatusWarn
	StatusFail
)

// Check categories, in report order.
const (
	CategoryConfig   = "CONFIG"
	CategoryEndpoint = "ENDPOINT"
	CategoryAgent    = "AGENT"
)

// Categories lists every category in the order reports show them.
var Categories = []string{CategoryConfig, CategoryEndpoint, CategoryAgent}

// String returns a human-readable status string.
func (s CheckStatus) String() string {
	switch s {
	case StatusPass:
		return "pass"
	case StatusWarn:
		return "warn"
	case StatusFail:
		return "fail"
	default:
		return "unknown"
	}
}

// MarshalText renders the status as its string form in JSON output.
func (s CheckStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// CheckResult contains the outcome of running a check.
type CheckResult struct {
	Name       string      `json:"name"`
	Status     CheckStatus `json:"status"`
	Message    string      `json:"message"`
	Suggestion string      `json:"suggestion,omitempty"`
}

// Check defines the interface for diagnostic checks.
type Check interface {
	// Name returns the check's identifier.
	Name() string

	// Category returns the check's category (e.g., "CONFIG", "ENDPOINT").
	Category() string

	// Run executes the check and returns the result.
	Run(ctx context.Context) CheckResult
}

// RunAll executes all checks in order and returns the results.
func RunAll(ctx context.Context, checks []Check) []CheckResult {
	results := make([]CheckResult, len(checks))
	for i, check := range checks {
		results[i] = check.Run(ctx)
	}
	return results
}

// GroupByCategory returns result indices per category.
func GroupByCategory(checks []Check) map[string][]int {
	grouped := make(map[string][]int)
	for i, check := range checks {
		grouped[check.Category()] = append(grouped[check.Category()], i)
	}
	return grouped
}

// CountByStatus counts results by status.
func CountByStatus(results []CheckResult) map[CheckStatus]int {
	counts := make(map[CheckStatus]int)
	for _, r := range results {
		counts[r.Status]++
	}
	return counts
}

// HasFailures returns true if any result has a fail status.
func HasFailures(results []CheckResult) bool {
	return CountByStatus(results)[StatusFail] > 0
}

// HasIssues returns true if any result has a fail or warn status.
func HasIssues(results []CheckResult) bool {
	counts := CountByStatus(results)
	return counts[StatusFail]+counts[StatusWarn] > 0
}

// Summary returns a summary string of the check results.
func Summary(results []CheckResult) string {
	counts := CountByStatus(results)
	total := counts[StatusWarn] + counts[StatusFail]
	if total == 0 {
		return "Everything looks good"
	}
	return fmt.Sprintf("%d issue%s found", total, pluralize(total))
}

func pluralize(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
