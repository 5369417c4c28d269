package doctor

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckStatus_String(t *testing.T) {
	tests := []struct {
		status   CheckStatus
		expected string
	}{
		{StatusPass, "pass"},
		{StatusWarn, "warn"},
		{StatusFail, "fail"},
		{CheckStatus(99), "unknown"},
	}

	for _, tc := range tests {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.status.String())
		})
	}
}

func TestCheckResult_JSONStatusIsText(t *testing.T) {
	data, err := json.Marshal(CheckResult{Name: "x", Status: StatusWarn, Message: "m"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"x","status":"warn","message":"m"}`, string(data))
}

// mockCheck is a test implementation of Check.
type mockCheck struct {
	name     string
	category string
	result   CheckResult
	runs     int
}

func (m *mockCheck) Name() string     { return m.name }
func (m *mockCheck) Category() string { return m.category }
func (m *mockCheck) Run(ctx context.Context) CheckResult {
	m.runs++
	return m.result
}

func TestRunAll(t *testing.T) {
	first := &mockCheck{name: "check1", category: "TEST", result: CheckResult{Name: "check1", Status: StatusPass, Message: "OK"}}
	second := &mockCheck{name: "check2", category: "TEST", result: CheckResult{Name: "check2", Status: StatusFail, Message: "Failed"}}

	results := RunAll(context.Background(), []Check{first, second})

	require.Len(t, results, 2)
	assert.Equal(t, StatusPass, results[0].Status)
	assert.Equal(t, StatusFail, results[1].Status)
	assert.Equal(t, 1, first.runs)
	assert.Equal(t, 1, second.runs)
}

func TestGroupByCategory(t *testing.T) {
	checks := []Check{
		&mockCheck{name: "c1", category: "A"},
		&mockCheck{name: "c2", category: "B"},
		&mockCheck{name: "c3", category: "A"},
	}

	grouped := GroupByCategory(checks)

	assert.Equal(t, []int{0, 2}, grouped["A"])
	assert.Equal(t, []int{1}, grouped["B"])
}

func TestCountByStatus(t *testing.T) {
	results := []CheckResult{
		{Status: StatusPass},
		{Status: StatusPass},
		{Status: StatusWarn},
		{Status: StatusFail},
	}

	counts := CountByStatus(results)

	assert.Equal(t, 2, counts[StatusPass])
	assert.Equal(t, 1, counts[StatusWarn])
	assert.Equal(t, 1, counts[StatusFail])
}

func TestHasFailuresAndIssues(t *testing.T) {
	tests := []struct {
		name     string
		results  []CheckResult
		failures bool
		issues   bool
	}{
		{"all pass", []CheckResult{{Status: StatusPass}, {Status: StatusPass}}, false, false},
		{"with warn only", []CheckResult{{Status: StatusPass}, {Status: StatusWarn}}, false, true},
		{"with fail", []CheckResult{{Status: StatusPass}, {Status: StatusFail}}, true, true},
		{"empty", nil, false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.failures, HasFailures(tc.results))
			assert.Equal(t, tc.issues, HasIssues(tc.results))
		})
	}
}

func TestSummary(t *testing.T) {
	tests := []struct {
		name    string
		results []CheckResult
		want    string
	}{
		{"all good", []CheckResult{{Status: StatusPass}}, "Everything looks good"},
		{"one issue", []CheckResult{{Status: StatusFail}}, "1 issue found"},
		{"multiple issues", []CheckResult{{Status: StatusFail}, {Status: StatusWarn}}, "2 issues found"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Summary(tc.results))
		})
	}
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "s", pluralize(0))
	assert.Equal(t, "", pluralize(1))
	assert.Equal(t, "s", pluralize(10))
}
