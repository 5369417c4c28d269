package doctor

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/rileyhilliard/sysdash/internal/poller"
)

// NewEndpointChecks returns the checks that talk to the metrics endpoint.
// timeout is the configured request timeout; responses slower than half of
// it are flagged.
func NewEndpointChecks(f poller.Fetcher, endpoint string, timeout time.Duration) []Check {
	return []Check{
		&EndpointStatusCheck{Fetcher: f, Endpoint: endpoint, Timeout: timeout},
		&EndpointProcessesCheck{Fetcher: f},
		&TemperatureCheck{Fetcher: f},
	}
}

// summarize renders structured errors on one line without repeating a
// message that was copied from its cause.
func summarize(err error) string {
	var e *errors.Error
	if !stderrors.As(err, &e) {
		return err.Error()
	}
	if e.Cause == nil || e.Cause.Error() == e.Message {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Summary()
}

// suggestionFor returns the structured error's suggestion, or fallback.
func suggestionFor(err error, fallback string) string {
	var e *errors.Error
	if stderrors.As(err, &e) && e.Suggestion != "" {
		return e.Suggestion
	}
	return fallback
}

// EndpointStatusCheck fetches a status reading and times it.
type EndpointStatusCheck struct {
	Fetcher  poller.Fetcher
	Endpoint string
	Timeout  time.Duration
}

func (c *EndpointStatusCheck) Name() string     { return "endpoint_status" }
func (c *EndpointStatusCheck) Category() string { return CategoryEndpoint }

func (c *EndpointStatusCheck) Run(ctx context.Context) CheckResult {
	start := time.Now()
	status, err := c.Fetcher.FetchStatus(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)

	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("%s: %s", c.Endpoint, summarize(err)),
			Suggestion: suggestionFor(err, "Start the agent with 'sysdash serve' or point --api at a running endpoint"),
		}
	}

	msg := fmt.Sprintf("%s answered in %v (CPU %s)", c.Endpoint, elapsed, metrics.FormatPercent(status.CPU.UsagePercent))
	if c.Timeout > 0 && elapsed > c.Timeout/2 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    msg,
			Suggestion: fmt.Sprintf("Responses are close to api.timeout (%v); raise it or check the endpoint's load", c.Timeout),
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: msg,
	}
}

// EndpointProcessesCheck fetches the process list.
type EndpointProcessesCheck struct {
	Fetcher poller.Fetcher
}

func (c *EndpointProcessesCheck) Name() string     { return "endpoint_processes" }
func (c *EndpointProcessesCheck) Category() string { return CategoryEndpoint }

func (c *EndpointProcessesCheck) Run(ctx context.Context) CheckResult {
	ps, err := c.Fetcher.FetchProcesses(ctx)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    "Process list: " + summarize(err),
			Suggestion: suggestionFor(err, "The dashboard will show synthetic processes until this is fixed"),
		}
	}

	if len(ps) == 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "Process list is empty",
			Suggestion: "The agent may lack permission to read the process table",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%d process%s reported", len(ps), pluralizeES(len(ps))),
	}
}

// TemperatureCheck reports whether the endpoint has a CPU temperature sensor.
type TemperatureCheck struct {
	Fetcher poller.Fetcher
}

func (c *TemperatureCheck) Name() string     { return "cpu_temperature" }
func (c *TemperatureCheck) Category() string { return CategoryEndpoint }

func (c *TemperatureCheck) Run(ctx context.Context) CheckResult {
	status, err := c.Fetcher.FetchStatus(ctx)
	if err != nil {
		// EndpointStatusCheck reports this
		return CheckResult{
			Name:    c.Name(),
			Status:  StatusFail,
			Message: "Cannot read temperature: status unavailable",
		}
	}

	if status.CPU.TemperatureC <= 0 {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    "No CPU temperature reported",
			Suggestion: "The temperature card will show n/a; on Linux install lm-sensors or load the coretemp/k10temp module",
		}
	}

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("CPU temperature %.1f°C", status.CPU.TemperatureC),
	}
}

func pluralizeES(n int) string {
	if n == 1 {
		return ""
	}
	return "es"
}
