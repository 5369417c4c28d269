// Package fetch retrieves status and process snapshots from the metrics endpoint.
//
// Every call issues exactly one request and never retries; retry policy lives
// in the poller. All failures come back as *errors.Error with one of the codes
// ErrTransport, ErrProtocol, or ErrSchema.
package fetch

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/logger"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// Endpoint paths relative to the API base URL.
const (
	StatusPath    = "/system/status"
	ProcessesPath = "/system/processes"
)

// DefaultTimeout bounds each request; it must stay below the poll interval.
const DefaultTimeout = 4 * time.Second

// maxBodyBytes caps how much of a response body is read.
const maxBodyBytes = 8 << 20

// Options configures a Client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client fetches metrics over HTTP.
type Client struct {
	base    string
	timeout time.Duration
	http    *http.Client
	log     logger.Logger
}

// New creates a Client. A zero Timeout uses DefaultTimeout.
func New(opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	log := opts.Logger
	if log == nil {
		log = logger.Noop()
	}

	return &Client{
		base:    strings.TrimRight(opts.BaseURL, "/"),
		timeout: timeout,
		http:    httpClient,
		log:     log,
	}
}

// BaseURL returns the API base the client talks to.
func (c *Client) BaseURL() string {
	return c.base
}

// FetchStatus retrieves the current system status.
func (c *Client) FetchStatus(ctx context.Context) (metrics.SystemStatus, error) {
	body, err := c.get(ctx, StatusPath)
	if err != nil {
		return metrics.SystemStatus{}, err
	}
	return decodeStatus(body)
}

// FetchProcesses retrieves the current process table.
func (c *Client) FetchProcesses(ctx context.Context) ([]metrics.Process, error) {
	body, err := c.get(ctx, ProcessesPath)
	if err != nil {
		return nil, err
	}
	return decodeProcesses(body)
}

// get performs a single GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	url := c.base + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Invalid metrics endpoint URL: %s", url),
			"Check api.base_url in your config")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return nil, errors.WrapWithCode(err, errors.ErrTransport,
				fmt.Sprintf("GET %s timed out after %s", path, c.timeout),
				"The endpoint is slow or unreachable; check that it is running")
		}
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Can't reach metrics endpoint at %s", c.base),
			"Start it with 'sysdash serve' or point --api at a running endpoint")
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.ErrTransport,
			fmt.Sprintf("Failed reading response from %s", path), "")
	}

	c.log.Debug("GET %s -> %d (%d bytes, %s)", path, resp.StatusCode, len(body), time.Since(start).Round(time.Millisecond))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errors.New(errors.ErrProtocol,
			fmt.Sprintf("GET %s returned %s", path, resp.Status),
			bodyHint(body))
	}

	return body, nil
}

// bodyHint extracts a short message from an error response body.
func bodyHint(body []byte) string {
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return ""
	}
	if e := decodeErrorBody(body); e != "" {
		msg = e
	}
	const max = 200
	if len(msg) > max {
		msg = msg[:max-3] + "..."
	}
	return msg
}
