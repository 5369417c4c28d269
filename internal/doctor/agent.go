package doctor

import (
	"context"
	"fmt"
	"net"
	"os"

	"github.com/rileyhilliard/sysdash/internal/config"
)

// NewAgentChecks returns checks for running 'sysdash serve' on this host.
func NewAgentChecks(serve config.ServeConfig) []Check {
	return []Check{
		&DiskPathCheck{Path: serve.DiskPath},
		&ListenAddrCheck{Addr: serve.Addr},
	}
}

// DiskPathCheck verifies the disk usage path exists.
type DiskPathCheck struct {
	Path string
}

func (c *DiskPathCheck) Name() string     { return "agent_disk_path" }
func (c *DiskPathCheck) Category() string { return CategoryAgent }

func (c *DiskPathCheck) Run(ctx context.Context) CheckResult {
	info, err := os.Stat(c.Path)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Disk path %s: %v", c.Path, err),
			Suggestion: "Set serve.disk_path to an existing mount point, such as /",
		}
	}
	if !info.IsDir() {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusFail,
			Message:    fmt.Sprintf("Disk path %s is not a directory", c.Path),
			Suggestion: "Set serve.disk_path to a mount point directory",
		}
	}
	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("Disk usage will be reported for %s", c.Path),
	}
}

// ListenAddrCheck tries to bind the agent's address.
// A busy port is only a warning: it is usually an agent that's already running.
type ListenAddrCheck struct {
	Addr string
}

func (c *ListenAddrCheck) Name() string     { return "agent_listen_addr" }
func (c *ListenAddrCheck) Category() string { return CategoryAgent }

func (c *ListenAddrCheck) Run(ctx context.Context) CheckResult {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", c.Addr)
	if err != nil {
		return CheckResult{
			Name:       c.Name(),
			Status:     StatusWarn,
			Message:    fmt.Sprintf("Can't bind %s: %v", c.Addr, err),
			Suggestion: "If 'sysdash serve' is already running this is expected; otherwise pick another serve.addr",
		}
	}
	ln.Close()

	return CheckResult{
		Name:    c.Name(),
		Status:  StatusPass,
		Message: fmt.Sprintf("%s is free for 'sysdash serve'", c.Addr),
	}
}
