package agent

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/rileyhilliard/sysdash/internal/metrics"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	psnet "github.com/shirou/gopsutil/v3/net"
	"github.com/shirou/gopsutil/v3/process"
)

// Collector reads metrics from the local host.
type Collector interface {
	Status(ctx context.Context) (metrics.SystemStatus, error)
	Processes(ctx context.Context) ([]metrics.Process, error)
}

// HostCollector reads metrics through gopsutil.
type HostCollector struct {
	// DiskPath is the mount point reported as "disk".
	DiskPath string
}

// NewHostCollector creates a collector reporting usage of diskPath ("/" if empty).
func NewHostCollector(diskPath string) *HostCollector {
	if diskPath == "" {
		diskPath = "/"
	}
	return &HostCollector{DiskPath: diskPath}
}

// Status samples CPU, memory, disk, network, and CPU temperature.
// A missing temperature sensor reports 0 rather than failing.
func (c *HostCollector) Status(ctx context.Context) (metrics.SystemStatus, error) {
	percents, err := cpu.PercentWithContext(ctx, 0, false)
	if err != nil {
		return metrics.SystemStatus{}, fmt.Errorf("read cpu usage: %w", err)
	}
	if len(percents) == 0 {
		return metrics.SystemStatus{}, fmt.Errorf("read cpu usage: no data")
	}

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return metrics.SystemStatus{}, fmt.Errorf("read memory: %w", err)
	}

	du, err := disk.UsageWithContext(ctx, c.DiskPath)
	if err != nil {
		return metrics.SystemStatus{}, fmt.Errorf("read disk usage of %s: %w", c.DiskPath, err)
	}

	counters, err := psnet.IOCountersWithContext(ctx, true)
	if err != nil {
		return metrics.SystemStatus{}, fmt.Errorf("read network counters: %w", err)
	}

	// Sensor reads commonly return partial data alongside a warning.
	temps, _ := host.SensorsTemperaturesWithContext(ctx)

	network := make([]metrics.NetworkInterface, 0, len(counters))
	for _, io := range counters {
		network = append(network, metrics.NetworkInterface{
			Name:      io.Name,
			BytesSent: io.BytesSent,
			BytesRecv: io.BytesRecv,
		})
	}

	return metrics.SystemStatus{
		CPU: metrics.CPUStatus{
			UsagePercent: percents[0],
			TemperatureC: cpuTemperature(temps),
		},
		Memory: metrics.Usage{
			TotalBytes:   vm.Total,
			UsedBytes:    vm.Used,
			FreeBytes:    vm.Free,
			UsagePercent: vm.UsedPercent,
		},
		Disk: metrics.Usage{
			TotalBytes:   du.Total,
			UsedBytes:    du.Used,
			FreeBytes:    du.Free,
			UsagePercent: du.UsedPercent,
		},
		Network: network,
	}, nil
}

// cpuSensorHints match sensor keys that describe the CPU package or cores.
var cpuSensorHints = []string{"cpu", "core", "package", "k10temp", "thermal"}

// cpuTemperature picks the first plausible CPU sensor reading.
func cpuTemperature(temps []host.TemperatureStat) float64 {
	for _, t := range temps {
		key := strings.ToLower(t.SensorKey)
		for _, hint := range cpuSensorHints {
			if strings.Contains(key, hint) && t.Temperature > 0 {
				return t.Temperature
			}
		}
	}
	return 0
}

// Processes lists running processes ordered by PID. Processes that exit
// while being inspected are skipped.
func (c *HostCollector) Processes(ctx context.Context) ([]metrics.Process, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("list processes: %w", err)
	}

	out := make([]metrics.Process, 0, len(procs))
	for _, p := range procs {
		if p.Pid < 0 {
			continue
		}
		name, err := p.NameWithContext(ctx)
		if err != nil {
			continue
		}
		cpuPercent, _ := p.CPUPercentWithContext(ctx)
		memPercent, _ := p.MemoryPercentWithContext(ctx)
		states, _ := p.StatusWithContext(ctx)

		out = append(out, metrics.Process{
			PID:        uint32(p.Pid),
			Name:       name,
			CPUPercent: cpuPercent,
			MemPercent: float64(memPercent),
			Status:     processStatus(states),
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].PID < out[j].PID })
	return out, nil
}

// processStatus maps gopsutil state tokens onto the three dashboard states.
// Unrecognized or missing states report as sleeping.
func processStatus(states []string) metrics.ProcessStatus {
	for _, s := range states {
		if status, ok := metrics.ParseProcessStatus(s); ok {
			return status
		}
	}
	return metrics.StatusSleeping
}
