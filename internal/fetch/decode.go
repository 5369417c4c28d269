package fetch

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"github.com/rileyhilliard/sysdash/internal/errors"
	"github.com/rileyhilliard/sysdash/internal/metrics"
)

// Wire shapes use pointers so that missing required fields can be told apart
// from zero values.

type wireStatus struct {
	CPU     *wireCPU        `json:"cpu"`
	Memory  *wireUsage      `json:"memory"`
	Disk    *wireUsage      `json:"disk"`
	Network []wireInterface `json:"network"`
}

type wireCPU struct {
	UsagePercent *float64 `json:"usage_percent"`
	Temperature  *float64 `json:"temperature"`
}

type wireUsage struct {
	Total        *json.Number `json:"total"`
	Used         *json.Number `json:"used"`
	Free         *json.Number `json:"free"`
	UsagePercent *float64     `json:"usage_percent"`
}

// wireInterface accepts both snake_case counters and the camelCase names of
// raw gopsutil IOCountersStat payloads.
type wireInterface struct {
	Name           *string      `json:"name"`
	BytesSent      *json.Number `json:"bytes_sent"`
	BytesRecv      *json.Number `json:"bytes_recv"`
	BytesSentCamel *json.Number `json:"bytesSent"`
	BytesRecvCamel *json.Number `json:"bytesRecv"`
}

type wireProcess struct {
	PID        *json.Number    `json:"pid"`
	Name       *string         `json:"name"`
	CPUPercent *float64        `json:"cpu_percent"`
	MemPercent *float64        `json:"mem_percent"`
	Status     json.RawMessage `json:"status"`
}

// schemaError builds the SCHEMA error returned for malformed payloads.
func schemaError(format string, args ...interface{}) error {
	return errors.New(errors.ErrSchema, fmt.Sprintf(format, args...),
		"The endpoint may be running an incompatible version")
}

func decodeJSON(body []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return errors.WrapWithCode(err, errors.ErrSchema,
			"Endpoint returned malformed JSON",
			"The endpoint may be running an incompatible version")
	}
	return nil
}

// decodeStatus parses and validates a status payload.
func decodeStatus(body []byte) (metrics.SystemStatus, error) {
	var w wireStatus
	if err := decodeJSON(body, &w); err != nil {
		return metrics.SystemStatus{}, err
	}

	if w.CPU == nil {
		return metrics.SystemStatus{}, schemaError("status payload is missing cpu")
	}
	if w.CPU.UsagePercent == nil {
		return metrics.SystemStatus{}, schemaError("status payload is missing cpu.usage_percent")
	}
	if w.CPU.Temperature == nil {
		return metrics.SystemStatus{}, schemaError("status payload is missing cpu.temperature")
	}

	mem, err := w.Memory.toUsage("memory")
	if err != nil {
		return metrics.SystemStatus{}, err
	}
	disk, err := w.Disk.toUsage("disk")
	if err != nil {
		return metrics.SystemStatus{}, err
	}

	network := make([]metrics.NetworkInterface, 0, len(w.Network))
	seen := make(map[string]bool, len(w.Network))
	for i, iface := range w.Network {
		if iface.Name == nil {
			return metrics.SystemStatus{}, schemaError("network[%d] is missing name", i)
		}
		name := *iface.Name
		if seen[name] {
			return metrics.SystemStatus{}, schemaError("network interface %q appears twice", name)
		}
		seen[name] = true

		sent, err := counter(firstNumber(iface.BytesSent, iface.BytesSentCamel), fmt.Sprintf("network[%s].bytes_sent", name))
		if err != nil {
			return metrics.SystemStatus{}, err
		}
		recv, err := counter(firstNumber(iface.BytesRecv, iface.BytesRecvCamel), fmt.Sprintf("network[%s].bytes_recv", name))
		if err != nil {
			return metrics.SystemStatus{}, err
		}

		network = append(network, metrics.NetworkInterface{Name: name, BytesSent: sent, BytesRecv: recv})
	}

	return metrics.SystemStatus{
		CPU: metrics.CPUStatus{
			UsagePercent: *w.CPU.UsagePercent,
			TemperatureC: *w.CPU.Temperature,
		},
		Memory:  mem,
		Disk:    disk,
		Network: network,
	}, nil
}

func (w *wireUsage) toUsage(field string) (metrics.Usage, error) {
	if w == nil {
		return metrics.Usage{}, schemaError("status payload is missing %s", field)
	}
	if w.UsagePercent == nil {
		return metrics.Usage{}, schemaError("status payload is missing %s.usage_percent", field)
	}

	total, err := counter(w.Total, field+".total")
	if err != nil {
		return metrics.Usage{}, err
	}
	used, err := counter(w.Used, field+".used")
	if err != nil {
		return metrics.Usage{}, err
	}
	free, err := counter(w.Free, field+".free")
	if err != nil {
		return metrics.Usage{}, err
	}

	return metrics.Usage{
		TotalBytes:   total,
		UsedBytes:    used,
		FreeBytes:    free,
		UsagePercent: *w.UsagePercent,
	}, nil
}

func firstNumber(nums ...*json.Number) *json.Number {
	for _, n := range nums {
		if n != nil {
			return n
		}
	}
	return nil
}

// counter converts a required non-negative number into a uint64.
// Fractional values (produced by some mock backends) are truncated.
func counter(n *json.Number, field string) (uint64, error) {
	if n == nil {
		return 0, schemaError("payload is missing %s", field)
	}
	if v, err := strconv.ParseUint(n.String(), 10, 64); err == nil {
		return v, nil
	}
	f, err := n.Float64()
	if err != nil || f < 0 || math.IsInf(f, 0) || f > math.MaxUint64 {
		return 0, schemaError("%s must be a non-negative number, got %s", field, n.String())
	}
	return uint64(f), nil
}

// decodeProcesses parses and validates a process list payload.
// A JSON null is treated as an empty list.
func decodeProcesses(body []byte) ([]metrics.Process, error) {
	var w []wireProcess
	if err := decodeJSON(body, &w); err != nil {
		return nil, err
	}

	out := make([]metrics.Process, 0, len(w))
	for i, p := range w {
		if p.PID == nil {
			return nil, schemaError("processes[%d] is missing pid", i)
		}
		pid, err := strconv.ParseUint(p.PID.String(), 10, 32)
		if err != nil {
			return nil, schemaError("processes[%d].pid must be a 32-bit unsigned integer, got %s", i, p.PID.String())
		}
		if p.Name == nil {
			return nil, schemaError("processes[%d] is missing name", i)
		}
		if p.CPUPercent == nil || p.MemPercent == nil {
			return nil, schemaError("processes[%d] is missing cpu_percent or mem_percent", i)
		}
		if *p.CPUPercent < 0 || *p.MemPercent < 0 {
			return nil, schemaError("processes[%d] has a negative usage value", i)
		}
		status, err := decodeProcessStatus(p.Status)
		if err != nil {
			return nil, schemaError("processes[%d].status: %v", i, err)
		}

		out = append(out, metrics.Process{
			PID:        uint32(pid),
			Name:       *p.Name,
			CPUPercent: *p.CPUPercent,
			MemPercent: *p.MemPercent,
			Status:     status,
		})
	}
	return out, nil
}

// decodeProcessStatus accepts a string or an array of strings (gopsutil v3
// reports a list of state letters/words). The first recognized token wins.
func decodeProcessStatus(raw json.RawMessage) (metrics.ProcessStatus, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", fmt.Errorf("missing")
	}

	var tokens []string
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		tokens = []string{single}
	} else if err := json.Unmarshal(raw, &tokens); err != nil {
		return "", fmt.Errorf("must be a string or list of strings")
	}

	for _, tok := range tokens {
		if status, ok := metrics.ParseProcessStatus(tok); ok {
			return status, nil
		}
	}
	return "", fmt.Errorf("unrecognized value %s", string(raw))
}

// decodeErrorBody pulls the message out of an {"error": "..."} body.
func decodeErrorBody(body []byte) string {
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		return ""
	}
	return e.Error
}
