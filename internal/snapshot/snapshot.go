// Package snapshot wraps OS process enumeration and the system gauges
// behind a small interface so the agent loop can be tested without a
// live host.
package snapshot

import (
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"
)

// UnknownUser is substituted when the owning account of a process
// cannot be resolved (permission denied, process exited mid-scan).
const UnknownUser = "Unknown"

// Process is one enumerated process at snapshot time. Ephemeral: built
// fresh each poll, never persisted as-is.
type Process struct {
	Pid       int32
	Name      string
	User      string
	CreatedAt time.Time
}

// Source yields a point-in-time process list and the host gauges.
type Source interface {
	// Processes returns all running processes in enumeration order.
	// Individual lookup failures skip that process; only a total
	// enumeration failure returns an error.
	Processes() ([]Process, error)
	// Gauges returns CPU and memory usage in percent. The CPU figure
	// averages over a one second window, so the call blocks briefly.
	Gauges() (cpuPercent, memPercent float64, err error)
}

type systemSource struct{}

// New returns a Source backed by the local OS.
func New() Source { return systemSource{} }

func (systemSource) Processes() ([]Process, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("process enumeration: %w", err)
	}

	records := make([]Process, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			// process exited mid-scan or access denied
			continue
		}
		created, err := p.CreateTime()
		if err != nil {
			continue
		}
		user, err := p.Username()
		if err != nil {
			user = UnknownUser
		}
		records = append(records, Process{
			Pid:       p.Pid,
			Name:      name,
			User:      user,
			CreatedAt: time.UnixMilli(created),
		})
	}
	return records, nil
}

func (systemSource) Gauges() (float64, float64, error) {
	percents, err := cpu.Percent(time.Second, false)
	if err != nil {
		return 0, 0, fmt.Errorf("cpu gauge: %w", err)
	}
	if len(percents) == 0 {
		return 0, 0, fmt.Errorf("cpu gauge: no samples")
	}
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, 0, fmt.Errorf("memory gauge: %w", err)
	}
	return percents[0], vm.UsedPercent, nil
}
