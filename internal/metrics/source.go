package metrics

import (
	"errors"
	"fmt"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

// ErrMetricUnavailable marks a metric the OS could not report. The reading
// still carries the other metrics; the failed one is the Unknown sentinel.
var ErrMetricUnavailable = errors.New("metric unavailable")

// Source produces readings. The engine depends on this interface so tests can
// substitute a deterministic fake for the gopsutil-backed implementation.
type Source interface {
	// Sample returns the current reading. On partial failure the returned
	// error wraps ErrMetricUnavailable once per failed metric, and the
	// corresponding fields hold the Unknown sentinel. The reading is always
	// usable.
	Sample() (Reading, error)
}

// SystemSource reads host metrics via gopsutil. CPU usage is averaged over a
// one-second window; disk usage is measured on the root partition.
type SystemSource struct {
	// CPUWindow overrides the CPU sampling window. Zero means one second.
	CPUWindow time.Duration
}

func NewSystemSource() *SystemSource {
	return &SystemSource{}
}

func (s *SystemSource) Sample() (Reading, error) {
	r := Reading{
		Timestamp:   time.Now(),
		CPUPercent:  Unknown,
		RAMPercent:  Unknown,
		DiskPercent: Unknown,
	}
	var errs []error

	window := s.CPUWindow
	if window <= 0 {
		window = time.Second
	}
	cpuPcts, err := cpu.Percent(window, false)
	if err != nil || len(cpuPcts) == 0 {
		errs = append(errs, fmt.Errorf("cpu: %w: %v", ErrMetricUnavailable, err))
	} else {
		r.CPUPercent = cpuPcts[0]
	}

	vmem, err := mem.VirtualMemory()
	if err != nil {
		errs = append(errs, fmt.Errorf("memory: %w: %v", ErrMetricUnavailable, err))
	} else {
		r.RAMPercent = vmem.UsedPercent
	}

	diskPath := "/"
	if runtime.GOOS == "windows" {
		diskPath = "C:\\"
	}
	diskStat, err := disk.Usage(diskPath)
	if err != nil {
		errs = append(errs, fmt.Errorf("disk: %w: %v", ErrMetricUnavailable, err))
	} else {
		r.DiskPercent = diskStat.UsedPercent
	}

	return r, errors.Join(errs...)
}
