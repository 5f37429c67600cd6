package metrics

import "time"

// Unknown is the sentinel recorded when the OS cannot report a metric.
// It is distinct from a valid zero reading and is never alerted on.
const Unknown = -1.0

// Metric names as they appear in alert records.
const (
	MetricCPU  = "CPU"
	MetricRAM  = "RAM"
	MetricDisk = "DISK"
)

// Reading is a single point-in-time sample of host resource usage.
// Percentages are in [0,100], or Unknown when the metric was unreadable.
type Reading struct {
	Timestamp   time.Time
	CPUPercent  float64
	RAMPercent  float64
	DiskPercent float64
}

// Known reports whether v is a real percentage rather than the Unknown sentinel.
func Known(v float64) bool {
	return v >= 0
}
