package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/config"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

// StatusView renders a one-shot system status panel with a gauge per metric.
func StatusView(r metrics.Reading, th config.Thresholds) string {
	var b strings.Builder
	b.WriteString("Current system status\n")
	b.WriteString(fmt.Sprintf("  %s\n", Gauge("CPU", r.CPUPercent, th.CPUPct)))
	b.WriteString(fmt.Sprintf("  %s\n", Gauge("RAM", r.RAMPercent, th.RAMPct)))
	b.WriteString(fmt.Sprintf("  %s\n", Gauge("Disk", r.DiskPercent, th.DiskPct)))
	b.WriteString(fmt.Sprintf("  as of %s\n", r.Timestamp.Format(time.RFC3339)))
	return b.String()
}
