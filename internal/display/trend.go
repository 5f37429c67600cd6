package display

import (
	"fmt"
	"strings"
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

const trendWidth = 60

// TrendView renders sparkline trends and summary statistics for a period of
// readings. cpuThreshold is the alert threshold used for the "above
// threshold" count; zero disables that line.
func TrendView(readings []metrics.Reading, days int, cpuThreshold float64) string {
	if len(readings) == 0 {
		return "No data available for the requested period.\n"
	}

	cpu := make([]float64, len(readings))
	ram := make([]float64, len(readings))
	disk := make([]float64, len(readings))
	for i, r := range readings {
		cpu[i] = r.CPUPercent
		ram[i] = r.RAMPercent
		disk[i] = r.DiskPercent
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Resource usage, last %d day(s): %d samples\n", days, len(readings))
	fmt.Fprintf(&b, "  %s to %s\n\n",
		readings[0].Timestamp.Format(time.RFC3339),
		readings[len(readings)-1].Timestamp.Format(time.RFC3339))

	for _, row := range []struct {
		label string
		data  []float64
	}{
		{"CPU", cpu},
		{"RAM", ram},
		{"Disk", disk},
	} {
		fmt.Fprintf(&b, "  %-5s %s\n", row.label, Sparkline(row.data, trendWidth))
		avg, minV, maxV, n := summarize(row.data)
		if n == 0 {
			b.WriteString("        no valid samples\n\n")
			continue
		}
		fmt.Fprintf(&b, "        avg %.1f%%  min %.1f%%  max %.1f%%\n", avg, minV, maxV)
		if row.label == "CPU" && cpuThreshold > 0 {
			above := 0
			for _, v := range row.data {
				if v > cpuThreshold {
					above++
				}
			}
			fmt.Fprintf(&b, "        above %.0f%% threshold: %d sample(s)\n", cpuThreshold, above)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// summarize computes stats over valid (non-sentinel) values.
func summarize(data []float64) (avg, minV, maxV float64, n int) {
	sum := 0.0
	for _, v := range data {
		if !metrics.Known(v) {
			continue
		}
		if n == 0 || v < minV {
			minV = v
		}
		if n == 0 || v > maxV {
			maxV = v
		}
		sum += v
		n++
	}
	if n == 0 {
		return 0, 0, 0, 0
	}
	return sum / float64(n), minV, maxV, n
}
