package alerting

import (
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/config"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

// AlertEvent records one metric exceeding its threshold at one tick.
type AlertEvent struct {
	Timestamp time.Time
	Metric    string
	Value     float64
	Threshold float64
}

// Evaluate compares a reading against the configured thresholds and returns
// one event per offending metric. It is pure and stateless: a metric that
// stays above its threshold fires again on every tick (level-triggered, no
// suppression). A threshold of zero disables the metric; sentinel readings
// never fire.
func Evaluate(r metrics.Reading, th config.Thresholds) []AlertEvent {
	var events []AlertEvent
	for _, check := range []struct {
		metric    string
		value     float64
		threshold float64
	}{
		{metrics.MetricCPU, r.CPUPercent, th.CPUPct},
		{metrics.MetricRAM, r.RAMPercent, th.RAMPct},
		{metrics.MetricDisk, r.DiskPercent, th.DiskPct},
	} {
		if check.threshold <= 0 || !metrics.Known(check.value) {
			continue
		}
		if check.value > check.threshold {
			events = append(events, AlertEvent{
				Timestamp: r.Timestamp,
				Metric:    check.metric,
				Value:     check.value,
				Threshold: check.threshold,
			})
		}
	}
	return events
}
