package logstream

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/alerting"
	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

// Active log file names. One active file per stream; rotation archives them
// as <name>.<timestamp>.gz next to the active file.
const (
	MetricsFileName = "syslog.txt"
	AlertsFileName  = "alerts.txt"
)

const alertTag = "ALERT"

// FormatReading renders one metrics record:
// <RFC3339 timestamp>,<cpu%>,<ram%>,<disk%>
func FormatReading(r metrics.Reading) string {
	return fmt.Sprintf("%s,%s,%s,%s",
		r.Timestamp.Format(time.RFC3339),
		formatPct(r.CPUPercent),
		formatPct(r.RAMPercent),
		formatPct(r.DiskPercent))
}

// ParseReading is the inverse of FormatReading.
func ParseReading(line string) (metrics.Reading, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 4 {
		return metrics.Reading{}, fmt.Errorf("metrics record has %d fields, want 4: %q", len(parts), line)
	}
	ts, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return metrics.Reading{}, fmt.Errorf("metrics record timestamp: %w", err)
	}
	vals := make([]float64, 3)
	for i, raw := range parts[1:] {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return metrics.Reading{}, fmt.Errorf("metrics record field %d: %w", i+1, err)
		}
		vals[i] = v
	}
	return metrics.Reading{
		Timestamp:   ts,
		CPUPercent:  vals[0],
		RAMPercent:  vals[1],
		DiskPercent: vals[2],
	}, nil
}

// FormatAlert renders one alert record:
// <RFC3339 timestamp>,ALERT,<metric>,<value>,<threshold>
func FormatAlert(ev alerting.AlertEvent) string {
	return fmt.Sprintf("%s,%s,%s,%s,%s",
		ev.Timestamp.Format(time.RFC3339),
		alertTag,
		ev.Metric,
		formatPct(ev.Value),
		formatPct(ev.Threshold))
}

// ParseAlert is the inverse of FormatAlert.
func ParseAlert(line string) (alerting.AlertEvent, error) {
	parts := strings.Split(strings.TrimSpace(line), ",")
	if len(parts) != 5 {
		return alerting.AlertEvent{}, fmt.Errorf("alert record has %d fields, want 5: %q", len(parts), line)
	}
	if parts[1] != alertTag {
		return alerting.AlertEvent{}, fmt.Errorf("alert record missing %s tag: %q", alertTag, line)
	}
	ts, err := time.Parse(time.RFC3339, parts[0])
	if err != nil {
		return alerting.AlertEvent{}, fmt.Errorf("alert record timestamp: %w", err)
	}
	value, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return alerting.AlertEvent{}, fmt.Errorf("alert record value: %w", err)
	}
	threshold, err := strconv.ParseFloat(parts[4], 64)
	if err != nil {
		return alerting.AlertEvent{}, fmt.Errorf("alert record threshold: %w", err)
	}
	return alerting.AlertEvent{
		Timestamp: ts,
		Metric:    parts[2],
		Value:     value,
		Threshold: threshold,
	}, nil
}

func formatPct(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
