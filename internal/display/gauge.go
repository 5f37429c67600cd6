package display

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/ishitachaudhary10/System-Metric-Tracker/internal/metrics"
)

const gaugeWidth = 24

var (
	colorOK     = lipgloss.Color("#22C55E")
	colorWarn   = lipgloss.Color("#EAB308")
	colorDanger = lipgloss.Color("#EF4444")
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
)

// Gauge renders a labeled horizontal usage bar, colored green below the
// threshold, yellow when close, red above. A sentinel reading renders as a
// dimmed "unknown" bar instead of a misleading zero.
func Gauge(label string, percent, threshold float64) string {
	if !metrics.Known(percent) {
		return fmt.Sprintf("%-5s %s unknown", label, dimStyle.Render(strings.Repeat("░", gaugeWidth)))
	}

	clamped := math.Max(0, math.Min(100, percent))
	filled := int(math.Round(clamped / 100 * gaugeWidth))

	style := lipgloss.NewStyle().Foreground(gaugeColor(clamped, threshold))
	bar := style.Render(strings.Repeat("█", filled)) + strings.Repeat("░", gaugeWidth-filled)
	return fmt.Sprintf("%-5s %s %5.1f%%", label, bar, percent)
}

func gaugeColor(percent, threshold float64) lipgloss.Color {
	// Without a configured threshold fall back to fixed bands.
	if threshold <= 0 {
		threshold = 90
	}
	switch {
	case percent > threshold:
		return colorDanger
	case percent > threshold*0.85:
		return colorWarn
	default:
		return colorOK
	}
}
