package display

import "math"

// sparkBlocks are the eight block characters used for sparkline rendering,
// lowest to highest.
var sparkBlocks = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// Sparkline renders usage percentages on a fixed 0-100 scale so the three
// metric rows of a trend view are visually comparable. Values beyond width
// are downsampled by bucket averaging; sentinel values render as a space.
func Sparkline(data []float64, width int) string {
	if len(data) == 0 || width <= 0 {
		return ""
	}
	if len(data) > width {
		data = downsample(data, width)
	}

	runes := make([]rune, 0, len(data))
	for _, v := range data {
		if v < 0 {
			runes = append(runes, ' ')
			continue
		}
		normalized := math.Max(0, math.Min(1, v/100))
		idx := int(normalized * float64(len(sparkBlocks)-1))
		runes = append(runes, sparkBlocks[idx])
	}
	return string(runes)
}

// downsample averages data into width buckets, ignoring sentinel values.
// A bucket with only sentinels stays a sentinel.
func downsample(data []float64, width int) []float64 {
	out := make([]float64, width)
	for i := range out {
		lo := i * len(data) / width
		hi := (i + 1) * len(data) / width
		if hi <= lo {
			hi = lo + 1
		}
		sum, n := 0.0, 0
		for _, v := range data[lo:hi] {
			if v < 0 {
				continue
			}
			sum += v
			n++
		}
		if n == 0 {
			out[i] = -1
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}
