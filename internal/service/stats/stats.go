package stats

import (
	"math"
	"sort"
)

// Median returns the median of values, averaging the two middle elements for
// even-sized input. It returns 0 for empty input.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))

	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}

	return math.Sqrt(sumSquaredDiff / float64(len(values)))
}

// OutlierMask flags values farther than threshold standard deviations from the
// median. Fewer than MinSampleSize values are never flagged. Identical values use
// a deviation of 1 so nothing divides by zero.
func OutlierMask(values []float64, threshold float64) []bool {
	mask := make([]bool, len(values))
	if len(values) < MinSampleSize {
		return mask
	}

	median := Median(values)
	stdDev := StdDev(values)
	if stdDev == 0 {
		stdDev = 1
	}

	for i, v := range values {
		if math.Abs(v-median)/stdDev > threshold {
			mask[i] = true
		}
	}
	return mask
}
