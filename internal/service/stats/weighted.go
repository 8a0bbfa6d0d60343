package stats

import (
	"sort"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const (
	// MinSampleSize is the smallest reading set treated as statistically meaningful.
	MinSampleSize = 3

	DefaultOutlierThreshold = 2.0

	FallbackConfidence = 0.5
	baseConfidence     = 0.7

	scheduledVolumeStep = 0.04
	scheduledVolumeCap  = 0.2

	historicalVolumeStep = 0.02
	historicalVolumeCap  = 0.1

	scheduledRatioWeight = 0.1
)

// WeightedMedian returns the minute of day of the first reading, in time order,
// at which the cumulative weight reaches half of the total weight.
func WeightedMedian(readings []domain.ReadingWithWeight) int {
	if len(readings) == 0 {
		return 0
	}

	sorted := make([]domain.ReadingWithWeight, len(readings))
	copy(sorted, readings)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].MinuteOfDay < sorted[j].MinuteOfDay
	})

	var total float64
	for _, r := range sorted {
		total += r.Weight
	}

	half := total / 2
	var cumulative float64
	for _, r := range sorted {
		cumulative += r.Weight
		if cumulative >= half {
			return r.MinuteOfDay
		}
	}

	return sorted[len(sorted)-1].MinuteOfDay
}

// Confidence scores how trustworthy a time derived from readings is. It grows with
// the volume of scheduled-week readings, with the strategy-weighted volume of
// historical readings, and with the share of scheduled-week readings.
func Confidence(readings []domain.ReadingWithWeight, strategy domain.LookbackStrategy) float64 {
	if len(readings) < MinSampleSize {
		return FallbackConfidence
	}

	scheduled, historical := domain.CountByQuality(readings)

	score := baseConfidence
	score += min(scheduledVolumeCap, float64(scheduled)*scheduledVolumeStep)
	score += min(historicalVolumeCap, float64(historical)*historicalVolumeStep*strategy.HistoricalWeight)
	score += float64(scheduled) / float64(len(readings)) * scheduledRatioWeight

	return min(1.0, score)
}

// FilterOutliersByWeight drops readings whose minute of day lies more than
// threshold standard deviations from the median. The statistics are unweighted.
func FilterOutliersByWeight(readings []domain.ReadingWithWeight, threshold float64) []domain.ReadingWithWeight {
	if len(readings) < MinSampleSize {
		return readings
	}

	values := make([]float64, len(readings))
	for i, r := range readings {
		values[i] = float64(r.MinuteOfDay)
	}

	mask := OutlierMask(values, threshold)
	filtered := make([]domain.ReadingWithWeight, 0, len(readings))
	for i, r := range readings {
		if !mask[i] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
