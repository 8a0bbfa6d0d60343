package legacy

import (
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/stats"
)

// FilterReadingsByMealWindows keeps readings that fall inside a window of the same
// user, day and measurement type. Users without any windows pass through untouched.
func FilterReadingsByMealWindows(readings []domain.Reading, windows []domain.MealWindow) []domain.Reading {
	if len(windows) == 0 {
		return readings
	}

	byUser := groupWindowsByUser(windows)

	filtered := make([]domain.Reading, 0, len(readings))
	for _, r := range readings {
		userWindows, ok := byUser[r.UserID]
		if !ok {
			filtered = append(filtered, r)
			continue
		}
		for i := range userWindows {
			w := &userWindows[i]
			if w.Matches(r.DayOfWeek, r.MeasurementType) && w.Contains(r.MinuteOfDay) {
				filtered = append(filtered, r)
				break
			}
		}
	}
	return filtered
}

// DetectStatisticalOutliers returns values within threshold standard deviations
// of the median. Fewer than three values are returned unchanged.
func DetectStatisticalOutliers(values []float64, threshold float64) []float64 {
	mask := stats.OutlierMask(values, threshold)

	kept := make([]float64, 0, len(values))
	for i, v := range values {
		if !mask[i] {
			kept = append(kept, v)
		}
	}
	return kept
}

type groupKey struct {
	userID          string
	dayOfWeek       int
	measurementType domain.MeasurementType
}

// FilterOutliers rejects outlying minutes of day per user, day and measurement
// type. Input order is preserved.
func FilterOutliers(readings []domain.Reading, threshold float64) []domain.Reading {
	groups := make(map[groupKey][]int)
	for i, r := range readings {
		key := groupKey{userID: r.UserID, dayOfWeek: r.DayOfWeek, measurementType: r.MeasurementType}
		groups[key] = append(groups[key], i)
	}

	drop := make([]bool, len(readings))
	for _, idx := range groups {
		values := make([]float64, len(idx))
		for i, ri := range idx {
			values[i] = float64(readings[ri].MinuteOfDay)
		}
		for i, outlier := range stats.OutlierMask(values, threshold) {
			if outlier {
				drop[idx[i]] = true
			}
		}
	}

	filtered := make([]domain.Reading, 0, len(readings))
	for i, r := range readings {
		if !drop[i] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

func groupWindowsByUser(windows []domain.MealWindow) map[string][]domain.MealWindow {
	byUser := make(map[string][]domain.MealWindow)
	for _, w := range windows {
		byUser[w.UserID] = append(byUser[w.UserID], w)
	}
	return byUser
}

func matchingWindows(windows []domain.MealWindow, userID string, dayOfWeek int, mt domain.MeasurementType) []domain.MealWindow {
	var matched []domain.MealWindow
	for _, w := range windows {
		if w.UserID == userID && w.Matches(dayOfWeek, mt) {
			matched = append(matched, w)
		}
	}
	return matched
}
