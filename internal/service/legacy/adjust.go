package legacy

import (
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const (
	// ProximityMinutes is how far outside a window a schedule may sit and still be snapped to it.
	ProximityMinutes = 30

	// FillLeadMinutes places synthesized reminders this long before the window closes.
	FillLeadMinutes = 20
)

// AdjustSchedulesToMealWindows keeps schedules inside a matching window, snaps
// those within ProximityMinutes of a window boundary onto it, and drops the rest.
func AdjustSchedulesToMealWindows(schedules []domain.Schedule, windows []domain.MealWindow) []domain.Schedule {
	adjusted := make([]domain.Schedule, 0, len(schedules))

	for _, s := range schedules {
		matched := matchingWindows(windows, s.UserID, s.DayOfWeek, s.MeasurementType)
		if len(matched) == 0 {
			continue
		}

		if containedIn(matched, s.MinuteOfDay) {
			adjusted = append(adjusted, s)
			continue
		}

		bestMinute, bestDistance := -1, ProximityMinutes+1
		for _, w := range matched {
			for _, boundary := range []int{w.StartMinute, w.EndMinute} {
				distance := abs(s.MinuteOfDay - boundary)
				if distance < bestDistance {
					bestMinute, bestDistance = boundary, distance
				}
			}
		}

		if bestMinute < 0 {
			continue
		}

		s.MinuteOfDay = bestMinute
		adjusted = append(adjusted, s)
	}

	return adjusted
}

// FillMissingMealWindowReminders adds a default reminder to every window whose
// measurement type the user has readings for but which no schedule covers.
func FillMissingMealWindowReminders(
	schedules []domain.Schedule,
	windows []domain.MealWindow,
	readings []domain.Reading,
) []domain.Schedule {
	type usage struct {
		userID          string
		measurementType domain.MeasurementType
	}

	used := make(map[usage]bool)
	for _, r := range readings {
		used[usage{userID: r.UserID, measurementType: r.MeasurementType}] = true
	}

	result := make([]domain.Schedule, len(schedules), len(schedules)+len(windows))
	copy(result, schedules)

	for _, w := range windows {
		if !used[usage{userID: w.UserID, measurementType: w.MeasurementType}] {
			continue
		}
		if covered(schedules, w) {
			continue
		}

		result = append(result, domain.Schedule{
			UserID:          w.UserID,
			MeasurementType: w.MeasurementType,
			DayOfWeek:       w.DayOfWeek,
			MinuteOfDay:     max(w.StartMinute, w.EndMinute-FillLeadMinutes),
			Frequency:       0,
			Source:          domain.SourceDefaultWindow,
		})
	}

	return result
}

// ValidateSchedulesAgainstWindows drops schedules lying outside every matching window.
//
// Deprecated: AdjustSchedulesToMealWindows already guarantees window membership.
func ValidateSchedulesAgainstWindows(schedules []domain.Schedule, windows []domain.MealWindow) []domain.Schedule {
	valid := make([]domain.Schedule, 0, len(schedules))
	for _, s := range schedules {
		if containedIn(matchingWindows(windows, s.UserID, s.DayOfWeek, s.MeasurementType), s.MinuteOfDay) {
			valid = append(valid, s)
		}
	}
	return valid
}

func covered(schedules []domain.Schedule, w domain.MealWindow) bool {
	for _, s := range schedules {
		if s.UserID == w.UserID && w.Matches(s.DayOfWeek, s.MeasurementType) && w.Contains(s.MinuteOfDay) {
			return true
		}
	}
	return false
}

func containedIn(windows []domain.MealWindow, minute int) bool {
	for i := range windows {
		if windows[i].Contains(minute) {
			return true
		}
	}
	return false
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
