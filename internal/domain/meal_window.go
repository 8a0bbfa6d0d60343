package domain

import (
	"fmt"
)

// MealWindow is a user-defined acceptable time-of-day range for one measurement type
// on one day of the week. Start and End are minutes of the local day, inclusive.
type MealWindow struct {
	ID              string
	UserID          string
	DayOfWeek       int
	MeasurementType MeasurementType
	MealNumber      *int
	StartMinute     int
	EndMinute       int
}

func (w *MealWindow) Validate() error {
	if w.DayOfWeek < 0 || w.DayOfWeek > 6 {
		return fmt.Errorf("%w: day_of_week %d out of range", ErrInvalidMealWindow, w.DayOfWeek)
	}
	if !w.MeasurementType.Valid() {
		return fmt.Errorf("%w: unknown measurement type %q", ErrInvalidMealWindow, w.MeasurementType)
	}
	if w.StartMinute < 0 || w.EndMinute > MinutesPerDay-1 {
		return fmt.Errorf("%w: bounds %d-%d outside the day", ErrInvalidMealWindow, w.StartMinute, w.EndMinute)
	}
	if w.StartMinute > w.EndMinute {
		return fmt.Errorf("%w: start %d after end %d", ErrInvalidMealWindow, w.StartMinute, w.EndMinute)
	}
	return nil
}

// Matches reports whether the window applies to the given day and measurement type.
func (w *MealWindow) Matches(dayOfWeek int, measurementType MeasurementType) bool {
	return w.DayOfWeek == dayOfWeek && w.MeasurementType == measurementType
}

func (w *MealWindow) Contains(minuteOfDay int) bool {
	return minuteOfDay >= w.StartMinute && minuteOfDay <= w.EndMinute
}

const MinutesPerDay = 24 * 60

// FormatMinuteOfDay renders a minute of day as HH:MM.
func FormatMinuteOfDay(minute int) string {
	return fmt.Sprintf("%02d:%02d", minute/60, minute%60)
}
