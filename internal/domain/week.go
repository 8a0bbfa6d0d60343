package domain

import (
	"fmt"
	"time"
)

const weekKeyLayout = "2006-01-02"

// WeekKey identifies a scheduling week by the calendar date of its local Monday.
func WeekKey(monday time.Time) string {
	return monday.Format(weekKeyLayout)
}

// ParseWeekKey parses a week key as a date in loc.
func ParseWeekKey(key string, loc *time.Location) (time.Time, error) {
	t, err := time.ParseInLocation(weekKeyLayout, key, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %s", ErrInvalidWeekKey, key)
	}
	if t.Weekday() != time.Monday {
		return time.Time{}, fmt.Errorf("%w: %s is not a Monday", ErrInvalidWeekKey, key)
	}
	return t, nil
}
