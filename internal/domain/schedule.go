package domain

import "time"

// Schedule is a weekly reminder record as handled by the legacy filtering pipeline:
// a recurring time of day with the number of readings that supported it.
type Schedule struct {
	UserID          string
	MeasurementType MeasurementType
	DayOfWeek       int
	MinuteOfDay     int
	Frequency       int
	Source          ScheduleSource
}

// WeekMinute positions the schedule within a Sunday-based week.
func (s Schedule) WeekMinute() int {
	return s.DayOfWeek*MinutesPerDay + s.MinuteOfDay
}

// PersistedSchedule is a final schedule row written for a target week.
type PersistedSchedule struct {
	ID               string
	UserID           string
	MealWindowID     string
	MeasurementType  MeasurementType
	DayOfWeek        int
	MinuteOfDay      int
	ScheduledAt      time.Time
	WeekKey          string
	Confidence       float64
	Source           ScheduleSource
	ReadingsCount    int
	QualityBreakdown QualityBreakdown
	CreatedAt        time.Time
}
