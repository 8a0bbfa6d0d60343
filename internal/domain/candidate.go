package domain

import "time"

// ScheduleSource records how a candidate time was derived.
type ScheduleSource string

const (
	SourceHistory       ScheduleSource = "history"
	SourceDefaultWindow ScheduleSource = "default_window"
)

func (s ScheduleSource) String() string {
	return string(s)
}

type QualityBreakdown struct {
	ScheduledWeek int `json:"scheduled_week"`
	Historical    int `json:"historical"`
}

// ScheduleCandidate is one proposed reminder for one meal window.
type ScheduleCandidate struct {
	UserID           string
	MealWindowID     string
	MeasurementType  MeasurementType
	DayOfWeek        int
	MinuteOfDay      int
	ScheduledAt      time.Time
	Confidence       float64
	Source           ScheduleSource
	ReadingsCount    int
	QualityBreakdown *QualityBreakdown
}
