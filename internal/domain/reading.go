package domain

import "time"

// MeasurementType is the kind of glucose measurement a reading or window refers to.
type MeasurementType string

const (
	MeasurementFasting        MeasurementType = "fasting"
	MeasurementAfterMealOneHr MeasurementType = "1hr_after_meal"
)

func (m MeasurementType) String() string {
	return string(m)
}

func (m MeasurementType) IsFasting() bool {
	return m == MeasurementFasting
}

func (m MeasurementType) Valid() bool {
	return m == MeasurementFasting || m == MeasurementAfterMealOneHr
}

// Reading is one glucose measurement. DayOfWeek (0=Sunday) and MinuteOfDay are
// local civil time derived from MeasuredAt.
type Reading struct {
	ID              string
	UserID          string
	MeasurementType MeasurementType
	MeasuredAt      time.Time
	DayOfWeek       int
	MinuteOfDay     int
}

// DataQuality tags where a weighted reading came from.
type DataQuality string

const (
	QualityScheduledWeek DataQuality = "scheduled_week"
	QualityHistorical    DataQuality = "historical"
)

func (q DataQuality) String() string {
	return string(q)
}

// ReadingWithWeight is a reading prepared for one scheduling run.
type ReadingWithWeight struct {
	Reading
	DataQuality DataQuality
	Weight      float64
}

// ReadingContext selects readings by their relation to previously issued reminders.
type ReadingContext int

const (
	ContextAny ReadingContext = iota
	// ContextScheduledPrompt keeps readings taken near a persisted schedule of the same type.
	ContextScheduledPrompt
	// ContextOrganic keeps everything ContextScheduledPrompt would drop.
	ContextOrganic
)

type ReadingQuery struct {
	UserID          string
	MeasurementType MeasurementType // empty means all types
	Since           time.Time       // zero means unbounded
	Until           time.Time       // zero means unbounded
	Context         ReadingContext
}

// CountByQuality returns how many readings carry each data quality.
func CountByQuality(readings []ReadingWithWeight) (scheduled, historical int) {
	for _, r := range readings {
		switch r.DataQuality {
		case QualityScheduledWeek:
			scheduled++
		case QualityHistorical:
			historical++
		}
	}
	return scheduled, historical
}
