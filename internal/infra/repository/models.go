package repository

import (
	"time"

	"gorm.io/datatypes"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

type readingModel struct {
	ID              string    `gorm:"type:varchar(64);primaryKey"`
	UserID          string    `gorm:"type:varchar(64);not null;index:idx_glucose_readings_user_time,priority:1"`
	MeasurementType string    `gorm:"type:varchar(32);not null"`
	MeasuredAt      time.Time `gorm:"not null;index:idx_glucose_readings_user_time,priority:2"`
}

func (readingModel) TableName() string { return "glucose_readings" }

type mealWindowModel struct {
	ID              string `gorm:"type:varchar(64);primaryKey"`
	UserID          string `gorm:"type:varchar(64);not null;uniqueIndex:idx_meal_windows_slot,priority:1"`
	DayOfWeek       int    `gorm:"not null;uniqueIndex:idx_meal_windows_slot,priority:2"`
	MeasurementType string `gorm:"type:varchar(32);not null;uniqueIndex:idx_meal_windows_slot,priority:3"`
	MealNumber      *int   `gorm:"uniqueIndex:idx_meal_windows_slot,priority:4"`
	TimeStart       string `gorm:"type:varchar(8);not null"`
	TimeEnd         string `gorm:"type:varchar(8);not null"`
}

func (mealWindowModel) TableName() string { return "meal_windows" }

type scheduleModel struct {
	ID               string                                      `gorm:"type:varchar(36);primaryKey"`
	UserID           string                                      `gorm:"type:varchar(64);not null;index:idx_measurement_schedules_user_week,priority:1"`
	MealWindowID     string                                      `gorm:"type:varchar(64)"`
	MeasurementType  string                                      `gorm:"type:varchar(32);not null"`
	DayOfWeek        int                                         `gorm:"not null"`
	MinuteOfDay      int                                         `gorm:"not null"`
	ScheduledAt      time.Time                                   `gorm:"not null;index"`
	WeekStart        string                                      `gorm:"type:varchar(10);not null;index:idx_measurement_schedules_user_week,priority:2"`
	Confidence       float64                                     `gorm:"not null"`
	Source           string                                      `gorm:"type:varchar(32);not null"`
	ReadingsCount    int                                         `gorm:"not null;default:0"`
	QualityBreakdown datatypes.JSONType[domain.QualityBreakdown] `gorm:"column:quality_breakdown"`
	CreatedAt        time.Time                                   `gorm:"not null"`
}

func (scheduleModel) TableName() string { return "measurement_schedules" }

type runModel struct {
	ID               string     `gorm:"type:varchar(36);primaryKey"`
	WeekStart        string     `gorm:"type:varchar(10);not null;uniqueIndex"`
	Status           string     `gorm:"type:varchar(16);not null"`
	StartedAt        time.Time  `gorm:"not null"`
	CompletedAt      *time.Time `gorm:"column:completed_at"`
	UsersProcessed   int        `gorm:"not null;default:0"`
	UsersSkipped     int        `gorm:"not null;default:0"`
	UsersFailed      int        `gorm:"not null;default:0"`
	SchedulesCreated int        `gorm:"not null;default:0"`
}

func (runModel) TableName() string { return "schedule_runs" }

func (m *readingModel) toDomain() domain.Reading {
	return domain.Reading{
		ID:              m.ID,
		UserID:          m.UserID,
		MeasurementType: domain.MeasurementType(m.MeasurementType),
		MeasuredAt:      m.MeasuredAt.UTC(),
	}
}

func (m *scheduleModel) toDomain() domain.PersistedSchedule {
	return domain.PersistedSchedule{
		ID:               m.ID,
		UserID:           m.UserID,
		MealWindowID:     m.MealWindowID,
		MeasurementType:  domain.MeasurementType(m.MeasurementType),
		DayOfWeek:        m.DayOfWeek,
		MinuteOfDay:      m.MinuteOfDay,
		ScheduledAt:      m.ScheduledAt.UTC(),
		WeekKey:          m.WeekStart,
		Confidence:       m.Confidence,
		Source:           domain.ScheduleSource(m.Source),
		ReadingsCount:    m.ReadingsCount,
		QualityBreakdown: m.QualityBreakdown.Data(),
		CreatedAt:        m.CreatedAt.UTC(),
	}
}

func scheduleFromDomain(s domain.PersistedSchedule) scheduleModel {
	return scheduleModel{
		ID:               s.ID,
		UserID:           s.UserID,
		MealWindowID:     s.MealWindowID,
		MeasurementType:  s.MeasurementType.String(),
		DayOfWeek:        s.DayOfWeek,
		MinuteOfDay:      s.MinuteOfDay,
		ScheduledAt:      s.ScheduledAt.UTC(),
		WeekStart:        s.WeekKey,
		Confidence:       s.Confidence,
		Source:           s.Source.String(),
		ReadingsCount:    s.ReadingsCount,
		QualityBreakdown: datatypes.NewJSONType(s.QualityBreakdown),
		CreatedAt:        s.CreatedAt.UTC(),
	}
}

func (m *runModel) toDomain() *domain.Run {
	run := &domain.Run{
		ID:               m.ID,
		WeekKey:          m.WeekStart,
		Status:           domain.RunStatus(m.Status),
		StartedAt:        m.StartedAt.UTC(),
		UsersProcessed:   m.UsersProcessed,
		UsersSkipped:     m.UsersSkipped,
		UsersFailed:      m.UsersFailed,
		SchedulesCreated: m.SchedulesCreated,
	}
	if m.CompletedAt != nil {
		completed := m.CompletedAt.UTC()
		run.CompletedAt = &completed
	}
	return run
}

func runFromDomain(r *domain.Run) runModel {
	return runModel{
		ID:               r.ID,
		WeekStart:        r.WeekKey,
		Status:           r.Status.String(),
		StartedAt:        r.StartedAt,
		CompletedAt:      r.CompletedAt,
		UsersProcessed:   r.UsersProcessed,
		UsersSkipped:     r.UsersSkipped,
		UsersFailed:      r.UsersFailed,
		SchedulesCreated: r.SchedulesCreated,
	}
}
