package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/schedule"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

type RunResponse struct {
	RunID            string     `json:"run_id"`
	Week             string     `json:"week"`
	Status           string     `json:"status"`
	AlreadyCompleted bool       `json:"already_completed"`
	StartedAt        time.Time  `json:"started_at"`
	CompletedAt      *time.Time `json:"completed_at,omitempty"`
	UsersProcessed   int        `json:"users_processed"`
	UsersSkipped     int        `json:"users_skipped"`
	UsersFailed      int        `json:"users_failed"`
	UsersPending     int        `json:"users_pending"`
	SchedulesCreated int        `json:"schedules_created"`
}

type ScheduleItem struct {
	ID                    string    `json:"id,omitempty"`
	MealWindowID          string    `json:"meal_window_id"`
	MeasurementType       string    `json:"measurement_type"`
	DayOfWeek             int       `json:"day_of_week"`
	Time                  string    `json:"time"`
	ScheduledAt           time.Time `json:"scheduled_at"`
	Confidence            float64   `json:"confidence"`
	Source                string    `json:"source"`
	ReadingsCount         int       `json:"readings_count"`
	ScheduledWeekReadings int       `json:"scheduled_week_readings"`
	HistoricalReadings    int       `json:"historical_readings"`
}

type UserScheduleResponse struct {
	UserID       string         `json:"user_id"`
	Week         string         `json:"week"`
	Mode         string         `json:"mode,omitempty"`
	DryRun       bool           `json:"dry_run"`
	Candidates   int            `json:"candidates,omitempty"`
	DroppedCount int            `json:"dropped,omitempty"`
	Schedules    []ScheduleItem `json:"schedules"`
}

func respondError(c *gin.Context, status int, errType, message string) {
	c.JSON(status, &ErrorResponse{
		Error:   errType,
		Message: message,
	})
}

func toRunResponse(result *schedule.RunResult) *RunResponse {
	run := result.Run
	return &RunResponse{
		RunID:            run.ID,
		Week:             run.WeekKey,
		Status:           run.Status.String(),
		AlreadyCompleted: result.AlreadyCompleted,
		StartedAt:        run.StartedAt,
		CompletedAt:      run.CompletedAt,
		UsersProcessed:   run.UsersProcessed,
		UsersSkipped:     run.UsersSkipped,
		UsersFailed:      run.UsersFailed,
		UsersPending:     result.Pending,
		SchedulesCreated: run.SchedulesCreated,
	}
}

func toScheduleItems(schedules []domain.PersistedSchedule) []ScheduleItem {
	items := make([]ScheduleItem, 0, len(schedules))
	for _, s := range schedules {
		items = append(items, ScheduleItem{
			ID:                    s.ID,
			MealWindowID:          s.MealWindowID,
			MeasurementType:       s.MeasurementType.String(),
			DayOfWeek:             s.DayOfWeek,
			Time:                  domain.FormatMinuteOfDay(s.MinuteOfDay),
			ScheduledAt:           s.ScheduledAt,
			Confidence:            s.Confidence,
			Source:                s.Source.String(),
			ReadingsCount:         s.ReadingsCount,
			ScheduledWeekReadings: s.QualityBreakdown.ScheduledWeek,
			HistoricalReadings:    s.QualityBreakdown.Historical,
		})
	}
	return items
}
