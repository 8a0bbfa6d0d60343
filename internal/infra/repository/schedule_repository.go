package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const scheduleInsertBatchSize = 100

type ScheduleRepository struct {
	db *gorm.DB
}

func NewScheduleRepository(db *gorm.DB) *ScheduleRepository {
	return &ScheduleRepository{
		db: db,
	}
}

// ReplaceWeek deletes the user's schedules stored for the week and inserts
// schedules in the same transaction. Rows are matched by week key, not by
// scheduled_at, since a late Sunday reminder may fall after the week's end.
func (r *ScheduleRepository) ReplaceWeek(
	ctx context.Context,
	userID string,
	weekStart time.Time,
	schedules []domain.PersistedSchedule,
) error {
	weekKey := domain.WeekKey(weekStart)

	rows := make([]scheduleModel, 0, len(schedules))
	for _, s := range schedules {
		if s.UserID != userID {
			return fmt.Errorf("schedule %s belongs to user %s, not %s", s.ID, s.UserID, userID)
		}
		if s.WeekKey != weekKey {
			return fmt.Errorf("schedule %s belongs to week %s, not %s", s.ID, s.WeekKey, weekKey)
		}
		rows = append(rows, scheduleFromDomain(s))
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.
			Where("user_id = ? AND week_start = ?", userID, weekKey).
			Delete(&scheduleModel{}).Error
		if err != nil {
			return err
		}

		if len(rows) == 0 {
			return nil
		}
		return tx.CreateInBatches(&rows, scheduleInsertBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace week schedules: %w", err)
	}

	return nil
}

// CountCompletedWeeksBefore counts distinct weeks before weekKey that have at
// least one schedule for the user and a completed run.
func (r *ScheduleRepository) CountCompletedWeeksBefore(ctx context.Context, userID string, weekKey string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(DISTINCT s.week_start)
		FROM measurement_schedules s
		JOIN schedule_runs r ON r.week_start = s.week_start
		WHERE s.user_id = ? AND s.week_start < ? AND r.status = ?`,
		userID, weekKey, domain.RunStatusCompleted.String(),
	).Scan(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count completed weeks: %w", err)
	}
	return int(count), nil
}

// ListWeek returns the user's persisted schedules for a week in chronological order.
func (r *ScheduleRepository) ListWeek(ctx context.Context, userID string, weekKey string) ([]domain.PersistedSchedule, error) {
	var rows []scheduleModel
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND week_start = ?", userID, weekKey).
		Order("scheduled_at ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list week schedules: %w", err)
	}

	schedules := make([]domain.PersistedSchedule, 0, len(rows))
	for i := range rows {
		schedules = append(schedules, rows[i].toDomain())
	}
	return schedules, nil
}
