package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

type RunLedger struct {
	db *gorm.DB
}

func NewRunLedger(db *gorm.DB) *RunLedger {
	return &RunLedger{
		db: db,
	}
}

func (l *RunLedger) GetRun(ctx context.Context, weekKey string) (*domain.Run, error) {
	var row runModel
	err := l.db.WithContext(ctx).Where("week_start = ?", weekKey).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRunNotFound
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return row.toDomain(), nil
}

// StartRun records a started run, replacing an earlier unfinished or failed run of the same week.
func (l *RunLedger) StartRun(ctx context.Context, run *domain.Run) error {
	row := runFromDomain(run)
	err := l.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "week_start"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"id", "status", "started_at", "completed_at",
			"users_processed", "users_skipped", "users_failed", "schedules_created",
		}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("failed to start run: %w", err)
	}
	return nil
}

func (l *RunLedger) FinishRun(ctx context.Context, run *domain.Run) error {
	result := l.db.WithContext(ctx).
		Model(&runModel{}).
		Where("id = ?", run.ID).
		Updates(map[string]any{
			"status":            run.Status.String(),
			"completed_at":      run.CompletedAt,
			"users_processed":   run.UsersProcessed,
			"users_skipped":     run.UsersSkipped,
			"users_failed":      run.UsersFailed,
			"schedules_created": run.SchedulesCreated,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to finish run: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrRunNotFound
	}
	return nil
}
