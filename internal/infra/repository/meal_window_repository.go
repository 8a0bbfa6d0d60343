package repository

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

type MealWindowRepository struct {
	db *gorm.DB
}

func NewMealWindowRepository(db *gorm.DB) *MealWindowRepository {
	return &MealWindowRepository{
		db: db,
	}
}

// FetchByUser returns the user's valid meal windows. Malformed rows are logged and skipped.
func (r *MealWindowRepository) FetchByUser(ctx context.Context, userID string) ([]domain.MealWindow, error) {
	var rows []mealWindowModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("day_of_week ASC, measurement_type ASC, time_start ASC, id ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query meal windows: %w", err)
	}

	windows := make([]domain.MealWindow, 0, len(rows))
	for i := range rows {
		w, err := rows[i].toDomain()
		if err == nil {
			err = w.Validate()
		}
		if err != nil {
			slog.WarnContext(ctx, "skipping invalid meal window",
				slog.String("user_id", userID),
				slog.String("meal_window_id", rows[i].ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		windows = append(windows, w)
	}

	return windows, nil
}

func (r *MealWindowRepository) ListUserIDs(ctx context.Context) ([]string, error) {
	var userIDs []string
	err := r.db.WithContext(ctx).
		Model(&mealWindowModel{}).
		Distinct("user_id").
		Order("user_id ASC").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users with meal windows: %w", err)
	}
	return userIDs, nil
}

// InsertMissing stores windows whose (user, day, type, meal number) slot is still
// free and returns how many were inserted.
func (r *MealWindowRepository) InsertMissing(ctx context.Context, windows []domain.MealWindow) (int, error) {
	inserted := 0

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, w := range windows {
			if err := w.Validate(); err != nil {
				return err
			}

			q := tx.Model(&mealWindowModel{}).
				Where("user_id = ? AND day_of_week = ? AND measurement_type = ?", w.UserID, w.DayOfWeek, w.MeasurementType.String())
			if w.MealNumber == nil {
				q = q.Where("meal_number IS NULL")
			} else {
				q = q.Where("meal_number = ?", *w.MealNumber)
			}

			var existing int64
			if err := q.Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}

			row := mealWindowFromDomain(w)
			if row.ID == "" {
				row.ID = uuid.NewString()
			}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidMealWindow) {
			return 0, err
		}
		return 0, fmt.Errorf("failed to insert meal windows: %w", err)
	}

	return inserted, nil
}

func (m *mealWindowModel) toDomain() (domain.MealWindow, error) {
	start, err := ParseTimeOfDay(m.TimeStart)
	if err != nil {
		return domain.MealWindow{}, fmt.Errorf("%w: time_start: %w", domain.ErrInvalidMealWindow, err)
	}
	end, err := ParseTimeOfDay(m.TimeEnd)
	if err != nil {
		return domain.MealWindow{}, fmt.Errorf("%w: time_end: %w", domain.ErrInvalidMealWindow, err)
	}

	return domain.MealWindow{
		ID:              m.ID,
		UserID:          m.UserID,
		DayOfWeek:       m.DayOfWeek,
		MeasurementType: domain.MeasurementType(m.MeasurementType),
		MealNumber:      m.MealNumber,
		StartMinute:     start,
		EndMinute:       end,
	}, nil
}

func mealWindowFromDomain(w domain.MealWindow) mealWindowModel {
	return mealWindowModel{
		ID:              w.ID,
		UserID:          w.UserID,
		DayOfWeek:       w.DayOfWeek,
		MeasurementType: w.MeasurementType.String(),
		MealNumber:      w.MealNumber,
		TimeStart:       domain.FormatMinuteOfDay(w.StartMinute),
		TimeEnd:         domain.FormatMinuteOfDay(w.EndMinute),
	}
}

// ParseTimeOfDay converts "HH:MM" or "HH:MM:SS" to a minute of day. Seconds are dropped.
func ParseTimeOfDay(value string) (int, error) {
	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
	}
	if len(parts) == 3 {
		second, err := strconv.Atoi(parts[2])
		if err != nil || second < 0 || second > 59 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidTimeOfDay, value)
		}
	}

	return hour*60 + minute, nil
}
