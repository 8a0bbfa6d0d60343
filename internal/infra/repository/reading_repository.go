package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

// PromptProximity is how close to a persisted schedule a reading must be taken
// to count as a response to that prompt.
const PromptProximity = 30 * time.Minute

type readingRepository struct {
	db *gorm.DB
}

func NewReadingRepository(db *gorm.DB) domain.ReadingRepository {
	return &readingRepository{
		db: db,
	}
}

func (r *readingRepository) FetchReadings(ctx context.Context, query domain.ReadingQuery) ([]domain.Reading, error) {
	q := r.db.WithContext(ctx).Where("user_id = ?", query.UserID)
	if query.MeasurementType != "" {
		q = q.Where("measurement_type = ?", query.MeasurementType.String())
	}
	if !query.Since.IsZero() {
		q = q.Where("measured_at >= ?", query.Since.UTC())
	}
	if !query.Until.IsZero() {
		q = q.Where("measured_at < ?", query.Until.UTC())
	}

	var rows []readingModel
	if err := q.Order("measured_at ASC, id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query readings: %w", err)
	}

	readings := make([]domain.Reading, 0, len(rows))
	for i := range rows {
		reading := rows[i].toDomain()
		if !reading.MeasurementType.Valid() {
			return nil, fmt.Errorf("%w: reading %s has measurement type %q", ErrInvalidReadingData, reading.ID, reading.MeasurementType)
		}
		readings = append(readings, reading)
	}

	if query.Context == domain.ContextAny || len(readings) == 0 {
		return readings, nil
	}

	prompts, err := r.promptTimes(ctx, query)
	if err != nil {
		return nil, err
	}

	wantPrompted := query.Context == domain.ContextScheduledPrompt
	filtered := make([]domain.Reading, 0, len(readings))
	for _, reading := range readings {
		if nearPrompt(prompts[reading.MeasurementType], reading.MeasuredAt) == wantPrompted {
			filtered = append(filtered, reading)
		}
	}

	return filtered, nil
}

// promptTimes loads the user's persisted schedule times that could lie within
// PromptProximity of a reading in the query range, sorted per measurement type.
func (r *readingRepository) promptTimes(ctx context.Context, query domain.ReadingQuery) (map[domain.MeasurementType][]time.Time, error) {
	q := r.db.WithContext(ctx).
		Model(&scheduleModel{}).
		Select("measurement_type", "scheduled_at").
		Where("user_id = ?", query.UserID)
	if query.MeasurementType != "" {
		q = q.Where("measurement_type = ?", query.MeasurementType.String())
	}
	if !query.Since.IsZero() {
		q = q.Where("scheduled_at >= ?", query.Since.Add(-PromptProximity).UTC())
	}
	if !query.Until.IsZero() {
		q = q.Where("scheduled_at <= ?", query.Until.Add(PromptProximity).UTC())
	}

	var rows []scheduleModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to query schedule times: %w", err)
	}

	prompts := make(map[domain.MeasurementType][]time.Time)
	for _, row := range rows {
		mt := domain.MeasurementType(row.MeasurementType)
		prompts[mt] = append(prompts[mt], row.ScheduledAt.UTC())
	}
	for mt := range prompts {
		times := prompts[mt]
		sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })
	}

	return prompts, nil
}

func nearPrompt(sorted []time.Time, measuredAt time.Time) bool {
	from := measuredAt.Add(-PromptProximity)
	i := sort.Search(len(sorted), func(i int) bool {
		return !sorted[i].Before(from)
	})
	return i < len(sorted) && !sorted[i].After(measuredAt.Add(PromptProximity))
}
