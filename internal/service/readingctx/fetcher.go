package readingctx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/stats"
)

const (
	ScheduledLookbackDays = 90

	FallbackLookbackDays = 30
	FallbackWeight       = 0.5

	scheduledWeight = 1.0
)

// Fetcher assembles the weighted reading set a user's run is computed from.
// Lookback windows are measured back from an anchor instant supplied by the caller.
type Fetcher struct {
	readingRepo domain.ReadingRepository
	converter   *civiltime.Converter
}

func NewFetcher(readingRepo domain.ReadingRepository, converter *civiltime.Converter) *Fetcher {
	return &Fetcher{
		readingRepo: readingRepo,
		converter:   converter,
	}
}

func (f *Fetcher) Fetch(
	ctx context.Context,
	userID string,
	strategy domain.LookbackStrategy,
	anchor time.Time,
) ([]domain.ReadingWithWeight, error) {
	result := make([]domain.ReadingWithWeight, 0)

	if strategy.UseScheduledWeeks {
		readings, err := f.readingRepo.FetchReadings(ctx, domain.ReadingQuery{
			UserID:  userID,
			Since:   anchor.AddDate(0, 0, -ScheduledLookbackDays),
			Until:   anchor,
			Context: domain.ContextScheduledPrompt,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch scheduled-week readings: %w", err)
		}
		result = f.appendWeighted(result, readings, domain.QualityScheduledWeek, scheduledWeight)
	}

	if strategy.UseHistoricalWeeks && strategy.HistoricalLookbackDays > 0 {
		readings, err := f.readingRepo.FetchReadings(ctx, domain.ReadingQuery{
			UserID:  userID,
			Since:   anchor.AddDate(0, 0, -strategy.HistoricalLookbackDays),
			Until:   anchor,
			Context: domain.ContextOrganic,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to fetch historical readings: %w", err)
		}
		result = f.appendWeighted(result, readings, domain.QualityHistorical, strategy.HistoricalWeight)
	}

	slog.DebugContext(ctx, "reading context assembled",
		slog.String("user_id", userID),
		slog.String("mode", strategy.Mode.String()),
		slog.Int("reading_count", len(result)),
	)

	return result, nil
}

// ApplyAdaptiveFallback tops up a mature user's sparse window with recent organic
// readings at reduced weight. Only readings of the window's measurement type that
// fall inside the window and are not already present are added. A fetch failure
// leaves readings unchanged.
func (f *Fetcher) ApplyAdaptiveFallback(
	ctx context.Context,
	window domain.MealWindow,
	readings []domain.ReadingWithWeight,
	strategy domain.LookbackStrategy,
	anchor time.Time,
) []domain.ReadingWithWeight {
	if !strategy.IsMature() || len(readings) >= stats.MinSampleSize {
		return readings
	}

	fetched, err := f.readingRepo.FetchReadings(ctx, domain.ReadingQuery{
		UserID:          window.UserID,
		MeasurementType: window.MeasurementType,
		Since:           anchor.AddDate(0, 0, -FallbackLookbackDays),
		Until:           anchor,
		Context:         domain.ContextOrganic,
	})
	if err != nil {
		slog.WarnContext(ctx, "adaptive fallback fetch failed, keeping window readings",
			slog.String("user_id", window.UserID),
			slog.String("meal_window_id", window.ID),
			slog.String("error", err.Error()),
		)
		return readings
	}

	seen := make(map[string]bool, len(readings))
	for _, r := range readings {
		seen[r.ID] = true
	}

	extended := make([]domain.ReadingWithWeight, len(readings), len(readings)+len(fetched))
	copy(extended, readings)
	added := 0
	for _, w := range f.appendWeighted(nil, fetched, domain.QualityHistorical, FallbackWeight) {
		if seen[w.ID] || !window.Matches(w.DayOfWeek, w.MeasurementType) || !window.Contains(w.MinuteOfDay) {
			continue
		}
		seen[w.ID] = true
		extended = append(extended, w)
		added++
	}

	slog.DebugContext(ctx, "adaptive fallback applied",
		slog.String("user_id", window.UserID),
		slog.String("meal_window_id", window.ID),
		slog.Int("before_count", len(readings)),
		slog.Int("added_count", added),
	)

	return extended
}

func (f *Fetcher) appendWeighted(
	dst []domain.ReadingWithWeight,
	readings []domain.Reading,
	quality domain.DataQuality,
	weight float64,
) []domain.ReadingWithWeight {
	for _, r := range readings {
		parts := f.converter.ToLocalParts(r.MeasuredAt)
		r.DayOfWeek = parts.DayOfWeek
		r.MinuteOfDay = parts.MinuteOfDay
		dst = append(dst, domain.ReadingWithWeight{
			Reading:     r,
			DataQuality: quality,
			Weight:      weight,
		})
	}
	return dst
}
