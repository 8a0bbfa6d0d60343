package legacy

import (
	"context"
	"log/slog"
	"math"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/stats"
)

// Pipeline chains the unweighted primitives into a complete schedule derivation.
type Pipeline struct {
	minSpacing       int
	outlierThreshold float64
}

func NewPipeline(minSpacingMinutes int) *Pipeline {
	if minSpacingMinutes <= 0 {
		minSpacingMinutes = DefaultMinSpacingMinutes
	}
	return &Pipeline{
		minSpacing:       minSpacingMinutes,
		outlierThreshold: stats.DefaultOutlierThreshold,
	}
}

func (p *Pipeline) Run(ctx context.Context, readings []domain.Reading, windows []domain.MealWindow) []domain.Schedule {
	inWindows := FilterReadingsByMealWindows(readings, windows)
	clean := FilterOutliers(inWindows, p.outlierThreshold)

	derived := DeriveSchedules(clean)
	adjusted := AdjustSchedulesToMealWindows(derived, windows)
	filled := FillMissingMealWindowReminders(adjusted, windows, clean)
	final := EnforceMinimumSpacing(filled, p.minSpacing)

	slog.DebugContext(ctx, "legacy pipeline finished",
		slog.Int("readings", len(readings)),
		slog.Int("readings_in_windows", len(inWindows)),
		slog.Int("readings_clean", len(clean)),
		slog.Int("derived", len(derived)),
		slog.Int("adjusted", len(adjusted)),
		slog.Int("filled", len(filled)),
		slog.Int("final", len(final)),
	)

	return final
}

// DeriveSchedules produces one schedule per user, day and measurement type at
// the rounded median minute of the group's readings. Frequency is the group size.
func DeriveSchedules(readings []domain.Reading) []domain.Schedule {
	var order []groupKey
	groups := make(map[groupKey][]float64)
	for _, r := range readings {
		key := groupKey{userID: r.UserID, dayOfWeek: r.DayOfWeek, measurementType: r.MeasurementType}
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], float64(r.MinuteOfDay))
	}

	schedules := make([]domain.Schedule, 0, len(order))
	for _, key := range order {
		values := groups[key]
		schedules = append(schedules, domain.Schedule{
			UserID:          key.userID,
			MeasurementType: key.measurementType,
			DayOfWeek:       key.dayOfWeek,
			MinuteOfDay:     int(math.Round(stats.Median(values))),
			Frequency:       len(values),
			Source:          domain.SourceHistory,
		})
	}
	return schedules
}
