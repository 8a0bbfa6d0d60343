package window

import (
	"context"
	"log/slog"
	"math"
	"time"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/stats"
)

const (
	// MedianOffsetMinutes places reminders just after the typical measurement time.
	MedianOffsetMinutes = 5

	// PostMealLeadMinutes is how far before a post-meal window closes the default lands.
	PostMealLeadMinutes = 30
)

// FallbackApplier widens a sparse window reading set. readingctx.Fetcher implements it.
type FallbackApplier interface {
	ApplyAdaptiveFallback(
		ctx context.Context,
		window domain.MealWindow,
		readings []domain.ReadingWithWeight,
		strategy domain.LookbackStrategy,
		anchor time.Time,
	) []domain.ReadingWithWeight
}

type Generator struct {
	converter        *civiltime.Converter
	fallback         FallbackApplier
	outlierThreshold float64
}

// NewGenerator creates a generator. A nil fallback disables the adaptive fallback.
func NewGenerator(converter *civiltime.Converter, fallback FallbackApplier) *Generator {
	return &Generator{
		converter:        converter,
		fallback:         fallback,
		outlierThreshold: stats.DefaultOutlierThreshold,
	}
}

// Request carries everything needed to produce one window's candidate.
type Request struct {
	Window    domain.MealWindow
	Readings  []domain.ReadingWithWeight
	Strategy  domain.LookbackStrategy
	WeekStart time.Time
	Anchor    time.Time
}

// Generate produces exactly one candidate for the request's window.
// History-derived times are not clamped into the window; defaults always are.
func (g *Generator) Generate(ctx context.Context, req Request) domain.ScheduleCandidate {
	w := req.Window

	windowReadings := FilterForWindow(req.Readings, w)
	windowReadings = stats.FilterOutliersByWeight(windowReadings, g.outlierThreshold)
	if g.fallback != nil {
		windowReadings = g.fallback.ApplyAdaptiveFallback(ctx, w, windowReadings, req.Strategy, req.Anchor)
	}

	candidate := domain.ScheduleCandidate{
		UserID:          w.UserID,
		MealWindowID:    w.ID,
		MeasurementType: w.MeasurementType,
		DayOfWeek:       w.DayOfWeek,
		ReadingsCount:   len(windowReadings),
	}

	if len(windowReadings) >= stats.MinSampleSize {
		median := stats.WeightedMedian(windowReadings)
		candidate.MinuteOfDay = int(math.Round(float64(median))) + MedianOffsetMinutes
		candidate.Confidence = stats.Confidence(windowReadings, req.Strategy)
		candidate.Source = domain.SourceHistory
	} else {
		candidate.MinuteOfDay = DefaultMinute(w)
		candidate.Confidence = stats.FallbackConfidence
		candidate.Source = domain.SourceDefaultWindow
	}

	candidate.ScheduledAt = g.converter.ToAbsolute(req.WeekStart, w.DayOfWeek, candidate.MinuteOfDay)

	scheduled, historical := domain.CountByQuality(windowReadings)
	candidate.QualityBreakdown = &domain.QualityBreakdown{
		ScheduledWeek: scheduled,
		Historical:    historical,
	}

	slog.DebugContext(ctx, "window candidate generated",
		slog.String("user_id", w.UserID),
		slog.String("meal_window_id", w.ID),
		slog.Int("day_of_week", w.DayOfWeek),
		slog.String("measurement_type", w.MeasurementType.String()),
		slog.String("time", domain.FormatMinuteOfDay(candidate.MinuteOfDay)),
		slog.String("source", candidate.Source.String()),
		slog.Float64("confidence", candidate.Confidence),
		slog.Int("readings_count", candidate.ReadingsCount),
	)

	return candidate
}

// FilterForWindow keeps readings of the window's type and day whose minute lies in the window.
func FilterForWindow(readings []domain.ReadingWithWeight, w domain.MealWindow) []domain.ReadingWithWeight {
	filtered := make([]domain.ReadingWithWeight, 0)
	for _, r := range readings {
		if w.Matches(r.DayOfWeek, r.MeasurementType) && civiltime.InWindow(r.MinuteOfDay, w.StartMinute, w.EndMinute) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// DefaultMinute is the window's fallback time: the midpoint for fasting, shortly
// before the end for post-meal windows.
func DefaultMinute(w domain.MealWindow) int {
	var target int
	if w.MeasurementType.IsFasting() {
		target = int(math.Round(float64(w.StartMinute+w.EndMinute) / 2))
	} else {
		target = w.EndMinute - PostMealLeadMinutes
	}
	return min(max(target, w.StartMinute), w.EndMinute)
}
