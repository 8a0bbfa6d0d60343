package metrics

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	schedulerMeterName = "measurement.scheduler"
)

type SchedulerMetrics struct {
	usersProcessed    metric.Int64Counter
	candidates        metric.Int64Counter
	candidatesDropped metric.Int64Counter
	confidence        metric.Float64Histogram
	userDuration      metric.Float64Histogram
	runDuration       metric.Float64Histogram
	runs              metric.Int64Counter
}

func NewSchedulerMetrics() (*SchedulerMetrics, error) {
	meter := otel.Meter(schedulerMeterName)

	usersProcessed, err := meter.Int64Counter(
		"scheduler_users_total",
		metric.WithDescription("Users handled by scheduling runs, by outcome"),
		metric.WithUnit("{user}"),
	)
	if err != nil {
		return nil, err
	}

	candidates, err := meter.Int64Counter(
		"scheduler_candidates_total",
		metric.WithDescription("Schedule candidates generated, by source"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return nil, err
	}

	candidatesDropped, err := meter.Int64Counter(
		"scheduler_candidates_dropped_total",
		metric.WithDescription("Candidates dropped by minimum spacing"),
		metric.WithUnit("{candidate}"),
	)
	if err != nil {
		return nil, err
	}

	confidence, err := meter.Float64Histogram(
		"scheduler_candidate_confidence",
		metric.WithDescription("Confidence of generated candidates"),
		metric.WithExplicitBucketBoundaries(
			0.5, 0.6, 0.7, 0.75, 0.8, 0.85, 0.9, 0.95, 1.0,
		),
	)
	if err != nil {
		return nil, err
	}

	userDuration, err := meter.Float64Histogram(
		"scheduler_user_duration_seconds",
		metric.WithDescription("Time spent scheduling one user"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
		),
	)
	if err != nil {
		return nil, err
	}

	runDuration, err := meter.Float64Histogram(
		"scheduler_run_duration_seconds",
		metric.WithDescription("Weekly scheduling run duration"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(
			1, 5, 10, 30, 60, 120, 300, 600, 900,
		),
	)
	if err != nil {
		return nil, err
	}

	runs, err := meter.Int64Counter(
		"scheduler_runs_total",
		metric.WithDescription("Weekly scheduling runs, by final status"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerMetrics{
		usersProcessed:    usersProcessed,
		candidates:        candidates,
		candidatesDropped: candidatesDropped,
		confidence:        confidence,
		userDuration:      userDuration,
		runDuration:       runDuration,
		runs:              runs,
	}, nil
}

func (m *SchedulerMetrics) RecordUserProcessed(ctx context.Context, mode, outcome string) {
	m.usersProcessed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
}

func (m *SchedulerMetrics) RecordCandidate(ctx context.Context, source, measurementType string, confidence float64) {
	attrs := metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("measurement_type", measurementType),
	)
	m.candidates.Add(ctx, 1, attrs)
	m.confidence.Record(ctx, confidence, attrs)
}

func (m *SchedulerMetrics) RecordCandidatesDropped(ctx context.Context, count int) {
	if count == 0 {
		return
	}
	m.candidatesDropped.Add(ctx, int64(count))
}

func (m *SchedulerMetrics) RecordUserDuration(ctx context.Context, mode string, duration time.Duration) {
	m.userDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("mode", mode),
	))
}

func (m *SchedulerMetrics) RecordRun(ctx context.Context, status string, duration time.Duration) {
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.runs.Add(ctx, 1, attrs)
	m.runDuration.Record(ctx, duration.Seconds(), attrs)
}
