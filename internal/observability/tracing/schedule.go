package tracing

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const scheduleTracerName = "github.com/KasumiMercury/primind-measurement-scheduler/internal/service/schedule"

func ScheduleTracer() trace.Tracer {
	return otel.Tracer(scheduleTracerName)
}

func StartWeekRunSpan(ctx context.Context, weekKey string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.week_run",
		trace.WithAttributes(
			attribute.String("schedule.week", weekKey),
		),
	)
}

func StartUserSpan(ctx context.Context, userID, weekKey string, dryRun bool) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.user",
		trace.WithAttributes(
			attribute.String("user_id", userID),
			attribute.String("schedule.week", weekKey),
			attribute.Bool("schedule.dry_run", dryRun),
		),
	)
}

func StartStoreSpan(ctx context.Context, operation, table string) (context.Context, trace.Span) {
	return ScheduleTracer().Start(ctx, "schedule.store."+operation,
		trace.WithAttributes(
			attribute.String("db.operation", operation),
			attribute.String("db.collection.name", table),
		),
		trace.WithSpanKind(trace.SpanKindClient),
	)
}

func RecordUserResult(span trace.Span, mode string, candidates, final int, err error) {
	span.SetAttributes(
		attribute.String("schedule.mode", mode),
		attribute.Int("schedule.candidate_count", candidates),
		attribute.Int("schedule.final_count", final),
	)
	RecordError(span, err)
}

func RecordWeekRunResult(span trace.Span, status string, processed, skipped, failed, created int, err error) {
	span.SetAttributes(
		attribute.String("run.status", status),
		attribute.Int("run.users_processed", processed),
		attribute.Int("run.users_skipped", skipped),
		attribute.Int("run.users_failed", failed),
		attribute.Int("run.schedules_created", created),
	)
	RecordError(span, err)
}

func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}
