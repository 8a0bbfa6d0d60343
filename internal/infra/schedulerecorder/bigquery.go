//go:build gcloud

package schedulerecorder

import (
	"context"
	"log/slog"
	"time"

	"cloud.google.com/go/bigquery"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

type bigQueryRecord struct {
	RecordedAt         time.Time `bigquery:"recorded_at"`
	RunID              string    `bigquery:"run_id"`
	Week               string    `bigquery:"week"`
	UserID             string    `bigquery:"user_id"`
	Mode               string    `bigquery:"mode"`
	CandidateCount     int64     `bigquery:"candidate_count"`
	FinalCount         int64     `bigquery:"final_count"`
	DroppedCount       int64     `bigquery:"dropped_count"`
	HistoryCount       int64     `bigquery:"history_count"`
	DefaultCount       int64     `bigquery:"default_count"`
	MeanConfidence     float64   `bigquery:"mean_confidence"`
	ScheduledReadings  int64     `bigquery:"scheduled_readings"`
	HistoricalReadings int64     `bigquery:"historical_readings"`
}

type bigQueryRecorder struct {
	client   *bigquery.Client
	inserter *bigquery.Inserter
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.BigQueryProjectID == "" {
		slog.WarnContext(ctx, "BigQuery project ID not configured, schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	client, err := bigquery.NewClient(ctx, cfg.BigQueryProjectID)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create BigQuery client, schedule result recording disabled",
			slog.String("error", err.Error()),
			slog.String("project_id", cfg.BigQueryProjectID),
		)
		return NewNoopRecorder(), nil
	}

	slog.InfoContext(ctx, "schedule result recorder initialized",
		slog.String("type", "bigquery"),
		slog.String("project_id", cfg.BigQueryProjectID),
		slog.String("dataset", cfg.BigQueryDataset),
		slog.String("table", cfg.BigQueryTable),
	)

	return &bigQueryRecorder{
		client:   client,
		inserter: client.Dataset(cfg.BigQueryDataset).Table(cfg.BigQueryTable).Inserter(),
	}, nil
}

func (r *bigQueryRecorder) RecordUserResults(ctx context.Context, records []domain.UserScheduleRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	rows := make([]*bigQueryRecord, 0, len(records))
	for _, record := range records {
		rows = append(rows, &bigQueryRecord{
			RecordedAt:         now,
			RunID:              record.RunID,
			Week:               record.WeekKey,
			UserID:             record.UserID,
			Mode:               record.Mode.String(),
			CandidateCount:     int64(record.CandidateCount),
			FinalCount:         int64(record.FinalCount),
			DroppedCount:       int64(record.DroppedCount),
			HistoryCount:       int64(record.HistoryCount),
			DefaultCount:       int64(record.DefaultCount),
			MeanConfidence:     record.MeanConfidence,
			ScheduledReadings:  int64(record.ScheduledReadings),
			HistoricalReadings: int64(record.HistoricalReadings),
		})
	}

	if err := r.inserter.Put(ctx, rows); err != nil {
		slog.WarnContext(ctx, "failed to insert schedule results to BigQuery",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func (r *bigQueryRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *bigQueryRecorder) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}
