//go:build !gcloud

package schedulerecorder

import (
	"context"
	"log/slog"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const userScheduleMeasurement = "user_schedule_result"

type influxDBRecorder struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
}

func NewRecorder(ctx context.Context, cfg *Config) (domain.ScheduleResultRecorder, error) {
	if cfg.Disabled {
		slog.InfoContext(ctx, "schedule result recording disabled")
		return NewNoopRecorder(), nil
	}

	if cfg.InfluxDBToken == "" || cfg.InfluxDBOrg == "" {
		slog.WarnContext(ctx, "InfluxDB token or org not configured, schedule result recording disabled",
			slog.String("url", cfg.InfluxDBURL),
		)
		return NewNoopRecorder(), nil
	}

	client := influxdb2.NewClient(cfg.InfluxDBURL, cfg.InfluxDBToken)

	slog.InfoContext(ctx, "schedule result recorder initialized",
		slog.String("type", "influxdb"),
		slog.String("url", cfg.InfluxDBURL),
		slog.String("bucket", cfg.InfluxDBBucket),
	)

	return &influxDBRecorder{
		client:   client,
		writeAPI: client.WriteAPIBlocking(cfg.InfluxDBOrg, cfg.InfluxDBBucket),
	}, nil
}

func (r *influxDBRecorder) RecordUserResults(ctx context.Context, records []domain.UserScheduleRecord) error {
	if len(records) == 0 {
		return nil
	}

	now := time.Now()
	points := make([]*write.Point, 0, len(records))
	for _, record := range records {
		points = append(points, toPoint(record, now))
	}

	if err := r.writeAPI.WritePoint(ctx, points...); err != nil {
		slog.WarnContext(ctx, "failed to write schedule results to InfluxDB",
			slog.String("error", err.Error()),
			slog.Int("record_count", len(records)),
		)
	}

	return nil
}

func toPoint(record domain.UserScheduleRecord, at time.Time) *write.Point {
	runID := record.RunID
	if runID == "" {
		runID = "preview"
	}

	return influxdb2.NewPoint(
		userScheduleMeasurement,
		map[string]string{
			"run_id":  runID,
			"week":    record.WeekKey,
			"user_id": record.UserID,
			"mode":    record.Mode.String(),
		},
		map[string]any{
			"candidate_count":     record.CandidateCount,
			"final_count":         record.FinalCount,
			"dropped_count":       record.DroppedCount,
			"history_count":       record.HistoryCount,
			"default_count":       record.DefaultCount,
			"mean_confidence":     record.MeanConfidence,
			"scheduled_readings":  record.ScheduledReadings,
			"historical_readings": record.HistoricalReadings,
		},
		at,
	)
}

func (r *influxDBRecorder) Flush(_ context.Context) error {
	return nil
}

func (r *influxDBRecorder) Close() error {
	if r.client != nil {
		r.client.Close()
	}
	return nil
}
