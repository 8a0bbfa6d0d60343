package domain

import (
	"context"
)

type UserScheduleRecord struct {
	RunID              string
	WeekKey            string
	UserID             string
	Mode               LookbackMode
	CandidateCount     int
	FinalCount         int
	DroppedCount       int
	HistoryCount       int
	DefaultCount       int
	MeanConfidence     float64
	ScheduledReadings  int
	HistoricalReadings int
}

type ScheduleResultRecorder interface {
	RecordUserResults(ctx context.Context, records []UserScheduleRecord) error
	Flush(ctx context.Context) error
	Close() error
}
