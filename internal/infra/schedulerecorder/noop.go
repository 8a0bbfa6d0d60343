package schedulerecorder

import (
	"context"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

type noopRecorder struct{}

func NewNoopRecorder() domain.ScheduleResultRecorder {
	return &noopRecorder{}
}

func (n *noopRecorder) RecordUserResults(_ context.Context, _ []domain.UserScheduleRecord) error {
	return nil
}

func (n *noopRecorder) Flush(_ context.Context) error {
	return nil
}

func (n *noopRecorder) Close() error {
	return nil
}
