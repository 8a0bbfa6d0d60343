package domain

import (
	"context"
	"time"
)

//go:generate mockgen -source=repositories.go -destination=repositories_mock.go -package=domain

type ReadingRepository interface {
	FetchReadings(ctx context.Context, query ReadingQuery) ([]Reading, error)
}

type MealWindowRepository interface {
	FetchByUser(ctx context.Context, userID string) ([]MealWindow, error)
	ListUserIDs(ctx context.Context) ([]string, error)
}

type ScheduleHistoryRepository interface {
	CountCompletedWeeksBefore(ctx context.Context, userID string, weekKey string) (int, error)
}

type ScheduleOutputRepository interface {
	// ReplaceWeek deletes the user's schedules in [weekStart, weekStart+7d) and inserts schedules.
	ReplaceWeek(ctx context.Context, userID string, weekStart time.Time, schedules []PersistedSchedule) error
}

type RunLedger interface {
	GetRun(ctx context.Context, weekKey string) (*Run, error)
	StartRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, run *Run) error
}

type RunLock interface {
	TryAcquire(ctx context.Context, weekKey, owner string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, weekKey, owner string) error
}
