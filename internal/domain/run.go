package domain

import (
	"time"
)

type RunStatus string

const (
	RunStatusStarted   RunStatus = "started"
	RunStatusCompleted RunStatus = "completed"
	RunStatusFailed    RunStatus = "failed"
	RunStatusAborted   RunStatus = "aborted"
)

func (s RunStatus) String() string {
	return string(s)
}

func (s RunStatus) IsCompleted() bool {
	return s == RunStatusCompleted
}

// Run is the ledger entry for one weekly generation.
type Run struct {
	ID               string
	WeekKey          string
	Status           RunStatus
	StartedAt        time.Time
	CompletedAt      *time.Time
	UsersProcessed   int
	UsersSkipped     int
	UsersFailed      int
	SchedulesCreated int
}

func NewRun(id, weekKey string) *Run {
	return &Run{
		ID:        id,
		WeekKey:   weekKey,
		Status:    RunStatusStarted,
		StartedAt: time.Now().UTC(),
	}
}

func (r *Run) Finish(status RunStatus) {
	now := time.Now().UTC()
	r.Status = status
	r.CompletedAt = &now
}
