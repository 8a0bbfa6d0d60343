package schedule

import (
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

// Per-user outcomes of a weekly run.
const (
	OutcomeProcessed   = "processed"
	OutcomeSkipped     = "skipped"
	OutcomeFailed      = "failed"
	OutcomeInterrupted = "interrupted"
)

// UserResult is one user's pipeline output for a target week.
type UserResult struct {
	UserID     string
	WeekKey    string
	Strategy   domain.LookbackStrategy
	Candidates []domain.ScheduleCandidate
	Dropped    []domain.ScheduleCandidate
	Schedules  []domain.PersistedSchedule
	DryRun     bool

	scheduledReadings  int
	historicalReadings int
}

func (r *UserResult) record(runID string) domain.UserScheduleRecord {
	rec := domain.UserScheduleRecord{
		RunID:              runID,
		WeekKey:            r.WeekKey,
		UserID:             r.UserID,
		Mode:               r.Strategy.Mode,
		CandidateCount:     len(r.Candidates),
		FinalCount:         len(r.Schedules),
		DroppedCount:       len(r.Dropped),
		ScheduledReadings:  r.scheduledReadings,
		HistoricalReadings: r.historicalReadings,
	}

	var total float64
	for _, s := range r.Schedules {
		switch s.Source {
		case domain.SourceHistory:
			rec.HistoryCount++
		case domain.SourceDefaultWindow:
			rec.DefaultCount++
		}
		total += s.Confidence
	}
	if len(r.Schedules) > 0 {
		rec.MeanConfidence = total / float64(len(r.Schedules))
	}

	return rec
}

// RunResult summarizes a weekly generation.
type RunResult struct {
	Run *domain.Run

	// AlreadyCompleted is set when the ledger showed the week as done and nothing ran.
	AlreadyCompleted bool

	// Pending counts users never started because the run budget ran out.
	Pending int
}
