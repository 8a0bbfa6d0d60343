package spacing

import (
	"container/heap"
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const DefaultMinSpacing = 90 * time.Minute

type Result struct {
	Accepted []domain.ScheduleCandidate
	Dropped  []domain.ScheduleCandidate
}

type Resolver struct {
	minSpacing time.Duration
}

// NewResolver creates a resolver. A non-positive spacing uses DefaultMinSpacing.
func NewResolver(minSpacing time.Duration) *Resolver {
	if minSpacing <= 0 {
		minSpacing = DefaultMinSpacing
	}
	return &Resolver{minSpacing: minSpacing}
}

func (r *Resolver) MinSpacing() time.Duration {
	return r.minSpacing
}

// Resolve accepts candidates in descending confidence order and drops every
// candidate closer than the minimum spacing to one already accepted.
// Accepted candidates are returned in chronological order.
func (r *Resolver) Resolve(ctx context.Context, candidates []domain.ScheduleCandidate) Result {
	result := Result{
		Accepted: make([]domain.ScheduleCandidate, 0, len(candidates)),
	}

	if len(candidates) == 0 {
		return result
	}

	q := newCandidateQueue(candidates)
	heap.Init(q)

	for q.Len() > 0 {
		next := heap.Pop(q).(*queuedCandidate).candidate

		if winner, ok := r.conflictWith(next, result.Accepted); ok {
			slog.DebugContext(ctx, "candidate dropped by spacing",
				slog.String("user_id", next.UserID),
				slog.String("meal_window_id", next.MealWindowID),
				slog.Time("scheduled_at", next.ScheduledAt),
				slog.Float64("confidence", next.Confidence),
				slog.String("kept_meal_window_id", winner.MealWindowID),
				slog.Float64("kept_confidence", winner.Confidence),
			)
			result.Dropped = append(result.Dropped, next)
			continue
		}

		result.Accepted = append(result.Accepted, next)
	}

	sort.SliceStable(result.Accepted, func(i, j int) bool {
		return result.Accepted[i].ScheduledAt.Before(result.Accepted[j].ScheduledAt)
	})

	return result
}

func (r *Resolver) conflictWith(c domain.ScheduleCandidate, accepted []domain.ScheduleCandidate) (domain.ScheduleCandidate, bool) {
	for _, a := range accepted {
		gap := c.ScheduledAt.Sub(a.ScheduledAt)
		if gap < 0 {
			gap = -gap
		}
		if gap < r.minSpacing {
			return a, true
		}
	}
	return domain.ScheduleCandidate{}, false
}
