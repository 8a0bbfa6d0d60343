package legacy

import (
	"sort"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const DefaultMinSpacingMinutes = 90

// EnforceMinimumSpacing sweeps each user's schedules in week order. A schedule
// closer than minSpacing to the last kept one replaces it only when its
// frequency is strictly higher; otherwise it is dropped.
func EnforceMinimumSpacing(schedules []domain.Schedule, minSpacing int) []domain.Schedule {
	if minSpacing <= 0 {
		minSpacing = DefaultMinSpacingMinutes
	}

	var userOrder []string
	byUser := make(map[string][]domain.Schedule)
	for _, s := range schedules {
		if _, ok := byUser[s.UserID]; !ok {
			userOrder = append(userOrder, s.UserID)
		}
		byUser[s.UserID] = append(byUser[s.UserID], s)
	}

	result := make([]domain.Schedule, 0, len(schedules))
	for _, userID := range userOrder {
		result = append(result, sweep(byUser[userID], minSpacing)...)
	}
	return result
}

func sweep(schedules []domain.Schedule, minSpacing int) []domain.Schedule {
	sorted := make([]domain.Schedule, len(schedules))
	copy(sorted, schedules)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].WeekMinute() < sorted[j].WeekMinute()
	})

	kept := make([]domain.Schedule, 0, len(sorted))
	for _, s := range sorted {
		if len(kept) == 0 {
			kept = append(kept, s)
			continue
		}

		last := len(kept) - 1
		if s.WeekMinute()-kept[last].WeekMinute() >= minSpacing {
			kept = append(kept, s)
			continue
		}

		if s.Frequency > kept[last].Frequency {
			kept[last] = s
		}
	}
	return kept
}
