package lookback

import (
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

const (
	// MatureWeeksThreshold is the number of completed scheduling weeks after which
	// a user is scheduled from prompted readings alone.
	MatureWeeksThreshold = 4

	BootstrapLookbackDays = 60

	// Each completed week removes this much weight from organic history, down to
	// minHistoricalWeight, and a week of lookback.
	weeklyWeightDecay   = 0.3
	minHistoricalWeight = 0.1
	daysPerWeek         = 7
)

type Selector struct{}

func NewSelector() *Selector {
	return &Selector{}
}

func (s *Selector) Select(scheduledWeeksCount int) domain.LookbackStrategy {
	if scheduledWeeksCount <= 0 {
		return domain.LookbackStrategy{
			Mode:                   domain.ModeBootstrap,
			ScheduledWeeksCount:    0,
			UseScheduledWeeks:      false,
			UseHistoricalWeeks:     true,
			HistoricalLookbackDays: BootstrapLookbackDays,
			HistoricalWeight:       1.0,
		}
	}

	if scheduledWeeksCount >= MatureWeeksThreshold {
		return domain.LookbackStrategy{
			Mode:                   domain.ModeMature,
			ScheduledWeeksCount:    scheduledWeeksCount,
			UseScheduledWeeks:      true,
			UseHistoricalWeeks:     false,
			HistoricalLookbackDays: 0,
			HistoricalWeight:       0,
		}
	}

	return domain.LookbackStrategy{
		Mode:                   domain.ModeTransition,
		ScheduledWeeksCount:    scheduledWeeksCount,
		UseScheduledWeeks:      true,
		UseHistoricalWeeks:     true,
		HistoricalLookbackDays: BootstrapLookbackDays - scheduledWeeksCount*daysPerWeek,
		HistoricalWeight:       max(minHistoricalWeight, 1.0-float64(scheduledWeeksCount)*weeklyWeightDecay),
	}
}
