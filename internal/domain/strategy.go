package domain

// LookbackMode is the data-maturity stage of a user.
type LookbackMode string

const (
	ModeBootstrap  LookbackMode = "bootstrap"
	ModeTransition LookbackMode = "transition"
	ModeMature     LookbackMode = "mature"
)

func (m LookbackMode) String() string {
	return string(m)
}

// LookbackStrategy decides which readings feed one user's run and how much the
// organic history counts.
type LookbackStrategy struct {
	Mode                   LookbackMode
	ScheduledWeeksCount    int
	UseScheduledWeeks      bool
	UseHistoricalWeeks     bool
	HistoricalLookbackDays int
	HistoricalWeight       float64
}

func (s LookbackStrategy) IsMature() bool {
	return s.Mode == ModeMature
}
