package lookback

import (
	"math"
	"testing"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
)

func TestSelector_Select(t *testing.T) {
	selector := NewSelector()

	tests := []struct {
		name           string
		weeks          int
		wantMode       domain.LookbackMode
		wantScheduled  bool
		wantHistorical bool
		wantDays       int
		wantWeight     float64
	}{
		{
			name:           "no completed weeks is bootstrap",
			weeks:          0,
			wantMode:       domain.ModeBootstrap,
			wantScheduled:  false,
			wantHistorical: true,
			wantDays:       60,
			wantWeight:     1.0,
		},
		{
			name:           "negative count is treated as bootstrap",
			weeks:          -1,
			wantMode:       domain.ModeBootstrap,
			wantScheduled:  false,
			wantHistorical: true,
			wantDays:       60,
			wantWeight:     1.0,
		},
		{
			name:           "first week is transition at 0.7",
			weeks:          1,
			wantMode:       domain.ModeTransition,
			wantScheduled:  true,
			wantHistorical: true,
			wantDays:       53,
			wantWeight:     0.7,
		},
		{
			name:           "second week is transition at 0.4",
			weeks:          2,
			wantMode:       domain.ModeTransition,
			wantScheduled:  true,
			wantHistorical: true,
			wantDays:       46,
			wantWeight:     0.4,
		},
		{
			name:           "third week is floored at 0.1",
			weeks:          3,
			wantMode:       domain.ModeTransition,
			wantScheduled:  true,
			wantHistorical: true,
			wantDays:       39,
			wantWeight:     0.1,
		},
		{
			name:           "fourth week is mature",
			weeks:          4,
			wantMode:       domain.ModeMature,
			wantScheduled:  true,
			wantHistorical: false,
			wantDays:       0,
			wantWeight:     0,
		},
		{
			name:           "long-standing user stays mature",
			weeks:          26,
			wantMode:       domain.ModeMature,
			wantScheduled:  true,
			wantHistorical: false,
			wantDays:       0,
			wantWeight:     0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := selector.Select(tt.weeks)

			if got.Mode != tt.wantMode {
				t.Errorf("Mode = %s, want %s", got.Mode, tt.wantMode)
			}
			if got.UseScheduledWeeks != tt.wantScheduled {
				t.Errorf("UseScheduledWeeks = %v, want %v", got.UseScheduledWeeks, tt.wantScheduled)
			}
			if got.UseHistoricalWeeks != tt.wantHistorical {
				t.Errorf("UseHistoricalWeeks = %v, want %v", got.UseHistoricalWeeks, tt.wantHistorical)
			}
			if got.HistoricalLookbackDays != tt.wantDays {
				t.Errorf("HistoricalLookbackDays = %d, want %d", got.HistoricalLookbackDays, tt.wantDays)
			}
			if math.Abs(got.HistoricalWeight-tt.wantWeight) > 1e-9 {
				t.Errorf("HistoricalWeight = %v, want %v", got.HistoricalWeight, tt.wantWeight)
			}
		})
	}
}

func TestSelector_WeightNeverIncreases(t *testing.T) {
	selector := NewSelector()

	prev := selector.Select(0).HistoricalWeight
	for weeks := 1; weeks <= 10; weeks++ {
		got := selector.Select(weeks).HistoricalWeight
		if got > prev {
			t.Errorf("weight increased at week %d: %v -> %v", weeks, prev, got)
		}
		prev = got
	}
}
