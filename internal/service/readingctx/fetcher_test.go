package readingctx

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/lookback"
)

var anchor = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

func reading(id string, measuredAt time.Time, mt domain.MeasurementType) domain.Reading {
	return domain.Reading{
		ID:              id,
		UserID:          "user-1",
		MeasurementType: mt,
		MeasuredAt:      measuredAt,
	}
}

func TestFetcher_Fetch_Bootstrap(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := domain.NewMockReadingRepository(ctrl)
	fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))
	strategy := lookback.NewSelector().Select(0)

	mockRepo.EXPECT().
		FetchReadings(gomock.Any(), domain.ReadingQuery{
			UserID:  "user-1",
			Since:   anchor.AddDate(0, 0, -60),
			Until:   anchor,
			Context: domain.ContextOrganic,
		}).
		Return([]domain.Reading{
			reading("r1", time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC), domain.MeasurementFasting),
		}, nil)

	got, err := fetcher.Fetch(context.Background(), "user-1", strategy, anchor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 reading, got %d", len(got))
	}
	if got[0].DataQuality != domain.QualityHistorical {
		t.Errorf("DataQuality = %s, want historical", got[0].DataQuality)
	}
	if got[0].Weight != 1.0 {
		t.Errorf("Weight = %v, want 1.0", got[0].Weight)
	}
	if got[0].DayOfWeek != 3 || got[0].MinuteOfDay != 480 {
		t.Errorf("local parts = (%d, %d), want (3, 480)", got[0].DayOfWeek, got[0].MinuteOfDay)
	}
}

func TestFetcher_Fetch_TransitionCombinesSources(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := domain.NewMockReadingRepository(ctrl)
	fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))
	strategy := lookback.NewSelector().Select(2)

	gomock.InOrder(
		mockRepo.EXPECT().
			FetchReadings(gomock.Any(), domain.ReadingQuery{
				UserID:  "user-1",
				Since:   anchor.AddDate(0, 0, -90),
				Until:   anchor,
				Context: domain.ContextScheduledPrompt,
			}).
			Return([]domain.Reading{
				reading("s1", time.Date(2024, 1, 8, 8, 5, 0, 0, time.UTC), domain.MeasurementFasting),
			}, nil),
		mockRepo.EXPECT().
			FetchReadings(gomock.Any(), domain.ReadingQuery{
				UserID:  "user-1",
				Since:   anchor.AddDate(0, 0, -46),
				Until:   anchor,
				Context: domain.ContextOrganic,
			}).
			Return([]domain.Reading{
				reading("h1", time.Date(2024, 1, 9, 7, 30, 0, 0, time.UTC), domain.MeasurementFasting),
				reading("h2", time.Date(2024, 1, 10, 7, 40, 0, 0, time.UTC), domain.MeasurementFasting),
			}, nil),
	)

	got, err := fetcher.Fetch(context.Background(), "user-1", strategy, anchor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	scheduled, historical := domain.CountByQuality(got)
	if scheduled != 1 || historical != 2 {
		t.Errorf("quality counts = (%d, %d), want (1, 2)", scheduled, historical)
	}
	for _, r := range got {
		switch r.DataQuality {
		case domain.QualityScheduledWeek:
			if r.Weight != 1.0 {
				t.Errorf("scheduled weight = %v, want 1.0", r.Weight)
			}
		case domain.QualityHistorical:
			if r.Weight != strategy.HistoricalWeight {
				t.Errorf("historical weight = %v, want %v", r.Weight, strategy.HistoricalWeight)
			}
		}
	}
}

func TestFetcher_Fetch_MatureSkipsHistory(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := domain.NewMockReadingRepository(ctrl)
	fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))
	strategy := lookback.NewSelector().Select(6)

	mockRepo.EXPECT().
		FetchReadings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.ReadingQuery) ([]domain.Reading, error) {
			if q.Context != domain.ContextScheduledPrompt {
				t.Errorf("unexpected context %v", q.Context)
			}
			return nil, nil
		}).
		Times(1)

	got, err := fetcher.Fetch(context.Background(), "user-1", strategy, anchor)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected no readings, got %d", len(got))
	}
}

func TestFetcher_Fetch_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := domain.NewMockReadingRepository(ctrl)
	fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))
	storeErr := errors.New("store unavailable")

	mockRepo.EXPECT().
		FetchReadings(gomock.Any(), gomock.Any()).
		Return(nil, storeErr)

	_, err := fetcher.Fetch(context.Background(), "user-1", lookback.NewSelector().Select(0), anchor)
	if !errors.Is(err, storeErr) {
		t.Errorf("expected wrapped store error, got %v", err)
	}
}

func TestFetcher_ApplyAdaptiveFallback(t *testing.T) {
	window := domain.MealWindow{
		ID:              "w1",
		UserID:          "user-1",
		DayOfWeek:       1,
		MeasurementType: domain.MeasurementFasting,
		StartMinute:     360,
		EndMinute:       600,
	}
	existing := []domain.ReadingWithWeight{
		{
			Reading:     domain.Reading{ID: "s1", DayOfWeek: 1, MinuteOfDay: 480, MeasurementType: domain.MeasurementFasting},
			DataQuality: domain.QualityScheduledWeek,
			Weight:      1.0,
		},
	}

	t.Run("non-mature strategy is untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := domain.NewMockReadingRepository(ctrl)
		fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))

		got := fetcher.ApplyAdaptiveFallback(context.Background(), window, existing, lookback.NewSelector().Select(2), anchor)
		if len(got) != 1 {
			t.Errorf("expected 1 reading, got %d", len(got))
		}
	})

	t.Run("mature with enough readings is untouched", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := domain.NewMockReadingRepository(ctrl)
		fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))

		enough := append(append([]domain.ReadingWithWeight{}, existing...), existing[0], existing[0])
		got := fetcher.ApplyAdaptiveFallback(context.Background(), window, enough, lookback.NewSelector().Select(5), anchor)
		if len(got) != 3 {
			t.Errorf("expected 3 readings, got %d", len(got))
		}
	})

	t.Run("mature and sparse adds matching organic readings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := domain.NewMockReadingRepository(ctrl)
		fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))

		mockRepo.EXPECT().
			FetchReadings(gomock.Any(), domain.ReadingQuery{
				UserID:          "user-1",
				MeasurementType: domain.MeasurementFasting,
				Since:           anchor.AddDate(0, 0, -30),
				Until:           anchor,
				Context:         domain.ContextOrganic,
			}).
			Return([]domain.Reading{
				// Mondays inside the window
				reading("o1", time.Date(2024, 1, 8, 7, 45, 0, 0, time.UTC), domain.MeasurementFasting),
				reading("o2", time.Date(2024, 1, 1, 8, 10, 0, 0, time.UTC), domain.MeasurementFasting),
				// Monday outside the window
				reading("o3", time.Date(2024, 1, 8, 11, 0, 0, 0, time.UTC), domain.MeasurementFasting),
				// Tuesday
				reading("o4", time.Date(2024, 1, 9, 8, 0, 0, 0, time.UTC), domain.MeasurementFasting),
			}, nil)

		got := fetcher.ApplyAdaptiveFallback(context.Background(), window, existing, lookback.NewSelector().Select(5), anchor)
		if len(got) != 3 {
			t.Fatalf("expected 3 readings, got %d", len(got))
		}
		for _, r := range got[1:] {
			if r.DataQuality != domain.QualityHistorical || r.Weight != FallbackWeight {
				t.Errorf("fallback reading %s = (%s, %v), want (historical, %v)", r.ID, r.DataQuality, r.Weight, FallbackWeight)
			}
		}
		if len(existing) != 1 {
			t.Error("input slice was modified")
		}
	})

	t.Run("fetch failure keeps readings", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := domain.NewMockReadingRepository(ctrl)
		fetcher := NewFetcher(mockRepo, civiltime.NewConverter(time.UTC))

		mockRepo.EXPECT().
			FetchReadings(gomock.Any(), gomock.Any()).
			Return(nil, errors.New("timeout"))

		got := fetcher.ApplyAdaptiveFallback(context.Background(), window, existing, lookback.NewSelector().Select(5), anchor)
		if len(got) != 1 {
			t.Errorf("expected 1 reading, got %d", len(got))
		}
	})
}
