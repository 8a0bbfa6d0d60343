package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/schedule"
)

type fakeGenerator struct {
	weekStart time.Time
	userID    string
	dryRun    bool

	runResult  *schedule.RunResult
	userResult *schedule.UserResult
	err        error
}

func (f *fakeGenerator) GenerateWeek(_ context.Context, weekStart time.Time) (*schedule.RunResult, error) {
	f.weekStart = weekStart
	return f.runResult, f.err
}

func (f *fakeGenerator) GenerateForUser(_ context.Context, userID string, weekStart time.Time, dryRun bool) (*schedule.UserResult, error) {
	f.userID = userID
	f.weekStart = weekStart
	f.dryRun = dryRun
	return f.userResult, f.err
}

type fakeLister struct {
	weekKey   string
	schedules []domain.PersistedSchedule
	err       error
}

func (f *fakeLister) ListWeek(_ context.Context, _ string, weekKey string) ([]domain.PersistedSchedule, error) {
	f.weekKey = weekKey
	return f.schedules, f.err
}

func newTestRouter(h *ScheduleHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.Register(r.Group("/api/v1"))
	return r
}

func serve(r http.Handler, method, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, target, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHandleGenerateWeek(t *testing.T) {
	converter := civiltime.NewConverter(time.UTC)
	completedAt := time.Date(2024, 1, 12, 3, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		query      string
		err        error
		wantStatus int
		wantWeek   time.Time
	}{
		{
			name:       "explicit week",
			query:      "?week=2024-01-15",
			wantStatus: http.StatusOK,
			wantWeek:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "not a monday",
			query:      "?week=2024-01-16",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed week",
			query:      "?week=next",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "run in progress",
			query:      "?week=2024-01-15",
			err:        domain.ErrRunInProgress,
			wantStatus: http.StatusConflict,
			wantWeek:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "store failure",
			query:      "?week=2024-01-15",
			err:        errors.New("ledger unavailable"),
			wantStatus: http.StatusInternalServerError,
			wantWeek:   time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			run := &domain.Run{
				ID:               "run-1",
				WeekKey:          "2024-01-15",
				Status:           domain.RunStatusCompleted,
				CompletedAt:      &completedAt,
				UsersProcessed:   3,
				SchedulesCreated: 12,
			}
			gen := &fakeGenerator{err: tt.err, runResult: &schedule.RunResult{Run: run}}
			r := newTestRouter(NewScheduleHandler(gen, &fakeLister{}, converter))

			w := serve(r, http.MethodPost, "/api/v1/schedules/generate"+tt.query)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if !tt.wantWeek.IsZero() && !gen.weekStart.Equal(tt.wantWeek) {
				t.Errorf("weekStart = %v, want %v", gen.weekStart, tt.wantWeek)
			}

			if tt.wantStatus != http.StatusOK {
				var resp ErrorResponse
				if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
					t.Fatalf("invalid error body: %v", err)
				}
				if resp.Error == "" {
					t.Error("error type is empty")
				}
				return
			}

			var resp RunResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if resp.RunID != "run-1" || resp.Status != "completed" || resp.SchedulesCreated != 12 {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestHandleGenerateWeek_DefaultsToNextWeek(t *testing.T) {
	converter := civiltime.NewConverter(time.UTC)
	gen := &fakeGenerator{runResult: &schedule.RunResult{Run: &domain.Run{}}}
	h := NewScheduleHandler(gen, &fakeLister{}, converter)
	h.now = func() time.Time { return time.Date(2024, 1, 10, 15, 30, 0, 0, time.UTC) }

	w := serve(newTestRouter(h), http.MethodPost, "/api/v1/schedules/generate")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	want := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	if !gen.weekStart.Equal(want) {
		t.Errorf("weekStart = %v, want %v", gen.weekStart, want)
	}
}

func TestHandleRegenerateUser(t *testing.T) {
	converter := civiltime.NewConverter(time.UTC)
	schedules := []domain.PersistedSchedule{{
		MealWindowID:     "w1",
		MeasurementType:  domain.MeasurementFasting,
		DayOfWeek:        1,
		MinuteOfDay:      485,
		ScheduledAt:      time.Date(2024, 1, 15, 8, 5, 0, 0, time.UTC),
		Confidence:       0.72,
		Source:           domain.SourceHistory,
		ReadingsCount:    9,
		QualityBreakdown: domain.QualityBreakdown{ScheduledWeek: 4, Historical: 5},
	}}

	tests := []struct {
		name       string
		target     string
		err        error
		wantStatus int
		wantDryRun bool
	}{
		{
			name:       "dry run",
			target:     "/api/v1/users/u1/schedules/regenerate?week=2024-01-15&dry_run=true",
			wantStatus: http.StatusOK,
			wantDryRun: true,
		},
		{
			name:       "write",
			target:     "/api/v1/users/u1/schedules/regenerate?week=2024-01-15",
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid dry_run",
			target:     "/api/v1/users/u1/schedules/regenerate?week=2024-01-15&dry_run=maybe",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "no meal windows",
			target:     "/api/v1/users/u1/schedules/regenerate?week=2024-01-15",
			err:        domain.ErrNoMealWindows,
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := &schedule.UserResult{
				UserID:    "u1",
				WeekKey:   "2024-01-15",
				Strategy:  domain.LookbackStrategy{Mode: domain.ModeTransition},
				DryRun:    tt.wantDryRun,
				Schedules: schedules,
			}
			gen := &fakeGenerator{err: tt.err, userResult: result}
			r := newTestRouter(NewScheduleHandler(gen, &fakeLister{}, converter))

			w := serve(r, http.MethodPost, tt.target)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			if gen.userID != "u1" || gen.dryRun != tt.wantDryRun {
				t.Errorf("called with user %q dryRun %v", gen.userID, gen.dryRun)
			}

			var resp UserScheduleResponse
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid body: %v", err)
			}
			if resp.Mode != "transition" || len(resp.Schedules) != 1 {
				t.Fatalf("response = %+v", resp)
			}
			item := resp.Schedules[0]
			if item.Time != "08:05" || item.ScheduledWeekReadings != 4 || item.HistoricalReadings != 5 {
				t.Errorf("schedule item = %+v", item)
			}
		})
	}
}

func TestHandleListWeek(t *testing.T) {
	converter := civiltime.NewConverter(time.UTC)
	lister := &fakeLister{schedules: []domain.PersistedSchedule{{
		ID:              "s1",
		MeasurementType: domain.MeasurementAfterMealOneHr,
		MinuteOfDay:     810,
		Source:          domain.SourceDefaultWindow,
	}}}
	r := newTestRouter(NewScheduleHandler(&fakeGenerator{}, lister, converter))

	w := serve(r, http.MethodGet, "/api/v1/users/u1/schedules?week=2024-01-15")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if lister.weekKey != "2024-01-15" {
		t.Errorf("weekKey = %q", lister.weekKey)
	}

	var resp UserScheduleResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if len(resp.Schedules) != 1 || resp.Schedules[0].Time != "13:30" || resp.Schedules[0].ID != "s1" {
		t.Errorf("response = %+v", resp)
	}

	lister.err = errors.New("db down")
	if w := serve(r, http.MethodGet, "/api/v1/users/u1/schedules?week=2024-01-15"); w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
