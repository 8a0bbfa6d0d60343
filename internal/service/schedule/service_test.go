package schedule

import (
	"context"
	"errors"
	"reflect"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/mock/gomock"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
)

var (
	weekStart = time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	weekKey   = "2024-01-15"
)

type mocks struct {
	readings    *domain.MockReadingRepository
	mealWindows *domain.MockMealWindowRepository
	history     *domain.MockScheduleHistoryRepository
	output      *domain.MockScheduleOutputRepository
	ledger      *domain.MockRunLedger
	lock        *domain.MockRunLock
	recorder    *fakeRecorder
}

type fakeRecorder struct {
	mu      sync.Mutex
	records []domain.UserScheduleRecord
	flushed int
}

func (f *fakeRecorder) RecordUserResults(_ context.Context, records []domain.UserScheduleRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, records...)
	return nil
}

func (f *fakeRecorder) Flush(_ context.Context) error {
	f.flushed++
	return nil
}

func (f *fakeRecorder) Close() error {
	return nil
}

func newTestService(t *testing.T, opts Options, withLock bool) (*Service, *mocks) {
	t.Helper()

	ctrl := gomock.NewController(t)
	m := &mocks{
		readings:    domain.NewMockReadingRepository(ctrl),
		mealWindows: domain.NewMockMealWindowRepository(ctrl),
		history:     domain.NewMockScheduleHistoryRepository(ctrl),
		output:      domain.NewMockScheduleOutputRepository(ctrl),
		ledger:      domain.NewMockRunLedger(ctrl),
		recorder:    &fakeRecorder{},
	}

	deps := Dependencies{
		Readings:    m.readings,
		MealWindows: m.mealWindows,
		History:     m.history,
		Output:      m.output,
		Ledger:      m.ledger,
		Recorder:    m.recorder,
	}
	if withLock {
		m.lock = domain.NewMockRunLock(ctrl)
		deps.Lock = m.lock
	}

	if opts.Converter == nil {
		opts.Converter = civiltime.NewConverter(time.UTC)
	}

	svc := NewService(deps, opts)
	var ids atomic.Int64
	svc.newID = func() string {
		return "id-" + strconv.FormatInt(ids.Add(1), 10)
	}
	svc.now = func() time.Time { return weekStart.Add(-48 * time.Hour) }

	return svc, m
}

func mondayWindows(userID string) []domain.MealWindow {
	return []domain.MealWindow{
		{
			ID:              userID + "-fasting",
			UserID:          userID,
			DayOfWeek:       1,
			MeasurementType: domain.MeasurementFasting,
			StartMinute:     360,
			EndMinute:       600,
		},
		{
			ID:              userID + "-lunch",
			UserID:          userID,
			DayOfWeek:       1,
			MeasurementType: domain.MeasurementAfterMealOneHr,
			StartMinute:     720,
			EndMinute:       840,
		},
	}
}

// Three organic fasting readings on Mondays at 08:00.
func mondayMorningReadings(userID string) []domain.Reading {
	return []domain.Reading{
		{ID: "r1", UserID: userID, MeasurementType: domain.MeasurementFasting, MeasuredAt: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)},
		{ID: "r2", UserID: userID, MeasurementType: domain.MeasurementFasting, MeasuredAt: time.Date(2024, 1, 8, 8, 0, 0, 0, time.UTC)},
		{ID: "r3", UserID: userID, MeasurementType: domain.MeasurementFasting, MeasuredAt: time.Date(2023, 12, 25, 8, 0, 0, 0, time.UTC)},
	}
}

func bootstrapQuery(userID string) domain.ReadingQuery {
	return domain.ReadingQuery{
		UserID:  userID,
		Since:   weekStart.AddDate(0, 0, -60),
		Until:   weekStart,
		Context: domain.ContextOrganic,
	}
}

func TestService_GenerateWeek_AlreadyCompleted(t *testing.T) {
	svc, m := newTestService(t, Options{}, true)

	completed := &domain.Run{ID: "run-1", WeekKey: weekKey, Status: domain.RunStatusCompleted}
	m.ledger.EXPECT().GetRun(gomock.Any(), weekKey).Return(completed, nil)

	got, err := svc.GenerateWeek(context.Background(), weekStart)
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}
	if !got.AlreadyCompleted {
		t.Error("AlreadyCompleted = false, want true")
	}
	if got.Run != completed {
		t.Errorf("Run = %v, want the ledger entry", got.Run)
	}
}

func TestService_GenerateWeek_RunInProgress(t *testing.T) {
	svc, m := newTestService(t, Options{}, true)

	m.ledger.EXPECT().GetRun(gomock.Any(), weekKey).Return(nil, domain.ErrRunNotFound)
	m.lock.EXPECT().TryAcquire(gomock.Any(), weekKey, "id-1", gomock.Any()).Return(false, nil)

	_, err := svc.GenerateWeek(context.Background(), weekStart)
	if !errors.Is(err, domain.ErrRunInProgress) {
		t.Fatalf("GenerateWeek() error = %v, want ErrRunInProgress", err)
	}
}

func TestService_GenerateWeek_LedgerFailureIsFatal(t *testing.T) {
	svc, m := newTestService(t, Options{}, false)

	ledgerErr := errors.New("connection refused")
	m.ledger.EXPECT().GetRun(gomock.Any(), weekKey).Return(nil, ledgerErr)

	_, err := svc.GenerateWeek(context.Background(), weekStart)
	if !errors.Is(err, ledgerErr) {
		t.Fatalf("GenerateWeek() error = %v, want %v", err, ledgerErr)
	}
}

func TestService_GenerateWeek_PerUserFailuresDoNotStopTheRun(t *testing.T) {
	svc, m := newTestService(t, Options{Workers: 2}, true)

	m.ledger.EXPECT().GetRun(gomock.Any(), weekKey).Return(nil, domain.ErrRunNotFound)
	m.lock.EXPECT().TryAcquire(gomock.Any(), weekKey, "id-1", gomock.Any()).Return(true, nil)
	m.lock.EXPECT().Release(gomock.Any(), weekKey, "id-1").Return(nil)
	m.ledger.EXPECT().StartRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *domain.Run) error {
			if run.Status != domain.RunStatusStarted || run.WeekKey != weekKey {
				t.Errorf("StartRun(%+v), want started run for %s", run, weekKey)
			}
			return nil
		})
	m.mealWindows.EXPECT().ListUserIDs(gomock.Any()).Return([]string{"u1", "u2", "u3"}, nil)

	// u1 succeeds.
	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "u1").Return(mondayWindows("u1"), nil)
	m.history.EXPECT().CountCompletedWeeksBefore(gomock.Any(), "u1", weekKey).Return(0, nil)
	m.readings.EXPECT().FetchReadings(gomock.Any(), bootstrapQuery("u1")).Return(mondayMorningReadings("u1"), nil)
	m.output.EXPECT().ReplaceWeek(gomock.Any(), "u1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, ws time.Time, schedules []domain.PersistedSchedule) error {
			if !ws.Equal(weekStart) {
				t.Errorf("ReplaceWeek weekStart = %v, want %v", ws, weekStart)
			}
			if len(schedules) != 2 {
				t.Errorf("ReplaceWeek got %d schedules, want 2", len(schedules))
			}
			return nil
		})

	// u2 cannot be read.
	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "u2").Return(nil, errors.New("timeout"))

	// u3 cannot be written.
	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "u3").Return(mondayWindows("u3"), nil)
	m.history.EXPECT().CountCompletedWeeksBefore(gomock.Any(), "u3", weekKey).Return(0, nil)
	m.readings.EXPECT().FetchReadings(gomock.Any(), bootstrapQuery("u3")).Return(nil, nil)
	m.output.EXPECT().ReplaceWeek(gomock.Any(), "u3", gomock.Any(), gomock.Any()).Return(errors.New("deadlock"))

	var finished *domain.Run
	m.ledger.EXPECT().FinishRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *domain.Run) error {
			finished = run
			return nil
		})

	got, err := svc.GenerateWeek(context.Background(), weekStart)
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}
	if got.AlreadyCompleted || got.Pending != 0 {
		t.Errorf("result = %+v, want a fresh full run", got)
	}
	if finished == nil {
		t.Fatal("FinishRun was not called")
	}
	if finished.Status != domain.RunStatusCompleted {
		t.Errorf("Status = %s, want completed", finished.Status)
	}
	if finished.CompletedAt == nil {
		t.Error("CompletedAt not set")
	}
	if finished.UsersProcessed != 1 || finished.UsersSkipped != 1 || finished.UsersFailed != 1 {
		t.Errorf("counts processed/skipped/failed = %d/%d/%d, want 1/1/1",
			finished.UsersProcessed, finished.UsersSkipped, finished.UsersFailed)
	}
	if finished.SchedulesCreated != 2 {
		t.Errorf("SchedulesCreated = %d, want 2", finished.SchedulesCreated)
	}

	if len(m.recorder.records) != 1 {
		t.Fatalf("recorded %d user results, want 1", len(m.recorder.records))
	}
	rec := m.recorder.records[0]
	if rec.UserID != "u1" || rec.RunID != "id-1" || rec.Mode != domain.ModeBootstrap {
		t.Errorf("record = %+v", rec)
	}
	if rec.HistoryCount != 1 || rec.DefaultCount != 1 || rec.HistoricalReadings != 3 {
		t.Errorf("record counts = %+v, want 1 history, 1 default, 3 historical readings", rec)
	}
	if m.recorder.flushed != 1 {
		t.Errorf("Flush called %d times, want 1", m.recorder.flushed)
	}
}

func TestService_GenerateWeek_BudgetExhausted(t *testing.T) {
	svc, m := newTestService(t, Options{Workers: 1, RunBudget: 50 * time.Millisecond}, false)

	m.ledger.EXPECT().GetRun(gomock.Any(), weekKey).Return(nil, domain.ErrRunNotFound)
	m.ledger.EXPECT().StartRun(gomock.Any(), gomock.Any()).Return(nil)
	m.mealWindows.EXPECT().ListUserIDs(gomock.Any()).Return([]string{"slow", "late", "never"}, nil)
	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "slow").
		DoAndReturn(func(ctx context.Context, _ string) ([]domain.MealWindow, error) {
			<-ctx.Done()
			return nil, ctx.Err()
		})
	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "late").
		DoAndReturn(func(ctx context.Context, _ string) ([]domain.MealWindow, error) {
			return nil, ctx.Err()
		})

	var finished *domain.Run
	m.ledger.EXPECT().FinishRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, run *domain.Run) error {
			if ctx.Err() != nil {
				t.Errorf("FinishRun called with a done context: %v", ctx.Err())
			}
			finished = run
			return nil
		})

	got, err := svc.GenerateWeek(context.Background(), weekStart)
	if err != nil {
		t.Fatalf("GenerateWeek() error = %v", err)
	}
	if got.Pending != 1 {
		t.Errorf("Pending = %d, want 1", got.Pending)
	}
	if finished.Status != domain.RunStatusAborted {
		t.Errorf("Status = %s, want aborted", finished.Status)
	}
	if finished.UsersProcessed != 0 || finished.UsersSkipped != 0 {
		t.Errorf("interrupted users counted as processed/skipped: %+v", finished)
	}
}

func TestService_GenerateWeek_ListUsersFailureMarksRunFailed(t *testing.T) {
	svc, m := newTestService(t, Options{}, false)

	listErr := errors.New("no such table")
	m.ledger.EXPECT().GetRun(gomock.Any(), weekKey).Return(nil, domain.ErrRunNotFound)
	m.ledger.EXPECT().StartRun(gomock.Any(), gomock.Any()).Return(nil)
	m.mealWindows.EXPECT().ListUserIDs(gomock.Any()).Return(nil, listErr)
	m.ledger.EXPECT().FinishRun(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, run *domain.Run) error {
			if run.Status != domain.RunStatusFailed {
				t.Errorf("Status = %s, want failed", run.Status)
			}
			return nil
		})

	if _, err := svc.GenerateWeek(context.Background(), weekStart); !errors.Is(err, listErr) {
		t.Fatalf("GenerateWeek() error = %v, want %v", err, listErr)
	}
}

func TestService_GenerateForUser_DryRunDoesNotWrite(t *testing.T) {
	svc, m := newTestService(t, Options{}, false)

	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "u1").Return(mondayWindows("u1"), nil)
	m.history.EXPECT().CountCompletedWeeksBefore(gomock.Any(), "u1", weekKey).Return(0, nil)
	m.readings.EXPECT().FetchReadings(gomock.Any(), bootstrapQuery("u1")).Return(mondayMorningReadings("u1"), nil)

	got, err := svc.GenerateForUser(context.Background(), "u1", weekStart.Add(36*time.Hour), true)
	if err != nil {
		t.Fatalf("GenerateForUser() error = %v", err)
	}
	if !got.DryRun || got.WeekKey != weekKey {
		t.Errorf("result = %+v", got)
	}
	if len(got.Schedules) != 2 {
		t.Fatalf("got %d schedules, want 2", len(got.Schedules))
	}

	fasting := got.Schedules[0]
	if fasting.MinuteOfDay != 485 || fasting.Source != domain.SourceHistory {
		t.Errorf("fasting schedule = %d/%s, want 485/history", fasting.MinuteOfDay, fasting.Source)
	}
	if !fasting.ScheduledAt.Equal(time.Date(2024, 1, 15, 8, 5, 0, 0, time.UTC)) {
		t.Errorf("ScheduledAt = %v", fasting.ScheduledAt)
	}
	if fasting.QualityBreakdown.Historical != 3 {
		t.Errorf("QualityBreakdown = %+v, want 3 historical", fasting.QualityBreakdown)
	}

	lunch := got.Schedules[1]
	if lunch.MinuteOfDay != 810 || lunch.Source != domain.SourceDefaultWindow {
		t.Errorf("lunch schedule = %d/%s, want 810/default_window", lunch.MinuteOfDay, lunch.Source)
	}
}

func TestService_GenerateForUser_NoMealWindows(t *testing.T) {
	svc, m := newTestService(t, Options{}, false)

	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "u1").Return(nil, nil)

	_, err := svc.GenerateForUser(context.Background(), "u1", weekStart, false)
	if !errors.Is(err, domain.ErrNoMealWindows) {
		t.Fatalf("GenerateForUser() error = %v, want ErrNoMealWindows", err)
	}
}

func TestService_GenerateForUser_Deterministic(t *testing.T) {
	svc, m := newTestService(t, Options{}, false)

	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "u1").Return(mondayWindows("u1"), nil).Times(2)
	m.history.EXPECT().CountCompletedWeeksBefore(gomock.Any(), "u1", weekKey).Return(2, nil).Times(2)
	m.readings.EXPECT().FetchReadings(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, q domain.ReadingQuery) ([]domain.Reading, error) {
			return mondayMorningReadings(q.UserID), nil
		}).AnyTimes()

	var written [][]domain.PersistedSchedule
	m.output.EXPECT().ReplaceWeek(gomock.Any(), "u1", gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ time.Time, schedules []domain.PersistedSchedule) error {
			written = append(written, schedules)
			return nil
		}).Times(2)

	for range 2 {
		if _, err := svc.GenerateForUser(context.Background(), "u1", weekStart, false); err != nil {
			t.Fatalf("GenerateForUser() error = %v", err)
		}
	}

	first, second := stripIdentity(written[0]), stripIdentity(written[1])
	if !reflect.DeepEqual(first, second) {
		t.Errorf("runs differ:\n%+v\n%+v", first, second)
	}
}

func TestService_PreviewLegacy(t *testing.T) {
	svc, m := newTestService(t, Options{}, false)

	m.mealWindows.EXPECT().FetchByUser(gomock.Any(), "u1").Return(mondayWindows("u1"), nil)
	m.readings.EXPECT().FetchReadings(gomock.Any(), domain.ReadingQuery{
		UserID: "u1",
		Since:  weekStart.AddDate(0, 0, -60),
		Until:  weekStart,
	}).Return(mondayMorningReadings("u1"), nil)

	got, err := svc.PreviewLegacy(context.Background(), "u1", weekStart)
	if err != nil {
		t.Fatalf("PreviewLegacy() error = %v", err)
	}
	// No post-meal readings, so the lunch window is not filled.
	if len(got) != 1 {
		t.Fatalf("got %d schedules, want 1: %+v", len(got), got)
	}
	if got[0].MinuteOfDay != 480 || got[0].Frequency != 3 || got[0].Source != domain.SourceHistory {
		t.Errorf("fasting = %+v, want 480 from history with frequency 3", got[0])
	}
}

func stripIdentity(schedules []domain.PersistedSchedule) []domain.PersistedSchedule {
	out := make([]domain.PersistedSchedule, len(schedules))
	for i, s := range schedules {
		s.ID = ""
		s.CreatedAt = time.Time{}
		out[i] = s
	}
	return out
}
