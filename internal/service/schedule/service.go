package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/tracing"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/legacy"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/lookback"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/readingctx"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/spacing"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/window"
)

const DefaultWorkers = 4

// Dependencies are the stores and collaborators a Service runs against.
// Lock, Recorder and Metrics are optional.
type Dependencies struct {
	Readings    domain.ReadingRepository
	MealWindows domain.MealWindowRepository
	History     domain.ScheduleHistoryRepository
	Output      domain.ScheduleOutputRepository
	Ledger      domain.RunLedger
	Lock        domain.RunLock
	Recorder    domain.ScheduleResultRecorder
	Metrics     *metrics.SchedulerMetrics
}

type Options struct {
	Converter  *civiltime.Converter
	MinSpacing time.Duration
	Workers    int
	// RunBudget bounds one weekly run. Zero means unbounded.
	RunBudget  time.Duration
	RunLockTTL time.Duration
}

type Service struct {
	readings    domain.ReadingRepository
	mealWindows domain.MealWindowRepository
	history     domain.ScheduleHistoryRepository
	output      domain.ScheduleOutputRepository
	ledger      domain.RunLedger
	lock        domain.RunLock
	recorder    domain.ScheduleResultRecorder
	metrics     *metrics.SchedulerMetrics

	converter *civiltime.Converter
	selector  *lookback.Selector
	fetcher   *readingctx.Fetcher
	generator *window.Generator
	resolver  *spacing.Resolver
	legacy    *legacy.Pipeline

	workers    int
	runBudget  time.Duration
	runLockTTL time.Duration

	newID func() string
	now   func() time.Time
}

func NewService(deps Dependencies, opts Options) *Service {
	fetcher := readingctx.NewFetcher(deps.Readings, opts.Converter)

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkers
	}

	lockTTL := opts.RunLockTTL
	if lockTTL < opts.RunBudget {
		lockTTL = opts.RunBudget
	}

	return &Service{
		readings:    deps.Readings,
		mealWindows: deps.MealWindows,
		history:     deps.History,
		output:      deps.Output,
		ledger:      deps.Ledger,
		lock:        deps.Lock,
		recorder:    deps.Recorder,
		metrics:     deps.Metrics,

		converter: opts.Converter,
		selector:  lookback.NewSelector(),
		fetcher:   fetcher,
		generator: window.NewGenerator(opts.Converter, fetcher),
		resolver:  spacing.NewResolver(opts.MinSpacing),
		legacy:    legacy.NewPipeline(int(opts.MinSpacing / time.Minute)),

		workers:    workers,
		runBudget:  opts.RunBudget,
		runLockTTL: lockTTL,

		newID: uuid.NewString,
		now:   time.Now,
	}
}

// GenerateWeek computes and persists schedules for every user with meal windows
// for the week starting at weekStart. Per-user failures are logged and counted,
// never returned. A week the ledger already shows as completed is a no-op.
func (s *Service) GenerateWeek(ctx context.Context, weekStart time.Time) (*RunResult, error) {
	weekStart = s.converter.WeekStart(weekStart)
	weekKey := domain.WeekKey(weekStart)
	started := s.now()

	ctx, span := tracing.StartWeekRunSpan(ctx, weekKey)
	defer span.End()

	existing, err := s.ledger.GetRun(ctx, weekKey)
	switch {
	case err == nil && existing.Status.IsCompleted():
		slog.InfoContext(ctx, "week already scheduled, skipping run",
			slog.String("week", weekKey),
			slog.String("run_id", existing.ID),
		)
		return &RunResult{Run: existing, AlreadyCompleted: true}, nil
	case err != nil && !errors.Is(err, domain.ErrRunNotFound):
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to read run ledger: %w", err)
	}

	runID := s.newID()

	if s.lock != nil {
		acquired, err := s.lock.TryAcquire(ctx, weekKey, runID, s.runLockTTL)
		if err != nil {
			tracing.RecordError(span, err)
			return nil, fmt.Errorf("failed to acquire run lock: %w", err)
		}
		if !acquired {
			return nil, fmt.Errorf("%w: week %s", domain.ErrRunInProgress, weekKey)
		}
		defer func() {
			if err := s.lock.Release(context.WithoutCancel(ctx), weekKey, runID); err != nil {
				slog.WarnContext(ctx, "failed to release run lock",
					slog.String("week", weekKey),
					slog.String("error", err.Error()),
				)
			}
		}()
	}

	run := domain.NewRun(runID, weekKey)
	if err := s.ledger.StartRun(ctx, run); err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	slog.InfoContext(ctx, "schedule run started",
		slog.String("week", weekKey),
		slog.String("run_id", runID),
	)

	userIDs, err := s.mealWindows.ListUserIDs(ctx)
	if err != nil {
		s.finish(ctx, run, domain.RunStatusFailed, started)
		tracing.RecordWeekRunResult(span, run.Status.String(), 0, 0, 0, 0, err)
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	runCtx := ctx
	if s.runBudget > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, s.runBudget)
		defer cancel()
	}

	tally := &runTally{}
	var g errgroup.Group
	g.SetLimit(s.workers)

	pending := 0
	for i, userID := range userIDs {
		if runCtx.Err() != nil {
			pending = len(userIDs) - i
			break
		}
		g.Go(func() error {
			tally.add(s.processUser(runCtx, runID, userID, weekStart))
			return nil
		})
	}
	_ = g.Wait()

	run.UsersProcessed = tally.processed
	run.UsersSkipped = tally.skipped
	run.UsersFailed = tally.failed
	run.SchedulesCreated = tally.created

	status := domain.RunStatusCompleted
	if pending > 0 || tally.interrupted > 0 {
		status = domain.RunStatusAborted
		slog.WarnContext(ctx, "run budget exhausted, remaining users left for the next run",
			slog.String("week", weekKey),
			slog.Int("pending", pending),
			slog.Int("interrupted", tally.interrupted),
		)
	}
	s.finish(ctx, run, status, started)
	s.recordResults(ctx, tally.sortedRecords())

	tracing.RecordWeekRunResult(span, run.Status.String(),
		run.UsersProcessed, run.UsersSkipped, run.UsersFailed, run.SchedulesCreated, nil)

	slog.InfoContext(ctx, "schedule run finished",
		slog.String("week", weekKey),
		slog.String("run_id", runID),
		slog.String("status", run.Status.String()),
		slog.Int("users_processed", run.UsersProcessed),
		slog.Int("users_skipped", run.UsersSkipped),
		slog.Int("users_failed", run.UsersFailed),
		slog.Int("schedules_created", run.SchedulesCreated),
		slog.Duration("elapsed", s.now().Sub(started)),
	)

	return &RunResult{Run: run, Pending: pending}, nil
}

// GenerateForUser runs the pipeline for one user. Unless dryRun is set the
// user's schedules for the week are replaced.
func (s *Service) GenerateForUser(ctx context.Context, userID string, weekStart time.Time, dryRun bool) (*UserResult, error) {
	weekStart = s.converter.WeekStart(weekStart)

	ctx, span := tracing.StartUserSpan(ctx, userID, domain.WeekKey(weekStart), dryRun)
	defer span.End()

	result, err := s.plan(ctx, userID, weekStart)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}
	result.DryRun = dryRun

	if !dryRun {
		if err := s.write(ctx, result, weekStart); err != nil {
			tracing.RecordError(span, err)
			return nil, err
		}
	}

	tracing.RecordUserResult(span, result.Strategy.Mode.String(), len(result.Candidates), len(result.Schedules), nil)

	return result, nil
}

// PreviewLegacy runs the legacy filtering pipeline over the same reading period a
// bootstrap user would be scheduled from.
func (s *Service) PreviewLegacy(ctx context.Context, userID string, weekStart time.Time) ([]domain.Schedule, error) {
	weekStart = s.converter.WeekStart(weekStart)

	windows, err := s.mealWindows.FetchByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meal windows: %w", err)
	}

	readings, err := s.readings.FetchReadings(ctx, domain.ReadingQuery{
		UserID: userID,
		Since:  weekStart.AddDate(0, 0, -lookback.BootstrapLookbackDays),
		Until:  weekStart,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch readings: %w", err)
	}

	for i := range readings {
		parts := s.converter.ToLocalParts(readings[i].MeasuredAt)
		readings[i].DayOfWeek = parts.DayOfWeek
		readings[i].MinuteOfDay = parts.MinuteOfDay
	}

	return s.legacy.Run(ctx, readings, windows), nil
}

func (s *Service) processUser(ctx context.Context, runID, userID string, weekStart time.Time) userOutcome {
	weekKey := domain.WeekKey(weekStart)
	started := s.now()

	ctx, span := tracing.StartUserSpan(ctx, userID, weekKey, false)
	defer span.End()

	result, err := s.plan(ctx, userID, weekStart)
	if err != nil {
		outcome := OutcomeSkipped
		if ctx.Err() != nil {
			outcome = OutcomeInterrupted
		}
		level := slog.LevelWarn
		if errors.Is(err, domain.ErrNoMealWindows) {
			level = slog.LevelInfo
		}
		slog.Log(ctx, level, "skipping user",
			slog.String("user_id", userID),
			slog.String("week", weekKey),
			slog.String("error", err.Error()),
		)
		tracing.RecordUserResult(span, "", 0, 0, err)
		s.recordUserMetrics(ctx, "", outcome, started)
		return userOutcome{outcome: outcome}
	}

	mode := result.Strategy.Mode.String()

	if err := s.write(ctx, result, weekStart); err != nil {
		outcome := OutcomeFailed
		if ctx.Err() != nil {
			outcome = OutcomeInterrupted
		}
		slog.ErrorContext(ctx, "failed to write user schedules",
			slog.String("user_id", userID),
			slog.String("week", weekKey),
			slog.String("error", err.Error()),
		)
		tracing.RecordUserResult(span, mode, len(result.Candidates), 0, err)
		s.recordUserMetrics(ctx, mode, outcome, started)
		return userOutcome{outcome: outcome}
	}

	tracing.RecordUserResult(span, mode, len(result.Candidates), len(result.Schedules), nil)
	s.recordUserMetrics(ctx, mode, OutcomeProcessed, started)
	if s.metrics != nil {
		for _, c := range result.Candidates {
			s.metrics.RecordCandidate(ctx, c.Source.String(), c.MeasurementType.String(), c.Confidence)
		}
		s.metrics.RecordCandidatesDropped(ctx, len(result.Dropped))
	}

	record := result.record(runID)
	return userOutcome{
		outcome: OutcomeProcessed,
		created: len(result.Schedules),
		record:  &record,
	}
}

// plan computes a user's final schedules without writing anything.
func (s *Service) plan(ctx context.Context, userID string, weekStart time.Time) (*UserResult, error) {
	weekKey := domain.WeekKey(weekStart)

	windows, err := s.mealWindows.FetchByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch meal windows: %w", err)
	}
	if len(windows) == 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrNoMealWindows, userID)
	}

	weeks, err := s.history.CountCompletedWeeksBefore(ctx, userID, weekKey)
	if err != nil {
		return nil, fmt.Errorf("failed to count completed weeks: %w", err)
	}
	strategy := s.selector.Select(weeks)

	readings, err := s.fetcher.Fetch(ctx, userID, strategy, weekStart)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.ScheduleCandidate, 0, len(windows))
	for _, w := range windows {
		candidates = append(candidates, s.generator.Generate(ctx, window.Request{
			Window:    w,
			Readings:  readings,
			Strategy:  strategy,
			WeekStart: weekStart,
			Anchor:    weekStart,
		}))
	}

	resolved := s.resolver.Resolve(ctx, candidates)

	createdAt := s.now().UTC()
	schedules := make([]domain.PersistedSchedule, 0, len(resolved.Accepted))
	for _, c := range resolved.Accepted {
		schedules = append(schedules, toPersisted(c, s.newID(), weekKey, createdAt))
	}

	scheduled, historical := domain.CountByQuality(readings)

	slog.DebugContext(ctx, "user schedules planned",
		slog.String("user_id", userID),
		slog.String("week", weekKey),
		slog.String("mode", strategy.Mode.String()),
		slog.Int("meal_windows", len(windows)),
		slog.Int("candidates", len(candidates)),
		slog.Int("final", len(schedules)),
	)

	return &UserResult{
		UserID:             userID,
		WeekKey:            weekKey,
		Strategy:           strategy,
		Candidates:         candidates,
		Dropped:            resolved.Dropped,
		Schedules:          schedules,
		scheduledReadings:  scheduled,
		historicalReadings: historical,
	}, nil
}

func (s *Service) write(ctx context.Context, result *UserResult, weekStart time.Time) error {
	ctx, span := tracing.StartStoreSpan(ctx, "replace_week", "measurement_schedules")
	defer span.End()

	if err := s.output.ReplaceWeek(ctx, result.UserID, weekStart, result.Schedules); err != nil {
		tracing.RecordError(span, err)
		return fmt.Errorf("failed to replace week schedules: %w", err)
	}
	return nil
}

// finish closes the ledger entry even when ctx is already done.
func (s *Service) finish(ctx context.Context, run *domain.Run, status domain.RunStatus, started time.Time) {
	run.Finish(status)

	if err := s.ledger.FinishRun(context.WithoutCancel(ctx), run); err != nil {
		slog.ErrorContext(ctx, "failed to finish run",
			slog.String("run_id", run.ID),
			slog.String("week", run.WeekKey),
			slog.String("error", err.Error()),
		)
	}

	if s.metrics != nil {
		s.metrics.RecordRun(ctx, status.String(), s.now().Sub(started))
	}
}

func (s *Service) recordResults(ctx context.Context, records []domain.UserScheduleRecord) {
	if s.recorder == nil || len(records) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	if err := s.recorder.RecordUserResults(ctx, records); err != nil {
		slog.WarnContext(ctx, "failed to record schedule results",
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.recorder.Flush(ctx); err != nil {
		slog.WarnContext(ctx, "failed to flush schedule results",
			slog.String("error", err.Error()),
		)
	}
}

func (s *Service) recordUserMetrics(ctx context.Context, mode, outcome string, started time.Time) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordUserProcessed(ctx, mode, outcome)
	if mode != "" {
		s.metrics.RecordUserDuration(ctx, mode, s.now().Sub(started))
	}
}

func toPersisted(c domain.ScheduleCandidate, id, weekKey string, createdAt time.Time) domain.PersistedSchedule {
	p := domain.PersistedSchedule{
		ID:              id,
		UserID:          c.UserID,
		MealWindowID:    c.MealWindowID,
		MeasurementType: c.MeasurementType,
		DayOfWeek:       c.DayOfWeek,
		MinuteOfDay:     c.MinuteOfDay,
		ScheduledAt:     c.ScheduledAt,
		WeekKey:         weekKey,
		Confidence:      c.Confidence,
		Source:          c.Source,
		ReadingsCount:   c.ReadingsCount,
		CreatedAt:       createdAt,
	}
	if c.QualityBreakdown != nil {
		p.QualityBreakdown = *c.QualityBreakdown
	}
	return p
}

type userOutcome struct {
	outcome string
	created int
	record  *domain.UserScheduleRecord
}

type runTally struct {
	mu          sync.Mutex
	processed   int
	skipped     int
	failed      int
	interrupted int
	created     int
	records     []domain.UserScheduleRecord
}

func (t *runTally) add(o userOutcome) {
	t.mu.Lock()
	defer t.mu.Unlock()

	switch o.outcome {
	case OutcomeProcessed:
		t.processed++
	case OutcomeSkipped:
		t.skipped++
	case OutcomeFailed:
		t.failed++
	case OutcomeInterrupted:
		t.interrupted++
	}
	t.created += o.created
	if o.record != nil {
		t.records = append(t.records, *o.record)
	}
}

// sortedRecords must be called after all workers have finished.
func (t *runTally) sortedRecords() []domain.UserScheduleRecord {
	sort.Slice(t.records, func(i, j int) bool {
		return t.records[i].UserID < t.records[j].UserID
	})
	return t.records
}
