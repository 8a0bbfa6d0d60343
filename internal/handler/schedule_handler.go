package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/schedule"
)

type ScheduleGenerator interface {
	GenerateWeek(ctx context.Context, weekStart time.Time) (*schedule.RunResult, error)
	GenerateForUser(ctx context.Context, userID string, weekStart time.Time, dryRun bool) (*schedule.UserResult, error)
}

type ScheduleLister interface {
	ListWeek(ctx context.Context, userID string, weekKey string) ([]domain.PersistedSchedule, error)
}

type ScheduleHandler struct {
	generator ScheduleGenerator
	lister    ScheduleLister
	converter *civiltime.Converter
	now       func() time.Time
}

func NewScheduleHandler(generator ScheduleGenerator, lister ScheduleLister, converter *civiltime.Converter) *ScheduleHandler {
	return &ScheduleHandler{
		generator: generator,
		lister:    lister,
		converter: converter,
		now:       time.Now,
	}
}

// Register mounts the schedule routes under group.
func (h *ScheduleHandler) Register(group gin.IRouter) {
	group.POST("/schedules/generate", h.HandleGenerateWeek)
	group.POST("/users/:user_id/schedules/regenerate", h.HandleRegenerateUser)
	group.GET("/users/:user_id/schedules", h.HandleListWeek)
}

// HandleGenerateWeek runs the weekly generation. Without a week parameter the
// week after the current one is scheduled.
func (h *ScheduleHandler) HandleGenerateWeek(c *gin.Context) {
	ctx := c.Request.Context()

	weekStart, ok := h.targetWeek(c)
	if !ok {
		return
	}

	result, err := h.generator.GenerateWeek(ctx, weekStart)
	if err != nil {
		if errors.Is(err, domain.ErrRunInProgress) {
			respondError(c, http.StatusConflict, "run_in_progress", err.Error())
			return
		}
		slog.ErrorContext(ctx, "weekly generation failed",
			slog.String("week", domain.WeekKey(weekStart)),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "weekly generation failed")
		return
	}

	c.JSON(http.StatusOK, toRunResponse(result))
}

func (h *ScheduleHandler) HandleRegenerateUser(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	weekStart, ok := h.targetWeek(c)
	if !ok {
		return
	}

	dryRun := false
	if v := c.Query("dry_run"); v != "" {
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "validation_error", "dry_run must be a boolean")
			return
		}
		dryRun = parsed
	}

	result, err := h.generator.GenerateForUser(ctx, userID, weekStart, dryRun)
	if err != nil {
		if errors.Is(err, domain.ErrNoMealWindows) {
			respondError(c, http.StatusNotFound, "no_meal_windows", err.Error())
			return
		}
		slog.ErrorContext(ctx, "user regeneration failed",
			slog.String("user_id", userID),
			slog.String("week", domain.WeekKey(weekStart)),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "user regeneration failed")
		return
	}

	c.JSON(http.StatusOK, &UserScheduleResponse{
		UserID:       result.UserID,
		Week:         result.WeekKey,
		Mode:         result.Strategy.Mode.String(),
		DryRun:       result.DryRun,
		Candidates:   len(result.Candidates),
		DroppedCount: len(result.Dropped),
		Schedules:    toScheduleItems(result.Schedules),
	})
}

func (h *ScheduleHandler) HandleListWeek(c *gin.Context) {
	ctx := c.Request.Context()
	userID := c.Param("user_id")

	weekStart, ok := h.targetWeek(c)
	if !ok {
		return
	}
	weekKey := domain.WeekKey(weekStart)

	schedules, err := h.lister.ListWeek(ctx, userID, weekKey)
	if err != nil {
		slog.ErrorContext(ctx, "failed to list schedules",
			slog.String("user_id", userID),
			slog.String("week", weekKey),
			slog.String("error", err.Error()),
		)
		respondError(c, http.StatusInternalServerError, "processing_error", "failed to list schedules")
		return
	}

	c.JSON(http.StatusOK, &UserScheduleResponse{
		UserID:    userID,
		Week:      weekKey,
		Schedules: toScheduleItems(schedules),
	})
}

// targetWeek resolves the week query parameter, writing a 400 when it is invalid.
func (h *ScheduleHandler) targetWeek(c *gin.Context) (time.Time, bool) {
	key := c.Query("week")
	if key == "" {
		return h.converter.NextWeekStart(h.now()), true
	}

	weekStart, err := h.converter.ParseWeek(key)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", err.Error())
		return time.Time{}, false
	}
	return weekStart, true
}
