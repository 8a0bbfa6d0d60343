package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/app"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/config"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/handler"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/health"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/logging"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/middleware"
)

// Version is set via ldflags at build time
var Version = "dev"

const module = logging.Module("measurement-scheduler")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	obs, err := app.InitObservability(ctx, Version, module)
	if err != nil {
		slog.Error("failed to initialize observability", slog.String("error", err.Error()))
		return 1
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			slog.Warn("observability shutdown error", slog.String("error", err.Error()))
		}
	}()

	slog.SetDefault(obs.Logger())

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		return 1
	}

	a, err := app.New(ctx, cfg)
	if err != nil {
		slog.Error("failed to initialize application", slog.String("error", err.Error()))
		return 1
	}
	defer a.Close()

	httpMetrics, err := metrics.NewHTTPMetrics()
	if err != nil {
		slog.Error("failed to initialize HTTP metrics", slog.String("error", err.Error()))
		return 1
	}

	scheduleHandler := handler.NewScheduleHandler(a.Service, a.Schedules, a.Converter)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(middleware.Gin(middleware.GinConfig{
		SkipPaths:  []string{"/health", "/health/live", "/health/ready"},
		Module:     module,
		TracerName: "github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/middleware",
		JobNameResolver: func(c *gin.Context) string {
			if jobName := c.Request.Header.Get("X-CloudScheduler-JobName"); jobName != "" {
				return jobName
			}
			return c.FullPath()
		},
		HTTPMetrics: httpMetrics,
	}))
	r.Use(middleware.PanicRecoveryGin())

	healthChecker := health.NewChecker(a.DB, a.Redis, Version)
	r.GET("/health/live", healthChecker.LiveHandler())
	r.GET("/health/ready", healthChecker.ReadyHandler())
	r.GET("/health", healthChecker.ReadyHandler())

	scheduleHandler.Register(r.Group("/api/v1"))

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("starting server",
			slog.String("port", cfg.Port),
			slog.String("timezone", cfg.Scheduler.Timezone),
			slog.Duration("min_spacing", cfg.Scheduler.MinSpacing),
			slog.Int("workers", cfg.Scheduler.Workers),
			slog.Duration("run_budget", cfg.Scheduler.RunBudget),
		)
		serverErr <- srv.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("failed to shutdown server", slog.String("error", err.Error()))
			return 1
		}

		slog.Info("server exited properly")
		return 0

	case err := <-serverErr:
		if errors.Is(err, http.ErrServerClosed) {
			return 0
		}
		slog.Error("server exited with error", slog.String("error", err.Error()))
		return 1
	}
}
