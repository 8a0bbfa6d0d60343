// Package app wires configuration, stores and services for the server and the CLI.
package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/config"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/infra/repository"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/infra/runlock"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/infra/schedulerecorder"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/observability/metrics"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/civiltime"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/service/schedule"
)

type App struct {
	Config      *config.Config
	DB          *gorm.DB
	Redis       *redis.Client
	Converter   *civiltime.Converter
	MealWindows *repository.MealWindowRepository
	Schedules   *repository.ScheduleRepository
	Service     *schedule.Service

	recorder domain.ScheduleResultRecorder
}

// New opens the database, migrates it, connects redis unless disabled and
// builds the schedule service. Any failure here is a configuration error.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	if err := config.ValidateForRun(cfg); err != nil {
		return nil, err
	}

	a := &App{
		Config:    cfg,
		Converter: civiltime.NewConverter(cfg.Scheduler.Location),
	}

	db, err := repository.Open(cfg.Database)
	if err != nil {
		return nil, err
	}
	a.DB = db

	if err := repository.AutoMigrate(db); err != nil {
		a.Close()
		return nil, err
	}

	slog.InfoContext(ctx, "database connected",
		slog.String("driver", cfg.Database.Driver),
	)

	var lock domain.RunLock
	if cfg.Redis.Disabled {
		slog.WarnContext(ctx, "redis disabled, weekly runs are not locked across instances")
	} else {
		client, err := connectRedis(ctx, cfg.Redis)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.Redis = client
		lock = runlock.NewRedisLock(client)
	}

	recorder, err := schedulerecorder.NewRecorder(ctx, schedulerecorder.LoadConfig())
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize schedule result recorder: %w", err)
	}
	a.recorder = recorder

	schedulerMetrics, err := metrics.NewSchedulerMetrics()
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to initialize scheduler metrics: %w", err)
	}

	a.MealWindows = repository.NewMealWindowRepository(db)
	a.Schedules = repository.NewScheduleRepository(db)

	a.Service = schedule.NewService(
		schedule.Dependencies{
			Readings:    repository.NewReadingRepository(db),
			MealWindows: a.MealWindows,
			History:     a.Schedules,
			Output:      a.Schedules,
			Ledger:      repository.NewRunLedger(db),
			Lock:        lock,
			Recorder:    recorder,
			Metrics:     schedulerMetrics,
		},
		schedule.Options{
			Converter:  a.Converter,
			MinSpacing: cfg.Scheduler.MinSpacing,
			Workers:    cfg.Scheduler.Workers,
			RunBudget:  cfg.Scheduler.RunBudget,
			RunLockTTL: cfg.Scheduler.RunLockTTL,
		},
	)

	return a, nil
}

func connectRedis(ctx context.Context, cfg *config.RedisConfig) (*redis.Client, error) {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
	if cfg.TLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	if err := redisotel.InstrumentTracing(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis tracing: %w", err)
	}
	if err := redisotel.InstrumentMetrics(client); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to instrument redis metrics: %w", err)
	}
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect redis: %w", err)
	}

	slog.InfoContext(ctx, "redis connected",
		slog.String("addr", cfg.Addr),
	)

	return client, nil
}

// Close releases everything New opened. It is safe on a partially built App.
func (a *App) Close() {
	var errs []error

	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			errs = append(errs, fmt.Errorf("schedule result recorder: %w", err))
		}
	}
	if a.Redis != nil {
		if err := a.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis: %w", err))
		}
	}
	if a.DB != nil {
		if sqlDB, err := a.DB.DB(); err == nil {
			if err := sqlDB.Close(); err != nil {
				errs = append(errs, fmt.Errorf("database: %w", err))
			}
		}
	}

	if err := errors.Join(errs...); err != nil {
		slog.Warn("failed to close resources", slog.String("error", err.Error()))
	}
}
