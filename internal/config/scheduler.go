package config

import (
	"os"
	"strconv"
	"time"
)

const (
	schedulerTimezoneEnv = "SCHEDULER_TIMEZONE"
	minSpacingMinutesEnv = "MIN_SPACING_MINUTES"
	schedulerWorkersEnv  = "SCHEDULER_WORKERS"
	runBudgetSecondsEnv  = "RUN_BUDGET_SECONDS"
	runLockTTLSecondsEnv = "RUN_LOCK_TTL_SECONDS"

	defaultSchedulerTimezone = "Europe/Warsaw"
	defaultMinSpacingMinutes = 90
	defaultSchedulerWorkers  = 4
	defaultRunBudgetSeconds  = 600
	defaultRunLockTTLSeconds = 900
)

type SchedulerConfig struct {
	Timezone   string
	Location   *time.Location
	MinSpacing time.Duration
	Workers    int
	RunBudget  time.Duration
	RunLockTTL time.Duration
}

func LoadSchedulerConfig() (*SchedulerConfig, error) {
	timezone := os.Getenv(schedulerTimezoneEnv)
	if timezone == "" {
		timezone = defaultSchedulerTimezone
	}

	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, ErrInvalidTimezone
	}

	spacing := defaultMinSpacingMinutes
	if v := os.Getenv(minSpacingMinutesEnv); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed <= 0 {
			return nil, ErrInvalidSpacing
		}
		spacing = parsed
	}

	workers := defaultSchedulerWorkers
	if v := os.Getenv(schedulerWorkersEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			workers = parsed
		}
	}

	budget := defaultRunBudgetSeconds
	if v := os.Getenv(runBudgetSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			budget = parsed
		}
	}

	lockTTL := defaultRunLockTTLSeconds
	if v := os.Getenv(runLockTTLSecondsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			lockTTL = parsed
		}
	}

	return &SchedulerConfig{
		Timezone:   timezone,
		Location:   loc,
		MinSpacing: time.Duration(spacing) * time.Minute,
		Workers:    workers,
		RunBudget:  time.Duration(budget) * time.Second,
		RunLockTTL: time.Duration(lockTTL) * time.Second,
	}, nil
}

func (c *SchedulerConfig) Validate() error {
	if c.RunLockTTL < c.RunBudget {
		return ErrLockTTLShorterBudget
	}
	return nil
}
