package config

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/scheduler")
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Port = %s, want 8080", cfg.Port)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v, want info", cfg.LogLevel)
	}
	if cfg.Database.Driver != DriverPostgres {
		t.Errorf("Database.Driver = %s, want postgres", cfg.Database.Driver)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("Database.MaxOpenConns = %d, want 10", cfg.Database.MaxOpenConns)
	}
	if cfg.Scheduler.MinSpacing != 90*time.Minute {
		t.Errorf("Scheduler.MinSpacing = %v, want 90m", cfg.Scheduler.MinSpacing)
	}
	if cfg.Scheduler.Workers != 4 {
		t.Errorf("Scheduler.Workers = %d, want 4", cfg.Scheduler.Workers)
	}
	if cfg.Scheduler.RunBudget != 600*time.Second || cfg.Scheduler.RunLockTTL != 900*time.Second {
		t.Errorf("budget/ttl = %v/%v, want 10m/15m", cfg.Scheduler.RunBudget, cfg.Scheduler.RunLockTTL)
	}
	if err := ValidateForRun(cfg); err != nil {
		t.Errorf("ValidateForRun() error = %v", err)
	}
}

func TestLoad_InvalidOptionalValuesFallBack(t *testing.T) {
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")
	t.Setenv("SCHEDULER_WORKERS", "many")
	t.Setenv("RUN_BUDGET_SECONDS", "-5")
	t.Setenv("DATABASE_MAX_OPEN_CONNS", "zero")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Scheduler.Workers != 4 {
		t.Errorf("Workers = %d, want default 4", cfg.Scheduler.Workers)
	}
	if cfg.Scheduler.RunBudget != 600*time.Second {
		t.Errorf("RunBudget = %v, want default", cfg.Scheduler.RunBudget)
	}
	if cfg.Database.MaxOpenConns != 10 {
		t.Errorf("MaxOpenConns = %d, want default 10", cfg.Database.MaxOpenConns)
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr error
	}{
		{
			name:    "unknown timezone",
			env:     map[string]string{"SCHEDULER_TIMEZONE": "Mars/Olympus_Mons"},
			wantErr: ErrInvalidTimezone,
		},
		{
			name:    "non-numeric spacing",
			env:     map[string]string{"SCHEDULER_TIMEZONE": "UTC", "MIN_SPACING_MINUTES": "ninety"},
			wantErr: ErrInvalidSpacing,
		},
		{
			name:    "unsupported driver",
			env:     map[string]string{"SCHEDULER_TIMEZONE": "UTC", "DATABASE_DRIVER": "mysql"},
			wantErr: ErrUnsupportedDBDriver,
		},
		{
			name:    "invalid redis db",
			env:     map[string]string{"SCHEDULER_TIMEZONE": "UTC", "REDIS_DB": "first"},
			wantErr: ErrInvalidRedisDB,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(); !errors.Is(err, tt.wantErr) {
				t.Errorf("Load() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateForRun(t *testing.T) {
	t.Setenv("SCHEDULER_TIMEZONE", "UTC")
	t.Setenv("RUN_BUDGET_SECONDS", "1000")
	t.Setenv("RUN_LOCK_TTL_SECONDS", "100")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	err = ValidateForRun(cfg)
	if !errors.Is(err, ErrDatabaseURLMissing) {
		t.Errorf("ValidateForRun() = %v, want ErrDatabaseURLMissing", err)
	}
	if !errors.Is(err, ErrLockTTLShorterBudget) {
		t.Errorf("ValidateForRun() = %v, want ErrLockTTLShorterBudget", err)
	}
}

func TestRedisConfig_DisabledSkipsAddr(t *testing.T) {
	cfg := &RedisConfig{Disabled: true}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v, want nil when disabled", err)
	}
}
