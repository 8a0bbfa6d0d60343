package repository

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/config"
)

// Open connects to the configured database. SQLite is meant for local runs and tests.
func Open(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case config.DriverPostgres:
		dialector = postgres.Open(cfg.URL)
	case config.DriverSQLite:
		dialector = sqlite.Open(cfg.URL)
	default:
		return nil, fmt.Errorf("%w: %s", config.ErrUnsupportedDBDriver, cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseConnection, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDatabaseConnection, err)
	}
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)

	return db, nil
}

// AutoMigrate creates or updates every table the scheduler reads and writes.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&readingModel{},
		&mealWindowModel{},
		&scheduleModel{},
		&runModel{},
	)
}
