package config

import (
	"os"
	"strconv"
)

const (
	databaseDriverEnv       = "DATABASE_DRIVER"
	databaseURLEnv          = "DATABASE_URL"
	databaseMaxOpenConnsEnv = "DATABASE_MAX_OPEN_CONNS"

	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultDatabaseMaxOpenConns = 10
)

type DatabaseConfig struct {
	Driver       string
	URL          string
	MaxOpenConns int
}

func LoadDatabaseConfig() (*DatabaseConfig, error) {
	driver := os.Getenv(databaseDriverEnv)
	if driver == "" {
		driver = DriverPostgres
	}
	if driver != DriverPostgres && driver != DriverSQLite {
		return nil, ErrUnsupportedDBDriver
	}

	maxOpen := defaultDatabaseMaxOpenConns
	if v := os.Getenv(databaseMaxOpenConnsEnv); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			maxOpen = parsed
		}
	}

	return &DatabaseConfig{
		Driver:       driver,
		URL:          os.Getenv(databaseURLEnv),
		MaxOpenConns: maxOpen,
	}, nil
}

func (c *DatabaseConfig) Validate() error {
	if c == nil || c.URL == "" {
		return ErrDatabaseURLMissing
	}
	return nil
}
