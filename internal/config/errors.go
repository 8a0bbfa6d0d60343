package config

import "errors"

var (
	ErrRedisAddrMissing     = errors.New("REDIS_ADDR is required")
	ErrInvalidRedisDB       = errors.New("REDIS_DB must be a valid integer")
	ErrDatabaseURLMissing   = errors.New("DATABASE_URL is required")
	ErrUnsupportedDBDriver  = errors.New("DATABASE_DRIVER must be postgres or sqlite")
	ErrInvalidTimezone      = errors.New("SCHEDULER_TIMEZONE must name a loadable IANA zone")
	ErrInvalidSpacing       = errors.New("MIN_SPACING_MINUTES must be a positive integer")
	ErrLockTTLShorterBudget = errors.New("RUN_LOCK_TTL_SECONDS must not be shorter than RUN_BUDGET_SECONDS")
)
