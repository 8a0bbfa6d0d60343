package repository

import "errors"

var (
	ErrDatabaseConnection = errors.New("database connection error")
	ErrInvalidReadingData = errors.New("invalid reading data")
	ErrInvalidTimeOfDay   = errors.New("invalid time of day")
)
