package domain

import "errors"

var (
	ErrRunAlreadyCompleted = errors.New("schedule run already completed")
	ErrRunInProgress       = errors.New("schedule run in progress")
	ErrRunNotFound         = errors.New("schedule run not found")
	ErrNoMealWindows       = errors.New("user has no meal windows")
	ErrInvalidMealWindow   = errors.New("invalid meal window")
	ErrInvalidWeekKey      = errors.New("invalid week key")
)
