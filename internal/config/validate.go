package config

import "errors"

// ValidateForRun checks everything the server and the CLI need before touching a store.
func ValidateForRun(cfg *Config) error {
	var errs []error

	if err := cfg.Database.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Redis.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := cfg.Scheduler.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}
