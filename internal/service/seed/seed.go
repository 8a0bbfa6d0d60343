// Package seed builds meal windows from a YAML description, by default the
// embedded set every new user starts with.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/KasumiMercury/primind-measurement-scheduler/internal/domain"
	"github.com/KasumiMercury/primind-measurement-scheduler/internal/infra/repository"
)

//go:embed defaults.yaml
var defaultsYAML []byte

var ErrEmptySeed = errors.New("seed file defines no meal windows")

type File struct {
	Windows []WindowSpec `yaml:"windows"`
}

type WindowSpec struct {
	Days            []int  `yaml:"days"`
	MeasurementType string `yaml:"measurement_type"`
	MealNumber      *int   `yaml:"meal_number"`
	Start           string `yaml:"start"`
	End             string `yaml:"end"`
}

// Parse decodes a seed file. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode seed file: %w", err)
	}
	if len(f.Windows) == 0 {
		return nil, ErrEmptySeed
	}
	return &f, nil
}

func Defaults() (*File, error) {
	return Parse(defaultsYAML)
}

// ForUser expands the file into validated meal windows for userID, one per
// listed day. IDs are left empty for the store to assign.
func (f *File) ForUser(userID string) ([]domain.MealWindow, error) {
	windows := make([]domain.MealWindow, 0, len(f.Windows)*7)

	for i, entry := range f.Windows {
		start, err := repository.ParseTimeOfDay(entry.Start)
		if err != nil {
			return nil, fmt.Errorf("window %d start: %w", i, err)
		}
		end, err := repository.ParseTimeOfDay(entry.End)
		if err != nil {
			return nil, fmt.Errorf("window %d end: %w", i, err)
		}

		days := entry.Days
		if len(days) == 0 {
			days = []int{0, 1, 2, 3, 4, 5, 6}
		}

		for _, day := range days {
			w := domain.MealWindow{
				UserID:          userID,
				DayOfWeek:       day,
				MeasurementType: domain.MeasurementType(entry.MeasurementType),
				MealNumber:      entry.MealNumber,
				StartMinute:     start,
				EndMinute:       end,
			}
			if err := w.Validate(); err != nil {
				return nil, fmt.Errorf("window %d: %w", i, err)
			}
			windows = append(windows, w)
		}
	}

	return windows, nil
}
