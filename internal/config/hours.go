package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"trattoria/internal/schedule"
)

// HoursConfig is the root of hours.yaml: the weekly opening schedule,
// Monday first.
type HoursConfig struct {
	Week []schedule.DayHours `yaml:"week"`
}

// LoadHoursConfig loads and validates the weekly schedule from YAML.
func LoadHoursConfig(path string) (*HoursConfig, error) {
	if path == "" {
		path = "configs/hours.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read hours config: %w", err)
	}

	var cfg HoursConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse hours config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate hours config: %w", err)
	}

	return &cfg, nil
}

// Validate checks the schedule shape. Unparsable hours strings are not an
// error here: the resolver treats them as closed days.
func (c *HoursConfig) Validate() error {
	if len(c.Week) != 7 {
		return fmt.Errorf("week must have exactly 7 entries, got %d", len(c.Week))
	}
	for i, day := range c.Week {
		if day.Day == "" {
			return fmt.Errorf("week[%d]: missing day label", i)
		}
	}
	return nil
}

// Schedule converts the config into the resolver's weekly schedule.
// Callers must have validated the week length first.
func (c *HoursConfig) Schedule() schedule.WeeklySchedule {
	var week schedule.WeeklySchedule
	copy(week[:], c.Week)
	return week
}
