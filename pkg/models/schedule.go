package models

import (
	"errors"
	"fmt"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule is returned when an automation schedule is not a valid cron expression.
var ErrInvalidSchedule = errors.New("invalid schedule expression")

// Standard 5-field cron format (minute hour day month weekday), plus descriptors like @daily.
var scheduleParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)

// ParseSchedule parses a cron expression.
func ParseSchedule(expression string) (cron.Schedule, error) {
	schedule, err := scheduleParser.Parse(expression)
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrInvalidSchedule, expression, err)
	}

	return schedule, nil
}
