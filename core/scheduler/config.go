package scheduler

import (
	"fmt"
	"time"

	"github.com/kilianp07/evload/core/model"
)

// DateLayout is the format of Config.Start.
const DateLayout = "2006-01-02"

// Config defines the calendar window of a plan.
type Config struct {
	// Start is the first day, YYYY-MM-DD. Empty means today.
	Start    string `json:"start" yaml:"start"`
	Days     int    `json:"days" yaml:"days"`
	Timezone string `json:"timezone" yaml:"timezone"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Days == 0 {
		c.Days = 7
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
}

// Validate checks the window without resolving an empty start.
func (c Config) Validate() error {
	_, _, err := c.Window(time.Time{})
	return err
}

// Window resolves the first day and the location. An empty Start uses now.
func (c Config) Window(now time.Time) (time.Time, *time.Location, error) {
	if c.Days <= 0 {
		return time.Time{}, nil, fmt.Errorf("%w: plan days must be positive, got %d", model.ErrConfiguration, c.Days)
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: timezone %q: %v", model.ErrConfiguration, c.Timezone, err)
	}
	if c.Start == "" {
		return now.In(loc), loc, nil
	}
	start, err := time.ParseInLocation(DateLayout, c.Start, loc)
	if err != nil {
		return time.Time{}, nil, fmt.Errorf("%w: plan start %q", model.ErrConfiguration, c.Start)
	}
	return start, loc, nil
}
