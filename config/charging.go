package config

import (
	"fmt"
	"math"

	"github.com/kilianp07/evload/core/aggregate"
	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/pipeline"
)

// ChargingConfig holds the default request of batch runs and the base of
// every API request.
type ChargingConfig struct {
	Behavior    string  `json:"behavior"`
	Flexibility string  `json:"flexibility"`
	StationType string  `json:"station_type"`
	EVPercent   float64 `json:"ev_percent"`
	// AssumedPercent is the adoption rate the profiles were generated under.
	AssumedPercent float64 `json:"assumed_percent"`
	// CohortsFile optionally replaces the bundled cohort table.
	CohortsFile  string `json:"cohorts_file"`
	ScheduleName string `json:"schedule_name"`
}

// SetDefaults applies sane defaults.
func (c *ChargingConfig) SetDefaults() {
	if c.Behavior == "" {
		c.Behavior = model.BehaviorBAU.String()
	}
	if c.Flexibility == "" {
		c.Flexibility = model.FlexMinDelay.String()
	}
	if c.StationType == "" {
		c.StationType = string(model.StationHome)
	}
	if c.AssumedPercent == 0 {
		c.AssumedPercent = aggregate.AssumedPercent
	}
	if c.ScheduleName == "" {
		c.ScheduleName = pipeline.DefaultScheduleName
	}
}

// Validate checks the categories and the adoption percentages.
func (c ChargingConfig) Validate() error {
	_, err := c.Request()
	return err
}

// Request converts the section into a validated pipeline request.
func (c ChargingConfig) Request() (pipeline.Request, error) {
	b, err := model.ParseChargeBehavior(c.Behavior)
	if err != nil {
		return pipeline.Request{}, err
	}
	f, err := model.ParseFlexibility(c.Flexibility)
	if err != nil {
		return pipeline.Request{}, err
	}
	st, err := model.ParseStationType(c.StationType)
	if err != nil {
		return pipeline.Request{}, err
	}
	if math.IsNaN(c.AssumedPercent) || c.AssumedPercent <= 0 {
		return pipeline.Request{}, fmt.Errorf("%w: assumed_percent %v must be positive", model.ErrConfiguration, c.AssumedPercent)
	}
	req := pipeline.Request{
		Family:         model.ProfileFamilyKey{Behavior: b, Flexibility: f},
		Station:        st,
		EVPercent:      c.EVPercent,
		AssumedPercent: c.AssumedPercent,
	}
	if err := req.Validate(); err != nil {
		return pipeline.Request{}, err
	}
	return req, nil
}
