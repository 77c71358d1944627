package scheduler

import (
	"fmt"
	"time"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/schedule"
)

// Entry is the charging draw during one slot of the plan.
type Entry struct {
	TimeSlot time.Time     `json:"timeslot"`
	Day      model.DayType `json:"day_type"`
	Schedule string        `json:"schedule"`
	Fraction float64       `json:"fraction"`
	PowerKW  float64       `json:"power_kw"`
}

// Scheduler generates dated plans from a building load.
type Scheduler struct {
	Load     schedule.BuildingLoad
	Location *time.Location
}

// GeneratePlan builds the plan for days consecutive days starting at the
// midnight of start in the scheduler location. It returns one entry per
// slot in chronological order.
func (s *Scheduler) GeneratePlan(start time.Time, days int) ([]Entry, error) {
	if days <= 0 {
		return nil, fmt.Errorf("%w: plan length %d days", model.ErrConfiguration, days)
	}
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	start = start.In(loc)
	startOfDay := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, loc)

	var entries []Entry
	for i := 0; i < days; i++ {
		// AddDate keeps wall-clock midnight across DST changes.
		date := startOfDay.AddDate(0, 0, i)
		name := s.Load.Ruleset.DayFor(date.Weekday())
		day, ok := s.Load.Schedule(name)
		if !ok {
			return nil, fmt.Errorf("%w: ruleset references unknown day schedule %q", model.ErrFormat, name)
		}
		var from time.Duration
		for _, p := range day.Points {
			entries = append(entries, Entry{
				TimeSlot: date.Add(from),
				Day:      day.Day,
				Schedule: day.Name,
				Fraction: p.Value,
				PowerKW:  p.Value * s.Load.PeakKW,
			})
			from = p.Offset
		}
	}
	return entries, nil
}

// EnergyKWh returns the energy drawn over the plan, each entry lasting one
// slot.
func EnergyKWh(entries []Entry) float64 {
	total := 0.0
	for _, e := range entries {
		total += e.PowerKW * schedule.SlotWidth.Hours()
	}
	return total
}
