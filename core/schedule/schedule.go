package schedule

import (
	"fmt"
	"time"

	"github.com/kilianp07/evload/core/model"
)

const (
	// SlotWidth is the duration covered by one profile value.
	SlotWidth = 15 * time.Minute
	// DayLength bounds the time axis of a day schedule.
	DayLength = 24 * time.Hour
	// FuelElectricity is the fuel type of the charging equipment.
	FuelElectricity = "Electricity"
	// EndUseEVCharging is the end-use subcategory of the charging equipment.
	EndUseEVCharging = "EV Charging"
)

// Point is one step of a day schedule. Value holds from the previous point's
// offset (or midnight) until Offset.
type Point struct {
	Offset time.Duration `json:"offset"`
	Value  float64       `json:"value"`
}

// Until formats Offset as HH:MM, with the end of day rendered as 24:00.
func (p Point) Until() string {
	m := int(p.Offset / time.Minute)
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// DaySchedule is the interval schedule of one day type.
type DaySchedule struct {
	Name   string        `json:"name"`
	Day    model.DayType `json:"day_type"`
	Points []Point       `json:"points"`
}

// Values returns the point values in slot order.
func (d DaySchedule) Values() []float64 {
	out := make([]float64, len(d.Points))
	for i, p := range d.Points {
		out[i] = p.Value
	}
	return out
}

// Rule applies a day schedule on specific days of the week.
type Rule struct {
	Name     string         `json:"name"`
	Weekdays []time.Weekday `json:"weekdays"`
	Schedule string         `json:"schedule"`
}

// Ruleset binds day schedules to the default day, rule overrides and the
// design days.
type Ruleset struct {
	Name         string `json:"name"`
	Default      string `json:"default"`
	SummerDesign string `json:"summer_design_day"`
	WinterDesign string `json:"winter_design_day"`
	Rules        []Rule `json:"rules"`
	TypeLimits   string `json:"type_limits"`
}

// Equipment is the exterior fuel equipment drawing PeakLoad(W) × schedule.
type Equipment struct {
	Name         string  `json:"name"`
	Fuel         string  `json:"fuel"`
	Schedule     string  `json:"schedule"`
	DesignLevelW float64 `json:"design_level_w"`
	EndUse       string  `json:"end_use"`
}

// BuildingLoad is the complete input handed to the building model.
type BuildingLoad struct {
	Days      model.ByDay[DaySchedule] `json:"days"`
	Ruleset   Ruleset                  `json:"ruleset"`
	Equipment Equipment                `json:"equipment"`
	PeakKW    float64                  `json:"peak_kw"`
}

// PowerAt returns the power draw in watts of the equipment on day at slot.
func (b BuildingLoad) PowerAt(day model.DayType, slot int) (float64, error) {
	pts := b.Days.Get(day).Points
	if slot < 0 || slot >= len(pts) {
		return 0, fmt.Errorf("slot %d outside %d points", slot, len(pts))
	}
	return b.Equipment.DesignLevelW * pts[slot].Value, nil
}

// Schedule returns the day schedule referenced by name.
func (b BuildingLoad) Schedule(name string) (DaySchedule, bool) {
	for _, d := range model.DayTypes {
		if s := b.Days.Get(d); s.Name == name {
			return s, true
		}
	}
	return DaySchedule{}, false
}

// Points maps a normalized sequence onto right-aligned slots: value i holds
// until (i+1)×SlotWidth. Order and length are preserved.
func Points(values []float64) ([]Point, error) {
	if time.Duration(len(values))*SlotWidth > DayLength {
		return nil, fmt.Errorf("%w: %d slots exceed one day", model.ErrFormat, len(values))
	}
	pts := make([]Point, len(values))
	for i, v := range values {
		pts[i] = Point{Offset: time.Duration(i+1) * SlotWidth, Value: v}
	}
	return pts, nil
}

// Build assembles the building load named name from normalized day shapes and
// the peak in kW. Weekday is reused as default and summer design day, Sunday
// as winter design day.
func Build(name string, normalized model.ByDay[[]float64], peakKW float64) (BuildingLoad, error) {
	if peakKW <= 0 {
		return BuildingLoad{}, fmt.Errorf("%w: peak load %v", model.ErrDegenerateInput, peakKW)
	}
	days, err := model.MapDays(normalized, func(d model.DayType, v []float64) (DaySchedule, error) {
		pts, err := Points(v)
		if err != nil {
			return DaySchedule{}, fmt.Errorf("%s: %w", d, err)
		}
		return DaySchedule{Name: fmt.Sprintf("%s %s", name, title(d)), Day: d, Points: pts}, nil
	})
	if err != nil {
		return BuildingLoad{}, err
	}
	rs := Ruleset{
		Name:         name,
		Default:      days.Weekday.Name,
		SummerDesign: days.Weekday.Name,
		WinterDesign: days.Sunday.Name,
		TypeLimits:   "Fraction",
		Rules: []Rule{
			{Name: name + " Saturday Rule", Weekdays: []time.Weekday{time.Saturday}, Schedule: days.Saturday.Name},
			{Name: name + " Sunday Rule", Weekdays: []time.Weekday{time.Sunday}, Schedule: days.Sunday.Name},
		},
	}
	return BuildingLoad{
		Days:    days,
		Ruleset: rs,
		Equipment: Equipment{
			Name:         name,
			Fuel:         FuelElectricity,
			Schedule:     rs.Name,
			DesignLevelW: peakKW * 1000,
			EndUse:       EndUseEVCharging,
		},
		PeakKW: peakKW,
	}, nil
}

// DayFor resolves which day schedule applies on weekday w.
func (r Ruleset) DayFor(w time.Weekday) string {
	for _, rule := range r.Rules {
		for _, rw := range rule.Weekdays {
			if rw == w {
				return rule.Schedule
			}
		}
	}
	return r.Default
}

func title(d model.DayType) string {
	switch d {
	case model.Weekday:
		return "Weekday"
	case model.Saturday:
		return "Saturday"
	default:
		return "Sunday"
	}
}
