package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/schedule"
)

// idfWriter emits EnergyPlus input objects. Each object is a class line
// followed by comma separated fields, the last one closed by a semicolon.
type idfWriter struct {
	w   *bufio.Writer
	err error
}

type field struct {
	value, comment string
}

func (iw *idfWriter) object(class string, fields ...field) {
	if iw.err != nil {
		return
	}
	_, iw.err = fmt.Fprintf(iw.w, "%s,\n", class)
	for i, f := range fields {
		if iw.err != nil {
			return
		}
		sep := ","
		if i == len(fields)-1 {
			sep = ";"
		}
		_, iw.err = fmt.Fprintf(iw.w, "    %-30s !- %s\n", f.value+sep, f.comment)
	}
	if iw.err == nil {
		_, iw.err = iw.w.WriteString("\n")
	}
}

// WriteIDF writes the building load as EnergyPlus objects: the fraction
// type limits, one Schedule:Day:Interval per day type, the week and year
// schedules binding them, and the Exterior:FuelEquipment drawing the load.
// Every day must run until 24:00, otherwise nothing is written.
func WriteIDF(w io.Writer, load schedule.BuildingLoad) error {
	for _, d := range model.DayTypes {
		pts := load.Days.Get(d).Points
		if len(pts) == 0 || pts[len(pts)-1].Offset != schedule.DayLength {
			end := "00:00"
			if len(pts) > 0 {
				end = pts[len(pts)-1].Until()
			}
			return fmt.Errorf("%w: %s schedule ends at %s, EnergyPlus needs Until: 24:00", model.ErrFormat, d, end)
		}
	}
	iw := &idfWriter{w: bufio.NewWriter(w)}
	rs := load.Ruleset

	iw.object("ScheduleTypeLimits",
		field{rs.TypeLimits, "Name"},
		field{"0", "Lower Limit Value"},
		field{"1", "Upper Limit Value"},
		field{"Continuous", "Numeric Type"},
	)

	for _, d := range model.DayTypes {
		day := load.Days.Get(d)
		fields := []field{
			{day.Name, "Name"},
			{rs.TypeLimits, "Schedule Type Limits Name"},
			{"No", "Interpolate to Timestep"},
		}
		for i, p := range day.Points {
			fields = append(fields,
				field{"Until: " + p.Until(), fmt.Sprintf("Time %d", i+1)},
				field{formatFloat(p.Value), fmt.Sprintf("Value Until Time %d", i+1)},
			)
		}
		iw.object("Schedule:Day:Interval", fields...)
	}

	week := rs.Name + " Week"
	wf := []field{{week, "Name"}, {"For: Weekdays", "DayType List 1"}, {rs.Default, "Schedule:Day Name 1"}}
	n := 2
	add := func(days, sched string) {
		wf = append(wf,
			field{"For: " + days, fmt.Sprintf("DayType List %d", n)},
			field{sched, fmt.Sprintf("Schedule:Day Name %d", n)},
		)
		n++
	}
	for _, r := range rs.Rules {
		add(weekdayList(r.Weekdays), r.Schedule)
	}
	add("SummerDesignDay", rs.SummerDesign)
	add("WinterDesignDay", rs.WinterDesign)
	add("AllOtherDays", rs.Default)
	iw.object("Schedule:Week:Compact", wf...)

	iw.object("Schedule:Year",
		field{rs.Name, "Name"},
		field{rs.TypeLimits, "Schedule Type Limits Name"},
		field{week, "Schedule:Week Name 1"},
		field{"1", "Start Month 1"},
		field{"1", "Start Day 1"},
		field{"12", "End Month 1"},
		field{"31", "End Day 1"},
	)

	eq := load.Equipment
	iw.object("Exterior:FuelEquipment",
		field{eq.Name, "Name"},
		field{eq.Fuel, "Fuel Use Type"},
		field{eq.Schedule, "Schedule Name"},
		field{formatFloat(eq.DesignLevelW), "Design Level {W}"},
		field{eq.EndUse, "End-Use Subcategory"},
	)

	if iw.err != nil {
		return iw.err
	}
	return iw.w.Flush()
}

func weekdayList(days []time.Weekday) string {
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()
	}
	return strings.Join(names, " ")
}
