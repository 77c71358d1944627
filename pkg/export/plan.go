package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/scheduler"
)

// WritePlan renders a dated plan. Only JSON and CSV apply to plans.
func WritePlan(w io.Writer, f Format, plan []scheduler.Entry) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(plan)
	case FormatCSV:
		return writePlanCSV(w, plan)
	default:
		return fmt.Errorf("%w: format %q does not apply to plans", model.ErrConfiguration, f)
	}
}

func writePlanCSV(w io.Writer, plan []scheduler.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"timeslot", "day_type", "fraction", "power_kw"}); err != nil {
		return err
	}
	for _, e := range plan {
		rec := []string{e.TimeSlot.Format(time.RFC3339), e.Day.String(), formatFloat(e.Fraction), formatFloat(e.PowerKW)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
