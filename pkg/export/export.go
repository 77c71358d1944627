// Package export renders computed building load schedules as files.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/schedule"
)

// Format is an output file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatIDF  Format = "idf"
	FormatHTML Format = "html"
)

// Formats lists the supported formats.
var Formats = []Format{FormatJSON, FormatCSV, FormatIDF, FormatHTML}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown output format %q", model.ErrConfiguration, s)
}

// Write renders env in format f.
func Write(w io.Writer, f Format, env schedule.Envelope) error {
	switch f {
	case FormatJSON:
		return WriteJSON(w, env)
	case FormatCSV:
		return WriteCSV(w, env.Load)
	case FormatIDF:
		return WriteIDF(w, env.Load)
	case FormatHTML:
		return WriteHTML(w, env.Load)
	default:
		return fmt.Errorf("%w: unknown output format %q", model.ErrConfiguration, f)
	}
}

// WriteJSON writes the envelope as indented JSON.
func WriteJSON(w io.Writer, env schedule.Envelope) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(env)
}

// WriteCSV writes one row per slot with the normalized value of each day
// type and the resulting power in kW.
func WriteCSV(w io.Writer, load schedule.BuildingLoad) error {
	cw := csv.NewWriter(w)
	header := []string{"slot", "until"}
	for _, d := range model.DayTypes {
		header = append(header, d.String())
	}
	for _, d := range model.DayTypes {
		header = append(header, d.String()+"_kw")
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	slots := 0
	for _, d := range model.DayTypes {
		slots = max(slots, len(load.Days.Get(d).Points))
	}
	for i := 0; i < slots; i++ {
		rec := []string{strconv.Itoa(i), schedule.Point{Offset: schedule.SlotWidth * time.Duration(i+1)}.Until()}
		for _, d := range model.DayTypes {
			rec = append(rec, cell(load.Days.Get(d).Points, i, 1))
		}
		for _, d := range model.DayTypes {
			rec = append(rec, cell(load.Days.Get(d).Points, i, load.PeakKW))
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func cell(pts []schedule.Point, i int, scale float64) string {
	if i >= len(pts) {
		return ""
	}
	return formatFloat(pts[i].Value * scale)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
