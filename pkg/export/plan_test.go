package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/scheduler"
)

func testPlan() []scheduler.Entry {
	t0 := time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)
	return []scheduler.Entry{
		{TimeSlot: t0, Day: model.Saturday, Schedule: "EV Saturday", Fraction: 0.5, PowerKW: 21},
		{TimeSlot: t0.Add(15 * time.Minute), Day: model.Saturday, Schedule: "EV Saturday", Fraction: 1, PowerKW: 42},
	}
}

func TestWritePlanCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, FormatCSV, testPlan()))
	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"timeslot", "day_type", "fraction", "power_kw"}, rows[0])
	assert.Equal(t, []string{"2025-01-11T00:15:00Z", "saturday", "1", "42"}, rows[2])
}

func TestWritePlanJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePlan(&buf, FormatJSON, testPlan()))
	var out []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "saturday", out[0]["day_type"])
	assert.InDelta(t, 21.0, out[0]["power_kw"], 1e-9)
}

func TestWritePlanRejectsScheduleFormats(t *testing.T) {
	err := WritePlan(&bytes.Buffer{}, FormatIDF, testPlan())
	require.ErrorIs(t, err, model.ErrConfiguration)
}
