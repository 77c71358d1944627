package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/runlog"
)

func setupWorkspace(t *testing.T) (cfgFile, dir string) {
	t.Helper()
	dir = t.TempDir()
	// two active slots, then idle until midnight
	idle := strings.Repeat("0,0\n", 94)
	files := map[string]string{
		"chg1_dow1_flex1.csv": "a,b\n10,30\n20,20\n" + idle,
		"chg1_dow2_flex1.csv": "a,b\n5,15\n5,15\n" + idle,
		"chg1_dow3_flex1.csv": "a,b\n60,0\n0,0\n" + idle,
		"cohorts.yaml":        "home: [0, 1]\n",
	}
	for name, data := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644))
	}
	cfg := fmt.Sprintf(`profiles:
  dir: %q
  skip_header: true
charging:
  station_type: home
  ev_percent: 50
  cohorts_file: %q
output:
  path: %q
runlog:
  path: %q
`, dir, filepath.Join(dir, "cohorts.yaml"), filepath.Join(dir, "out.json"), filepath.Join(dir, "runs.jsonl"))
	cfgFile = filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(cfg), 0o644))
	return cfgFile, dir
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScheduleAndRunsCommands(t *testing.T) {
	cfgFile, dir := setupWorkspace(t)

	_, err := execute(t, "schedule", "-c", cfgFile)
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "out.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"peak_kw": 30`)

	_, err = execute(t, "schedule", "-c", cfgFile, "--ev-percent", "101")
	require.ErrorIs(t, err, model.ErrRange)

	_, err = execute(t, "schedule", "-c", cfgFile, "--ev-percent", "25", "--format", "idf", "-o", filepath.Join(dir, "out.idf"))
	require.NoError(t, err)
	idf, err := os.ReadFile(filepath.Join(dir, "out.idf"))
	require.NoError(t, err)
	assert.Contains(t, string(idf), "Exterior:FuelEquipment,")
	assert.Contains(t, string(idf), "Until: 24:00,")

	out, err := execute(t, "runs", "-c", cfgFile, "--json", "--limit", "10")
	require.NoError(t, err)
	var recs []runlog.RunRecord
	require.NoError(t, json.Unmarshal([]byte(out), &recs))
	require.Len(t, recs, 2)
	assert.Equal(t, 15.0, recs[1].PeakKW)
}

func TestPrintRuns(t *testing.T) {
	var buf bytes.Buffer
	ts := time.Date(2025, 4, 2, 9, 0, 0, 0, time.UTC)
	require.NoError(t, printRuns(&buf, []runlog.RunRecord{
		{ID: "r1", Timestamp: ts, Family: "BAU/MinDelay", Station: model.StationHome, EVPercent: 50, Status: "ok", PeakKW: 12},
	}))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], "TIME"))
	assert.Contains(t, lines[1], "2025-04-02T09:00:00Z")
	assert.Contains(t, lines[1], "12.000")
}

func TestPlanCommand(t *testing.T) {
	cfgFile, dir := setupWorkspace(t)
	out := filepath.Join(dir, "plan.csv")

	_, err := execute(t, "plan", "-c", cfgFile, "--from", "2025-01-10", "--days", "2", "--format", "csv", "-o", out)
	require.NoError(t, err)
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1+2*96)
	assert.True(t, strings.HasPrefix(lines[1], "2025-01-10T00:00:00Z,weekday,"))
	assert.True(t, strings.HasPrefix(lines[97], "2025-01-11T00:00:00Z,saturday,"))

	_, err = execute(t, "plan", "-c", cfgFile, "--from", "10/01/2025")
	require.ErrorIs(t, err, model.ErrConfiguration)
}
