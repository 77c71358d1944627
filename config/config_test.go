package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/evload/core/model"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `profiles:
  source: dir
  dir: "./data"
  skip_header: true
  delimiter: ";"
charging:
  behavior: FreeSiteCharging
  flexibility: "2"
  station_type: work
  ev_percent: 30
  cohorts_file: cohorts.yaml
output:
  format: idf
  path: out.idf
publishers:
  - type: mqtt
    conf:
      broker: "tcp://localhost:1883"
      topic: "evload/{station}"
metrics:
  sinks:
    - type: "nop"
runlog:
  backend: sqlite
server:
  addr: ":9000"
  read_timeout: 5s
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"profiles.dir", cfg.Profiles.Dir, "./data"},
		{"profiles.skip_header", cfg.Profiles.SkipHeader, true},
		{"profiles.comma", cfg.Profiles.Comma(), ';'},
		{"charging.station_type", cfg.Charging.StationType, "work"},
		{"charging.ev_percent", cfg.Charging.EVPercent, 30.0},
		{"charging.assumed_percent", cfg.Charging.AssumedPercent, 50.0},
		{"charging.cohorts_file", cfg.Charging.CohortsFile, "cohorts.yaml"},
		{"output.format", cfg.Output.Format, "idf"},
		{"publishers", len(cfg.Publishers) == 1 && cfg.Publishers[0].Type == "mqtt", true},
		{"publisher.topic", cfg.Publishers[0].Conf["topic"], "evload/{station}"},
		{"metrics_sink", len(cfg.Metrics.Sinks) == 1 && cfg.Metrics.Sinks[0].Type == "nop", true},
		{"runlog.path", cfg.RunLog.Path, "runs.db"},
		{"server.addr", cfg.Server.Addr, ":9000"},
		{"server.read_timeout", cfg.Server.ReadTimeout, 5 * time.Second},
		{"server.write_timeout", cfg.Server.WriteTimeout, 30 * time.Second},
	}
	for _, c := range checks {
		assert.Equal(t, c.want, c.got, c.name)
	}

	req, err := cfg.Charging.Request()
	require.NoError(t, err)
	assert.Equal(t, model.BehaviorFreeSiteCharging, req.Family.Behavior)
	assert.Equal(t, model.FlexMaxDelay, req.Family.Flexibility)
	assert.Equal(t, model.StationWork, req.Station)
}

func TestLoadJSONWithDefaults(t *testing.T) {
	path := writeConfig(t, "config.json", `{"charging": {"ev_percent": 50}}`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceDir, cfg.Profiles.Source)
	assert.Equal(t, "profiles", cfg.Profiles.Dir)
	assert.Equal(t, ',', cfg.Profiles.Comma())
	assert.Equal(t, "BAU", cfg.Charging.Behavior)
	assert.Equal(t, "home", cfg.Charging.StationType)
	assert.Equal(t, "json", cfg.Output.Format)
	assert.Equal(t, "jsonl", cfg.RunLog.Backend)
	assert.Equal(t, ":8080", cfg.Server.Addr)
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.yaml", "charging:\n  ev_percent: 20\n")
	t.Setenv("K_CHARGING__EV_PERCENT", "75")
	t.Setenv("K_CHARGING__STATION_TYPE", "public")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 75.0, cfg.Charging.EVPercent)
	assert.Equal(t, "public", cfg.Charging.StationType)
}

func TestLoadRejectsOutOfRangePercent(t *testing.T) {
	path := writeConfig(t, "config.yaml", "charging:\n  ev_percent: 120\n")
	_, err := Load(path)
	require.ErrorIs(t, err, model.ErrRange)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	path := writeConfig(t, "config.toml", "")
	_, err := Load(path)
	require.Error(t, err)
}

func TestValidateSections(t *testing.T) {
	cases := map[string]func(*Config){
		"unknown station":   func(c *Config) { c.Charging.StationType = "depot" },
		"unknown behavior":  func(c *Config) { c.Charging.Behavior = "Eco" },
		"negative assumed":  func(c *Config) { c.Charging.AssumedPercent = -1 },
		"unknown source":    func(c *Config) { c.Profiles.Source = "ftp" },
		"s3 without bucket": func(c *Config) { c.Profiles.Source = SourceS3; c.Profiles.S3.Endpoint = "minio:9000" },
		"http without url":  func(c *Config) { c.Profiles.Source = SourceHTTP },
		"long delimiter":    func(c *Config) { c.Profiles.Delimiter = ";;" },
		"quote delimiter":   func(c *Config) { c.Profiles.Delimiter = `"` },
		"newline delimiter": func(c *Config) { c.Profiles.Delimiter = "\n" },
		"invalid delimiter": func(c *Config) { c.Profiles.Delimiter = "\xff" },
		"variant missing":   func(c *Config) { c.Profiles.Variant = &VariantConfig{Name: "site"} },
		"unknown format":    func(c *Config) { c.Output.Format = "xlsx" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			var cfg Config
			cfg.Charging.EVPercent = 40
			cfg.SetDefaults()
			require.NoError(t, cfg.Validate())
			mutate(&cfg)
			require.ErrorIs(t, cfg.Validate(), model.ErrConfiguration)
		})
	}
}

func TestVariantValid(t *testing.T) {
	var cfg Config
	cfg.SetDefaults()
	cfg.Profiles.Variant = &VariantConfig{Name: "site", Files: model.ByDay[string]{Weekday: "a.csv", Saturday: "b.csv", Sunday: "c.csv"}}
	require.NoError(t, cfg.Validate())
}

func TestLoadVariantCohorts(t *testing.T) {
	path := writeConfig(t, "config.yaml", `charging:
  ev_percent: 30
profiles:
  variant:
    name: depot
    cohorts: depot_cohorts.yaml
    files:
      weekday: wd.csv
      saturday: sat.csv
      sunday: sun.csv
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Profiles.Variant)
	assert.Equal(t, "depot_cohorts.yaml", cfg.Profiles.Variant.Cohorts)
	assert.Equal(t, "wd.csv", cfg.Profiles.Variant.Files.Weekday)
}

func TestValidDelimiters(t *testing.T) {
	for _, d := range []string{",", ";", "\t", "|", "§"} {
		var cfg Config
		cfg.SetDefaults()
		cfg.Profiles.Delimiter = d
		assert.NoError(t, cfg.Validate(), "delimiter %q", d)
	}
}
