package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/evload/core/factory"
	"github.com/kilianp07/evload/core/metrics"
	"github.com/kilianp07/evload/core/runlog"
	"github.com/kilianp07/evload/core/scheduler"
)

type Config struct {
	Profiles   ProfilesConfig         `json:"profiles"`
	Charging   ChargingConfig         `json:"charging"`
	Output     OutputConfig           `json:"output"`
	Publishers []factory.ModuleConfig `json:"publishers"`
	Metrics    metrics.Config         `json:"metrics"`
	RunLog     runlog.Config          `json:"runlog"`
	Sentry     SentryConfig           `json:"sentry"`
	Server     ServerConfig           `json:"server"`
	Plan       scheduler.Config       `json:"plan"`
}

// Load reads the YAML or JSON file at path, applies K_ prefixed environment
// overrides (K_CHARGING__EV_PERCENT=30) and validates the result.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider("K_", ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), "k_")
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills every section's optional fields.
func (c *Config) SetDefaults() {
	c.Profiles.SetDefaults()
	c.Charging.SetDefaults()
	c.Output.SetDefaults()
	c.RunLog.SetDefaults()
	c.Server.SetDefaults()
	c.Plan.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Profiles.Validate(); err != nil {
		return fmt.Errorf("profiles: %w", err)
	}
	if err := c.Charging.Validate(); err != nil {
		return fmt.Errorf("charging: %w", err)
	}
	if err := c.Output.Validate(); err != nil {
		return fmt.Errorf("output: %w", err)
	}
	if err := c.RunLog.Validate(); err != nil {
		return fmt.Errorf("runlog: %w", err)
	}
	if err := c.Plan.Validate(); err != nil {
		return fmt.Errorf("plan: %w", err)
	}
	return nil
}
