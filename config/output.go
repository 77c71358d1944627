package config

import "github.com/kilianp07/evload/pkg/export"

// OutputConfig controls where `evload schedule` writes its result.
type OutputConfig struct {
	// Format is json, csv, idf or html.
	Format string `json:"format"`
	// Path of the output file; empty writes to stdout.
	Path string `json:"path"`
}

// SetDefaults applies sane defaults.
func (c *OutputConfig) SetDefaults() {
	if c.Format == "" {
		c.Format = string(export.FormatJSON)
	}
}

// Validate checks the format name.
func (c OutputConfig) Validate() error {
	_, err := export.ParseFormat(c.Format)
	return err
}
