package config

import (
	"fmt"
	"unicode/utf8"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/profile"
	"github.com/kilianp07/evload/infra/httpsource"
	"github.com/kilianp07/evload/infra/s3"
)

// Profile sources.
const (
	SourceDir  = "dir"
	SourceS3   = "s3"
	SourceHTTP = "http"
)

// VariantConfig names a site-specific profile family with an explicit file
// per day type.
type VariantConfig struct {
	Name  string              `json:"name"`
	Files model.ByDay[string] `json:"files"`
	// Cohorts is an optional cohort table file used instead of
	// charging.cohorts_file while the variant is active.
	Cohorts string `json:"cohorts"`
}

// ProfilesConfig locates the profile files and describes their layout.
type ProfilesConfig struct {
	// Source is "dir", "s3" or "http".
	Source string            `json:"source"`
	Dir    string            `json:"dir"`
	S3     s3.Config         `json:"s3"`
	HTTP   httpsource.Config `json:"http"`
	// SkipHeader drops the first row of every file.
	SkipHeader bool `json:"skip_header"`
	// Delimiter is a single character, "," when empty.
	Delimiter string         `json:"delimiter"`
	Variant   *VariantConfig `json:"variant"`
}

// SetDefaults applies sane defaults.
func (c *ProfilesConfig) SetDefaults() {
	if c.Source == "" {
		c.Source = SourceDir
	}
	if c.Source == SourceDir && c.Dir == "" {
		c.Dir = "profiles"
	}
	if c.Delimiter == "" {
		c.Delimiter = ","
	}
}

// Comma returns the delimiter rune.
func (c ProfilesConfig) Comma() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

// Validate checks mandatory fields.
func (c ProfilesConfig) Validate() error {
	switch c.Source {
	case SourceDir:
		if c.Dir == "" {
			return fmt.Errorf("%w: dir is required", model.ErrConfiguration)
		}
	case SourceS3:
		if err := c.S3.Validate(); err != nil {
			return err
		}
	case SourceHTTP:
		if err := c.HTTP.Validate(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("%w: unknown profile source %q", model.ErrConfiguration, c.Source)
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("%w: delimiter %q must be a single character", model.ErrConfiguration, c.Delimiter)
	}
	if !profile.ValidDelimiter(c.Comma()) {
		return fmt.Errorf("%w: delimiter %q cannot separate csv fields", model.ErrConfiguration, c.Delimiter)
	}
	if v := c.Variant; v != nil {
		if v.Name == "" {
			return fmt.Errorf("%w: variant name is required", model.ErrConfiguration)
		}
		for _, d := range model.DayTypes {
			if v.Files.Get(d) == "" {
				return fmt.Errorf("%w: variant %s has no %s file", model.ErrConfiguration, v.Name, d)
			}
		}
	}
	return nil
}

