// Package runlog persists a record of every pipeline run so past schedules
// and failures can be audited with `evload runs`.
package runlog

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/kilianp07/evload/core/model"
)

// RunRecord captures the inputs and outcome of one pipeline run.
type RunRecord struct {
	ID             string            `json:"id"`
	Timestamp      time.Time         `json:"timestamp"`
	Family         string            `json:"profile_family"`
	Station        model.StationType `json:"station_type"`
	EVPercent      float64           `json:"ev_percent"`
	AssumedPercent float64           `json:"assumed_percent"`
	Status         string            `json:"status"`
	ErrorKind      string            `json:"error_kind,omitempty"`
	Error          string            `json:"error,omitempty"`
	PeakKW         float64           `json:"peak_kw"`
	Slots          int               `json:"slots"`
	DurationMS     int64             `json:"duration_ms"`
}

// RunQuery filters records. Zero fields match everything.
type RunQuery struct {
	Start   time.Time
	End     time.Time
	Station model.StationType
	Status  string
	// Limit keeps only the most recent records when positive.
	Limit int
}

// Match reports whether r passes every filter of q except Limit.
func (q RunQuery) Match(r RunRecord) bool {
	if !q.Start.IsZero() && r.Timestamp.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Timestamp.After(q.End) {
		return false
	}
	if q.Station != "" && r.Station != q.Station {
		return false
	}
	if q.Status != "" && r.Status != q.Status {
		return false
	}
	return true
}

// Store persists RunRecords and supports querying.
type Store interface {
	Append(ctx context.Context, rec RunRecord) error
	Query(ctx context.Context, q RunQuery) ([]RunRecord, error)
	Close() error
}

// NopStore drops every record.
type NopStore struct{}

func (NopStore) Append(context.Context, RunRecord) error { return nil }
func (NopStore) Query(context.Context, RunQuery) ([]RunRecord, error) {
	return nil, nil
}
func (NopStore) Close() error { return nil }

// Config selects and tunes the run log backend.
type Config struct {
	// Backend is "jsonl", "sqlite" or "none".
	Backend string `json:"backend"`
	// Path is the file location of the store.
	Path string `json:"path"`
	// MaxSizeMB triggers JSONL rotation when the file exceeds this size.
	MaxSizeMB int `json:"max_size_mb"`
	// MaxBackups limits the number of rotated files to keep.
	MaxBackups int `json:"max_backups"`
	// MaxAgeDays removes rotated files older than this number of days.
	MaxAgeDays int `json:"max_age_days"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.Backend == "" {
		c.Backend = "jsonl"
	}
	if c.Path == "" {
		switch c.Backend {
		case "sqlite":
			c.Path = "runs.db"
		default:
			c.Path = "runs.jsonl"
		}
	}
	if c.MaxSizeMB <= 0 {
		c.MaxSizeMB = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	switch c.Backend {
	case "jsonl", "sqlite", "none":
	default:
		return fmt.Errorf("unknown run log backend %s", c.Backend)
	}
	if c.Backend != "none" && c.Path == "" {
		return fmt.Errorf("run log path is required")
	}
	return nil
}

// Open creates the store selected by cfg.
func Open(cfg Config) (Store, error) {
	switch cfg.Backend {
	case "none":
		return NopStore{}, nil
	case "sqlite":
		return NewSQLiteStore(cfg.Path)
	case "jsonl", "":
		return NewRotatingJSONLStore(cfg.Path, cfg.MaxSizeMB, cfg.MaxBackups, cfg.MaxAgeDays)
	default:
		return nil, fmt.Errorf("unknown run log backend %s", cfg.Backend)
	}
}

func finish(res []RunRecord, limit int) []RunRecord {
	sort.SliceStable(res, func(i, j int) bool { return res[i].Timestamp.Before(res[j].Timestamp) })
	if limit > 0 && len(res) > limit {
		res = res[len(res)-limit:]
	}
	return res
}
