package metrics

import (
	"errors"
	"time"

	"github.com/kilianp07/evload/core/model"
)

// Run outcomes.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// RunEvent describes one finished pipeline run.
type RunEvent struct {
	RunID     string
	Family    string
	Station   model.StationType
	EVPercent float64
	Status    string
	// ErrorKind is model.ErrorKind of the failure, empty on success.
	ErrorKind string
	PeakKW    float64
	Slots     int
	Duration  time.Duration
	Time      time.Time
	// Normalized is nil when the run failed.
	Normalized *model.ByDay[[]float64]
}

// MetricsSink records pipeline runs.
type MetricsSink interface {
	RecordRun(ev RunEvent) error
}

// NopSink implements MetricsSink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error { return nil }

// MultiSink forwards events to several sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards ev to every sink and joins their errors.
func (m *MultiSink) RecordRun(ev RunEvent) error {
	var errs []error
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
