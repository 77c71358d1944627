package metrics

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/kilianp07/evload/core/metrics"
)

// PromSink exposes pipeline runs as Prometheus metrics.
type PromSink struct {
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
	peak     *prometheus.GaugeVec
}

// NewPromSink registers the run metrics on the default registerer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on reg. A nil registerer defaults
// to the global Prometheus registerer. Collectors already registered by a
// previous sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evload_pipeline_runs_total",
		Help: "Total number of schedule pipeline runs",
	}, []string{"station_type", "status", "error_kind"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "evload_pipeline_duration_seconds",
		Help:    "Wall time of a schedule pipeline run",
		Buckets: prometheus.DefBuckets,
	}, []string{"station_type"})
	peak := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "evload_peak_load_kw",
		Help: "Peak EV charging load of the last successful run",
	}, []string{"station_type", "profile_family"})

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}
	if peak, err = register(reg, peak); err != nil {
		return nil, err
	}
	return &PromSink{runs: runs, duration: duration, peak: peak}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordRun updates the counters, the duration histogram and, for successful
// runs, the peak gauge.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	station := string(ev.Station)
	s.runs.WithLabelValues(station, ev.Status, ev.ErrorKind).Inc()
	s.duration.WithLabelValues(station).Observe(ev.Duration.Seconds())
	if ev.Status == coremetrics.StatusOK {
		s.peak.WithLabelValues(station, ev.Family).Set(ev.PeakKW)
	}
	return nil
}
