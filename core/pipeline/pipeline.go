// Package pipeline runs the load → select → aggregate → normalize → build
// sequence for one request and reports the outcome to the configured sinks.
package pipeline

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/kilianp07/evload/core/aggregate"
	"github.com/kilianp07/evload/core/cohort"
	"github.com/kilianp07/evload/core/logger"
	"github.com/kilianp07/evload/core/metrics"
	"github.com/kilianp07/evload/core/model"
	coremon "github.com/kilianp07/evload/core/monitoring"
	"github.com/kilianp07/evload/core/normalize"
	"github.com/kilianp07/evload/core/runlog"
	"github.com/kilianp07/evload/core/schedule"
)

// DefaultScheduleName prefixes every emitted schedule object.
const DefaultScheduleName = "EV Charging Load"

// FamilyLoader reads the three matrices of a profile family.
type FamilyLoader interface {
	LoadFamily(ctx context.Context, key model.ProfileFamilyKey) (model.ByDay[model.LoadMatrix], error)
}

// Request holds the inputs of one run.
type Request struct {
	Family  model.ProfileFamilyKey `json:"family"`
	Station model.StationType      `json:"station_type"`
	// EVPercent is the target adoption rate in [0,100].
	EVPercent float64 `json:"ev_percent"`
	// AssumedPercent is the adoption rate the profiles were generated
	// under. Zero selects aggregate.AssumedPercent.
	AssumedPercent float64 `json:"assumed_percent"`
}

// Validate checks the request at the boundary.
func (r Request) Validate() error {
	if math.IsNaN(r.EVPercent) || r.EVPercent < 0 || r.EVPercent > 100 {
		return fmt.Errorf("%w: ev percent %v outside [0,100]", model.ErrRange, r.EVPercent)
	}
	if math.IsNaN(r.AssumedPercent) || r.AssumedPercent < 0 {
		return fmt.Errorf("%w: assumed percent %v", model.ErrConfiguration, r.AssumedPercent)
	}
	if err := r.Family.Validate(); err != nil {
		return err
	}
	if r.Station == "" {
		return fmt.Errorf("%w: station type is required", model.ErrConfiguration)
	}
	return nil
}

func (r Request) assumed() float64 {
	if r.AssumedPercent == 0 {
		return aggregate.AssumedPercent
	}
	return r.AssumedPercent
}

// Result is the outcome of a successful run.
type Result struct {
	RunID       string                 `json:"run_id"`
	GeneratedAt time.Time              `json:"generated_at"`
	Family      string                 `json:"profile_family"`
	Request     Request                `json:"request"`
	Cohort      []int                  `json:"cohort"`
	Aggregated  model.ByDay[[]float64] `json:"aggregated"`
	Normalized  model.ByDay[[]float64] `json:"normalized"`
	PeakKW      float64                `json:"peak_kw"`
	Load        schedule.BuildingLoad  `json:"load"`
}

// Envelope returns what publishers deliver for r.
func (r *Result) Envelope() schedule.Envelope {
	return schedule.Envelope{
		RunID:       r.RunID,
		GeneratedAt: r.GeneratedAt,
		Family:      r.Family,
		Station:     r.Request.Station,
		EVPercent:   r.Request.EVPercent,
		Load:        r.Load,
		Normalized:  r.Normalized,
	}
}

// Pipeline computes building load schedules. It holds only read-only state
// and goroutine-safe sinks, so Run may be called concurrently.
type Pipeline struct {
	loader    FamilyLoader
	cohorts   cohort.Table
	variant   string
	name      string
	metrics   metrics.MetricsSink
	runs      runlog.Store
	publisher schedule.Publisher
	log       logger.Logger
	now       func() time.Time
}

// Option customizes a Pipeline.
type Option func(*Pipeline)

// WithMetrics sets the sink receiving a RunEvent per run.
func WithMetrics(s metrics.MetricsSink) Option { return func(p *Pipeline) { p.metrics = s } }

// WithRunLog sets the store receiving a RunRecord per run.
func WithRunLog(s runlog.Store) Option { return func(p *Pipeline) { p.runs = s } }

// WithPublisher sets where successful schedules are delivered.
func WithPublisher(pub schedule.Publisher) Option { return func(p *Pipeline) { p.publisher = pub } }

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option { return func(p *Pipeline) { p.log = l } }

// WithVariant labels runs with a named profile-family variant instead of the
// family key.
func WithVariant(name string) Option { return func(p *Pipeline) { p.variant = name } }

// WithScheduleName overrides DefaultScheduleName.
func WithScheduleName(name string) Option { return func(p *Pipeline) { p.name = name } }

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option { return func(p *Pipeline) { p.now = now } }

// New builds a Pipeline. Unset collaborators default to no-ops.
func New(loader FamilyLoader, cohorts cohort.Table, opts ...Option) *Pipeline {
	p := &Pipeline{
		loader:    loader,
		cohorts:   cohorts,
		name:      DefaultScheduleName,
		metrics:   metrics.NopSink{},
		runs:      runlog.NopStore{},
		publisher: schedule.NopPublisher{},
		log:       logger.NopLogger{},
		now:       time.Now,
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) familyLabel(key model.ProfileFamilyKey) string {
	if p.variant != "" {
		return p.variant
	}
	return key.String()
}

// Deliver hands a computed result to a local destination such as an output
// file or an HTTP response body. It runs before the publishers.
type Deliver func(res *Result) error

// Run executes one request. Any failure aborts the run; no schedule is
// returned or published in that case.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Result, error) {
	return p.RunWith(ctx, req, nil)
}

// RunWith executes one request and calls deliver with the result before
// publishing it. A deliver error fails the run and nothing is published.
func (p *Pipeline) RunWith(ctx context.Context, req Request, deliver Deliver) (*Result, error) {
	start := p.now()
	runID := uuid.NewString()
	res, err := p.run(ctx, runID, start, req, deliver)
	p.report(ctx, runID, start, req, res, err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (p *Pipeline) run(ctx context.Context, runID string, start time.Time, req Request, deliver Deliver) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	fam, err := p.loader.LoadFamily(ctx, req.Family)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", req.Family, err)
	}
	indices, err := p.cohorts.Select(req.Station)
	if err != nil {
		return nil, err
	}
	agg, err := aggregate.Family(fam, indices, req.EVPercent, req.assumed())
	if err != nil {
		return nil, err
	}
	norm, peak, err := normalize.Normalize(agg)
	if err != nil {
		return nil, err
	}
	load, err := schedule.Build(p.name, norm, peak)
	if err != nil {
		return nil, err
	}
	res := &Result{
		RunID:       runID,
		GeneratedAt: start,
		Family:      p.familyLabel(req.Family),
		Request:     req,
		Cohort:      indices,
		Aggregated:  agg,
		Normalized:  norm,
		PeakKW:      peak,
		Load:        load,
	}
	if deliver != nil {
		if err := deliver(res); err != nil {
			return nil, fmt.Errorf("deliver: %w", err)
		}
	}
	if err := p.publisher.Publish(ctx, res.Envelope()); err != nil {
		return nil, fmt.Errorf("publish: %w", err)
	}
	return res, nil
}

func (p *Pipeline) report(ctx context.Context, runID string, start time.Time, req Request, res *Result, runErr error) {
	elapsed := p.now().Sub(start)
	ev := metrics.RunEvent{
		RunID:     runID,
		Family:    p.familyLabel(req.Family),
		Station:   req.Station,
		EVPercent: req.EVPercent,
		Status:    metrics.StatusOK,
		Duration:  elapsed,
		Time:      start,
	}
	rec := runlog.RunRecord{
		ID:             runID,
		Timestamp:      start,
		Family:         ev.Family,
		Station:        req.Station,
		EVPercent:      req.EVPercent,
		AssumedPercent: req.assumed(),
		Status:         metrics.StatusOK,
		DurationMS:     elapsed.Milliseconds(),
	}
	if runErr != nil {
		kind := model.ErrorKind(runErr)
		ev.Status, ev.ErrorKind = metrics.StatusError, kind
		rec.Status, rec.ErrorKind, rec.Error = metrics.StatusError, kind, runErr.Error()
		p.log.Errorf("run %s failed (%s): %v", runID, kind, runErr)
		coremon.CaptureException(runErr, map[string]string{
			"module":       "pipeline",
			"run_id":       runID,
			"station_type": string(req.Station),
			"error_kind":   kind,
		})
	} else {
		ev.PeakKW, rec.PeakKW = res.PeakKW, res.PeakKW
		ev.Slots = len(res.Normalized.Weekday)
		rec.Slots = ev.Slots
		norm := res.Normalized
		ev.Normalized = &norm
		p.log.Infof("run %s: %s %s at %.1f%% peak %.3f kW", runID, ev.Family, req.Station, req.EVPercent, res.PeakKW)
	}
	if err := p.metrics.RecordRun(ev); err != nil {
		p.log.Warnf("record metrics for run %s: %v", runID, err)
	}
	// the run log must survive a cancelled request context
	if err := p.runs.Append(context.WithoutCancel(ctx), rec); err != nil {
		p.log.Warnf("append run log for run %s: %v", runID, err)
	}
}
