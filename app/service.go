package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/kilianp07/evload/api"
	apischedule "github.com/kilianp07/evload/api/schedule"
	"github.com/kilianp07/evload/config"
	"github.com/kilianp07/evload/core/cohort"
	coremetrics "github.com/kilianp07/evload/core/metrics"
	coremon "github.com/kilianp07/evload/core/monitoring"
	"github.com/kilianp07/evload/core/pipeline"
	"github.com/kilianp07/evload/core/profile"
	"github.com/kilianp07/evload/core/runlog"
	"github.com/kilianp07/evload/core/schedule"
	"github.com/kilianp07/evload/core/scheduler"
	"github.com/kilianp07/evload/infra/httpsource"
	"github.com/kilianp07/evload/infra/logger"
	"github.com/kilianp07/evload/infra/metrics"
	"github.com/kilianp07/evload/infra/monitoring"
	"github.com/kilianp07/evload/infra/s3"
	"github.com/kilianp07/evload/pkg/export"

	_ "github.com/kilianp07/evload/app/plugins"
)

// Service wires the pipeline to its configured collaborators.
type Service struct {
	Pipeline *pipeline.Pipeline
	// Request is the configured default request.
	Request   pipeline.Request
	Runs      runlog.Store
	cfg       *config.Config
	sink      coremetrics.MetricsSink
	publisher schedule.Publisher
	stream    *apischedule.Stream
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, fmt.Errorf("sentry: %w", err)
	}
	coremon.Init(mon)

	req, err := cfg.Charging.Request()
	if err != nil {
		return nil, err
	}
	src, err := newSource(cfg.Profiles)
	if err != nil {
		return nil, err
	}
	var namer profile.Namer
	opts := []pipeline.Option{pipeline.WithLogger(logg), pipeline.WithScheduleName(cfg.Charging.ScheduleName)}
	if v := cfg.Profiles.Variant; v != nil {
		namer = profile.VariantNamer{Name: v.Name, Files: v.Files}
		opts = append(opts, pipeline.WithVariant(v.Name))
	}
	loader := profile.NewLoader(src, namer, profile.Options{
		SkipHeader: cfg.Profiles.SkipHeader,
		Comma:      cfg.Profiles.Comma(),
	}, logger.New("profile_loader"))

	table := cohort.Default()
	if cfg.Charging.CohortsFile != "" {
		if table, err = cohort.LoadTable(cfg.Charging.CohortsFile); err != nil {
			return nil, err
		}
	}
	if v := cfg.Profiles.Variant; v != nil && v.Cohorts != "" {
		if table, err = cohort.LoadTable(v.Cohorts); err != nil {
			return nil, fmt.Errorf("variant %s: %w", v.Name, err)
		}
	}
	if err := table.Validate(); err != nil {
		return nil, err
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	runs, err := runlog.Open(cfg.RunLog)
	if err != nil {
		return nil, fmt.Errorf("run log: %w", err)
	}
	pub, err := schedule.NewPublisher(cfg.Publishers)
	if err != nil {
		_ = runs.Close()
		return nil, fmt.Errorf("publisher: %w", err)
	}
	stream := apischedule.NewStream()
	pub = schedule.MultiPublisher{pub, apischedule.StreamPublisher{Stream: stream}}
	opts = append(opts, pipeline.WithMetrics(sink), pipeline.WithRunLog(runs), pipeline.WithPublisher(pub))

	return &Service{
		Pipeline:  pipeline.New(loader, table, opts...),
		Request:   req,
		Runs:      runs,
		cfg:       cfg,
		sink:      sink,
		publisher: pub,
		stream:    stream,
		log:       logg,
	}, nil
}

func variantName(v *config.VariantConfig) string {
	if v == nil {
		return ""
	}
	return v.Name
}

func newSource(c config.ProfilesConfig) (profile.Source, error) {
	switch c.Source {
	case config.SourceS3:
		return s3.NewSource(c.S3)
	case config.SourceHTTP:
		return httpsource.New(c.HTTP)
	default:
		return profile.DirSource{Dir: c.Dir}, nil
	}
}

// Schedule runs the configured request and writes the result to the
// configured output. The output is complete before anything is published.
func (s *Service) Schedule(ctx context.Context) (*pipeline.Result, error) {
	format, err := export.ParseFormat(s.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	return s.runToOutput(ctx, func(w io.Writer, res *pipeline.Result) error {
		if err := export.Write(w, format, res.Envelope()); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		return nil
	})
}

// runToOutput runs the configured request and renders the result into a
// staging area during delivery. The staged output replaces the configured
// file, or goes to stdout, only once the run has succeeded.
func (s *Service) runToOutput(ctx context.Context, render func(io.Writer, *pipeline.Result) error) (*pipeline.Result, error) {
	path := s.cfg.Output.Path
	var (
		buf bytes.Buffer
		tmp string
	)
	res, err := s.Pipeline.RunWith(ctx, s.Request, func(res *pipeline.Result) error {
		if path == "" {
			return render(&buf, res)
		}
		f, err := os.CreateTemp(filepath.Dir(path), ".evload-*")
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		tmp = f.Name()
		if err := f.Chmod(0o644); err != nil {
			_ = f.Close()
			return fmt.Errorf("create output: %w", err)
		}
		if err := render(f, res); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return fmt.Errorf("close output: %w", err)
		}
		return nil
	})
	if err != nil {
		if tmp != "" {
			_ = os.Remove(tmp)
		}
		return nil, err
	}
	if path == "" {
		if _, err := buf.WriteTo(os.Stdout); err != nil {
			return nil, fmt.Errorf("write output: %w", err)
		}
		return res, nil
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("commit output: %w", err)
	}
	s.log.Infof("wrote %s output to %s", s.cfg.Output.Format, path)
	return res, nil
}

// Plan runs the configured request and expands the schedule over the
// configured calendar window. The plan goes to the configured output in JSON
// or CSV.
func (s *Service) Plan(ctx context.Context, now time.Time) ([]scheduler.Entry, error) {
	start, loc, err := s.cfg.Plan.Window(now)
	if err != nil {
		return nil, err
	}
	format, err := export.ParseFormat(s.cfg.Output.Format)
	if err != nil {
		return nil, err
	}
	var plan []scheduler.Entry
	res, err := s.runToOutput(ctx, func(w io.Writer, res *pipeline.Result) error {
		sch := scheduler.Scheduler{Load: res.Load, Location: loc}
		p, err := sch.GeneratePlan(start, s.cfg.Plan.Days)
		if err != nil {
			return err
		}
		plan = p
		return export.WritePlan(w, format, plan)
	})
	if err != nil {
		return nil, err
	}
	s.log.Infof("plan %s: %d days from %s, %.1f kWh", res.RunID, s.cfg.Plan.Days, start.Format(scheduler.DateLayout), scheduler.EnergyKWh(plan))
	return plan, nil
}

// Serve runs the HTTP API until ctx is cancelled.
func (s *Service) Serve(ctx context.Context) error {
	sc := s.cfg.Server
	srv := &http.Server{
		Addr: sc.Addr,
		Handler: api.NewRouter(api.Deps{
			Runner:  s.Pipeline,
			Base:    s.Request,
			Runs:    s.Runs,
			Stream:  s.stream,
			Token:   sc.Token,
			Variant: variantName(s.cfg.Profiles.Variant),
		}),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       sc.ReadTimeout,
		WriteTimeout:      sc.WriteTimeout,
	}
	if sc.MetricsAddr != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, sc.MetricsAddr); err != nil {
				s.log.Errorf("prom server: %v", err)
			}
		}()
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.log.Errorf("shutdown: %v", err)
		}
	}()
	s.log.Infof("serving schedule API on %s", sc.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	var errs []error
	if err := s.publisher.Close(); err != nil {
		errs = append(errs, err)
	}
	if err := s.Runs.Close(); err != nil {
		errs = append(errs, err)
	}
	closeSink(s.sink)
	coremon.Flush(2 * time.Second)
	return errors.Join(errs...)
}

func closeSink(sink coremetrics.MetricsSink) {
	switch v := sink.(type) {
	case interface{ Close() }:
		v.Close()
	case *coremetrics.MultiSink:
		for _, inner := range v.Sinks {
			closeSink(inner)
		}
	}
}
