package metrics

import (
	"context"
	"math"
	"net/http"
	"strings"
	"time"

	influxdb2 "github.com/influxdata/influxdb-client-go/v2"
	"github.com/influxdata/influxdb-client-go/v2/api"
	"github.com/influxdata/influxdb-client-go/v2/api/write"

	coremetrics "github.com/kilianp07/evload/core/metrics"
	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/schedule"
	"github.com/kilianp07/evload/infra/logger"
)

// InfluxSink writes run summaries and normalized schedules to InfluxDB.
type InfluxSink struct {
	client   influxdb2.Client
	writeAPI api.WriteAPIBlocking
	log      logger.Logger
}

// NewInfluxSink creates a sink for the given InfluxDB endpoint.
func NewInfluxSink(url, token, org, bucket string) *InfluxSink {
	base := strings.TrimSuffix(url, "/api/v2/write")
	client := influxdb2.NewClientWithOptions(base, token,
		influxdb2.DefaultOptions().SetHTTPClient(&http.Client{Timeout: 5 * time.Second}))
	return &InfluxSink{
		client:   client,
		writeAPI: client.WriteAPIBlocking(org, bucket),
		log:      logger.New("influx-sink"),
	}
}

// NewInfluxSinkWithFallback pings the instance and returns a NopSink when the
// health check fails.
func NewInfluxSinkWithFallback(url, token, org, bucket string) coremetrics.MetricsSink {
	sink := NewInfluxSink(url, token, org, bucket)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	health, err := sink.client.Health(ctx)
	if err != nil || health.Status != "pass" {
		if err != nil {
			sink.log.Errorf("influx health check error: %v", err)
		} else {
			sink.log.Errorf("influx health status: %s", health.Status)
		}
		sink.client.Close()
		return coremetrics.NopSink{}
	}
	return sink
}

// RecordRun writes a pipeline_run point and, for successful runs, one
// ev_schedule point per day type and slot timestamped at the slot end on the
// run's date.
func (s *InfluxSink) RecordRun(ev coremetrics.RunEvent) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	points := []*write.Point{runPoint(ev)}
	if ev.Normalized != nil {
		points = append(points, schedulePoints(ev)...)
	}
	return s.writeAPI.WritePoint(ctx, points...)
}

// Close releases the HTTP client.
func (s *InfluxSink) Close() { s.client.Close() }

func runPoint(ev coremetrics.RunEvent) *write.Point {
	p := write.NewPointWithMeasurement("pipeline_run").
		AddTag("run_id", ev.RunID).
		AddTag("station_type", string(ev.Station)).
		AddTag("profile_family", ev.Family).
		AddTag("status", ev.Status)
	if ev.ErrorKind != "" {
		p.AddTag("error_kind", ev.ErrorKind)
	}
	return p.AddField("ev_percent", round3(ev.EVPercent)).
		AddField("peak_kw", round3(ev.PeakKW)).
		AddField("slots", ev.Slots).
		AddField("duration_ms", ev.Duration.Milliseconds()).
		SetTime(ev.Time)
}

func schedulePoints(ev coremetrics.RunEvent) []*write.Point {
	day := ev.Time.UTC().Truncate(24 * time.Hour)
	var out []*write.Point
	for _, d := range model.DayTypes {
		for i, v := range ev.Normalized.Get(d) {
			p := write.NewPointWithMeasurement("ev_schedule").
				AddTag("run_id", ev.RunID).
				AddTag("station_type", string(ev.Station)).
				AddTag("day_type", d.String()).
				AddField("value", round3(v)).
				AddField("power_kw", round3(v*ev.PeakKW)).
				SetTime(day.Add(time.Duration(i+1) * schedule.SlotWidth))
			out = append(out, p)
		}
	}
	return out
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
