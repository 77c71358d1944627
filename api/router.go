// Package api assembles the HTTP routes served by `evload serve`.
package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kilianp07/evload/api/runs"
	"github.com/kilianp07/evload/api/schedule"
	"github.com/kilianp07/evload/core/pipeline"
	"github.com/kilianp07/evload/core/runlog"
)

// Deps are the collaborators behind the routes.
type Deps struct {
	Runner schedule.Runner
	Base   pipeline.Request
	Runs   runlog.Store
	// Stream enables /api/schedule/stream when set.
	Stream *schedule.Stream
	// Token protects /api/runs when set.
	Token string
	// Gatherer backs /metrics; nil uses the default registry.
	Gatherer prometheus.Gatherer
	// Variant is the active profile variant, if any.
	Variant string
}

// NewRouter wires the API routes.
func NewRouter(d Deps) *mux.Router {
	r := mux.NewRouter()
	r.Handle("/api/schedule", schedule.NewScheduleHandler(d.Runner, d.Base, schedule.WithVariant(d.Variant))).Methods(http.MethodGet)
	if d.Stream != nil {
		r.Handle("/api/schedule/stream", schedule.NewStreamHandler(d.Stream)).Methods(http.MethodGet)
	}
	if d.Runs != nil {
		r.Handle("/api/runs", runs.NewRunsHandler(d.Runs, d.Token)).Methods(http.MethodGet)
	}
	r.HandleFunc("/healthz", healthHandler).Methods(http.MethodGet)
	g := d.Gatherer
	if g == nil {
		g = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(g, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	return r
}

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
