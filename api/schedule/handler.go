// Package schedule exposes the pipeline over HTTP.
package schedule

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/pipeline"
	"github.com/kilianp07/evload/pkg/export"
)

// Runner executes one pipeline request, handing the result to deliver before
// it is published.
type Runner interface {
	RunWith(ctx context.Context, req pipeline.Request, deliver pipeline.Deliver) (*pipeline.Result, error)
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// StatusFor maps a pipeline error to an HTTP status code.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, model.ErrRange), errors.Is(err, model.ErrConfiguration):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, model.ErrFormat), errors.Is(err, model.ErrDegenerateInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as a JSON body with the mapped status code.
func WriteError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(StatusFor(err))
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error(), Kind: model.ErrorKind(err)})
}

var contentTypes = map[export.Format]string{
	export.FormatJSON: "application/json",
	export.FormatCSV:  "text/csv",
	export.FormatIDF:  "text/plain; charset=utf-8",
	export.FormatHTML: "text/html; charset=utf-8",
}

// HandlerOption customises the schedule handler.
type HandlerOption func(*handlerOptions)

type handlerOptions struct {
	variant string
}

// WithVariant tells the handler a profile variant is active. The variant
// fixes the profile family, so behavior and flexibility are rejected.
func WithVariant(name string) HandlerOption {
	return func(o *handlerOptions) { o.variant = name }
}

// NewScheduleHandler returns an HTTP handler computing a schedule via
// GET /api/schedule. Query parameters behavior, flexibility, station_type,
// ev_percent and assumed_percent override base; format selects the
// rendering (json by default).
func NewScheduleHandler(runner Runner, base pipeline.Request, opts ...HandlerOption) http.Handler {
	var o handlerOptions
	for _, opt := range opts {
		opt(&o)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if o.variant != "" {
			if err := rejectFamily(r, o.variant); err != nil {
				WriteError(w, err)
				return
			}
		}
		req, format, err := parseRequest(r, base)
		if err != nil {
			WriteError(w, err)
			return
		}
		var body bytes.Buffer
		res, err := runner.RunWith(r.Context(), req, func(res *pipeline.Result) error {
			return export.Write(&body, format, res.Envelope())
		})
		if err != nil {
			WriteError(w, err)
			return
		}
		w.Header().Set("Content-Type", contentTypes[format])
		w.Header().Set("X-Run-ID", res.RunID)
		_, _ = body.WriteTo(w)
	})
}

func rejectFamily(r *http.Request, variant string) error {
	q := r.URL.Query()
	for _, key := range []string{"behavior", "flexibility"} {
		if q.Has(key) {
			return fmt.Errorf("%w: %s cannot be set while variant %s is active", model.ErrConfiguration, key, variant)
		}
	}
	return nil
}

func parseRequest(r *http.Request, base pipeline.Request) (pipeline.Request, export.Format, error) {
	q := r.URL.Query()
	req := base
	format := export.FormatJSON
	if s := q.Get("behavior"); s != "" {
		b, err := model.ParseChargeBehavior(s)
		if err != nil {
			return req, format, err
		}
		req.Family.Behavior = b
	}
	if s := q.Get("flexibility"); s != "" {
		f, err := model.ParseFlexibility(s)
		if err != nil {
			return req, format, err
		}
		req.Family.Flexibility = f
	}
	if s := q.Get("station_type"); s != "" {
		st, err := model.ParseStationType(s)
		if err != nil {
			return req, format, err
		}
		req.Station = st
	}
	if s := q.Get("ev_percent"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return req, format, fmt.Errorf("%w: ev_percent %q is not a number", model.ErrRange, s)
		}
		req.EVPercent = v
	}
	if s := q.Get("assumed_percent"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return req, format, fmt.Errorf("%w: assumed_percent %q is not a number", model.ErrConfiguration, s)
		}
		req.AssumedPercent = v
	}
	if s := q.Get("format"); s != "" {
		f, err := export.ParseFormat(s)
		if err != nil {
			return req, format, err
		}
		format = f
	}
	return req, format, nil
}
