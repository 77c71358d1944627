// Package runs exposes the run log over HTTP.
package runs

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kilianp07/evload/core/model"
	"github.com/kilianp07/evload/core/runlog"
)

// NewRunsHandler returns an HTTP handler exposing past runs via GET /api/runs.
// Requests must include an Authorization header with "Bearer <token>" when token is non-empty.
func NewRunsHandler(store runlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if token != "" {
			auth := r.Header.Get("Authorization")
			if auth != "Bearer "+token {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
		}
		q := ParseQuery(r.URL.Query())
		records, err := store.Query(r.Context(), q)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if records == nil {
			records = []runlog.RunRecord{}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(records); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}

// ParseQuery builds a run query from URL values. Malformed values are ignored.
func ParseQuery(v url.Values) runlog.RunQuery {
	get := v.Get
	q := runlog.RunQuery{Status: get("status")}
	if s := get("start"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.Start = t
		}
	}
	if s := get("end"); s != "" {
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			q.End = t
		}
	}
	if s := get("station_type"); s != "" {
		q.Station = model.StationType(s)
	}
	if s := get("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			q.Limit = n
		}
	}
	return q
}
