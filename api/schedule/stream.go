package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	coreschedule "github.com/kilianp07/evload/core/schedule"
	"github.com/kilianp07/evload/internal/eventbus"
)

// Stream carries every published schedule to live HTTP subscribers.
type Stream = eventbus.Bus[coreschedule.Envelope]

// NewStream creates a Stream.
func NewStream() *Stream { return eventbus.New[coreschedule.Envelope](16) }

// StreamPublisher implements schedule.Publisher on top of a Stream so API
// clients see schedules as they are computed.
type StreamPublisher struct {
	Stream *Stream
}

// Publish forwards env to the current subscribers.
func (p StreamPublisher) Publish(_ context.Context, env coreschedule.Envelope) error {
	p.Stream.Publish(env)
	return nil
}

// Close closes the stream and disconnects subscribers.
func (p StreamPublisher) Close() error {
	p.Stream.Close()
	return nil
}

// NewStreamHandler returns a server-sent events handler for
// GET /api/schedule/stream. Each published schedule is sent as a "schedule"
// event carrying the JSON envelope.
func NewStreamHandler(stream *Stream) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			http.Error(w, "streaming unsupported", http.StatusInternalServerError)
			return
		}
		ch := stream.Subscribe(r.Context())
		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		for env := range ch {
			b, err := json.Marshal(env)
			if err != nil {
				return
			}
			if _, err := fmt.Fprintf(w, "event: schedule\nid: %s\ndata: %s\n\n", env.RunID, b); err != nil {
				return
			}
			flusher.Flush()
		}
	})
}
