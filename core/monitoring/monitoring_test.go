package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recordMonitor struct {
	err     error
	tags    map[string]string
	flushed bool
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.err = err
	r.tags = tags
}
func (r *recordMonitor) Flush(time.Duration) { r.flushed = true }

func TestGlobalMonitor(t *testing.T) {
	rec := &recordMonitor{}
	Init(rec)
	defer Init(NopMonitor{})
	Init(nil)

	CaptureException(errors.New("boom"), map[string]string{"stage": "load"})
	Flush(time.Second)
	if rec.err == nil || rec.tags["stage"] != "load" {
		t.Fatalf("exception not forwarded: %+v", rec)
	}
	if !rec.flushed {
		t.Fatalf("flush not forwarded")
	}
}
