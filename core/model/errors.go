package model

import "errors"

// Error taxonomy shared by every stage of the schedule pipeline. Stages wrap
// these with context, callers match them with errors.Is.
var (
	// ErrResourceNotFound is returned when a profile resource is absent.
	ErrResourceNotFound = errors.New("resource not found")
	// ErrFormat is returned for ragged, empty or non-numeric profile data.
	ErrFormat = errors.New("format error")
	// ErrConfiguration is returned for unmapped station types and empty or
	// invalid cohorts.
	ErrConfiguration = errors.New("configuration error")
	// ErrDegenerateInput is returned when the overall peak is not positive.
	ErrDegenerateInput = errors.New("degenerate input")
	// ErrRange is returned when the adoption percent is outside [0,100].
	ErrRange = errors.New("range error")
)

// ErrorKind classifies err by the sentinel it wraps. It returns "" for nil
// and "internal" for errors outside the taxonomy.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrResourceNotFound):
		return "resource_not_found"
	case errors.Is(err, ErrFormat):
		return "format"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrDegenerateInput):
		return "degenerate_input"
	case errors.Is(err, ErrRange):
		return "range"
	default:
		return "internal"
	}
}
