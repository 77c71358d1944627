package model

import (
	"fmt"
	"strconv"
	"strings"
)

// DayType is one of the three schedule shapes produced per run. Values are
// the file codes used in resource names.
type DayType int

const (
	Weekday DayType = iota + 1
	Saturday
	Sunday
)

// DayTypes lists the day types in file-code order.
var DayTypes = []DayType{Weekday, Saturday, Sunday}

func (d DayType) String() string {
	switch d {
	case Weekday:
		return "weekday"
	case Saturday:
		return "saturday"
	case Sunday:
		return "sunday"
	default:
		return "unknown"
	}
}

// Code returns the integer used in profile file names.
func (d DayType) Code() int { return int(d) }

// ByDay holds one value per day type.
type ByDay[T any] struct {
	Weekday  T `json:"weekday"`
	Saturday T `json:"saturday"`
	Sunday   T `json:"sunday"`
}

// Get returns the value for d. It panics on an unknown day type since every
// DayType value is produced by this package.
func (b ByDay[T]) Get(d DayType) T {
	switch d {
	case Weekday:
		return b.Weekday
	case Saturday:
		return b.Saturday
	case Sunday:
		return b.Sunday
	}
	panic(fmt.Sprintf("unknown day type %d", int(d)))
}

// Set stores v for d.
func (b *ByDay[T]) Set(d DayType, v T) {
	switch d {
	case Weekday:
		b.Weekday = v
	case Saturday:
		b.Saturday = v
	case Sunday:
		b.Sunday = v
	default:
		panic(fmt.Sprintf("unknown day type %d", int(d)))
	}
}

// MapDays applies fn to each day type in order and stops at the first error.
func MapDays[T, U any](in ByDay[T], fn func(DayType, T) (U, error)) (ByDay[U], error) {
	var out ByDay[U]
	for _, d := range DayTypes {
		v, err := fn(d, in.Get(d))
		if err != nil {
			return ByDay[U]{}, err
		}
		out.Set(d, v)
	}
	return out, nil
}

// MarshalText encodes the day type by name.
func (d DayType) MarshalText() ([]byte, error) {
	if d < Weekday || d > Sunday {
		return nil, fmt.Errorf("unknown day type %d", int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText decodes a day type name.
func (d *DayType) UnmarshalText(b []byte) error {
	v, err := ParseDayType(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

// ParseDayType accepts a day type name (case-insensitive) or a file code.
func ParseDayType(s string) (DayType, error) {
	for _, d := range DayTypes {
		if strings.EqualFold(strings.TrimSpace(s), d.String()) || strings.TrimSpace(s) == strconv.Itoa(d.Code()) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("%w: day type %q", ErrConfiguration, s)
}
