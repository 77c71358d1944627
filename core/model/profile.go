package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ChargeBehavior identifies the charging incentive scenario the profiles were
// simulated under. Values are the file codes used in resource names.
type ChargeBehavior int

const (
	BehaviorBAU ChargeBehavior = iota + 1
	BehaviorFreeSiteCharging
	BehaviorFreeMetroCharging
)

var behaviorNames = map[ChargeBehavior]string{
	BehaviorBAU:               "BAU",
	BehaviorFreeSiteCharging:  "FreeSiteCharging",
	BehaviorFreeMetroCharging: "FreeMetroCharging",
}

// String returns the canonical name of the behavior.
func (b ChargeBehavior) String() string {
	if s, ok := behaviorNames[b]; ok {
		return s
	}
	return "unknown"
}

// Code returns the integer used in profile file names.
func (b ChargeBehavior) Code() int { return int(b) }

// Valid reports whether b is one of the known behaviors.
func (b ChargeBehavior) Valid() bool {
	_, ok := behaviorNames[b]
	return ok
}

// ParseChargeBehavior accepts a canonical name (case-insensitive) or a file code.
func ParseChargeBehavior(s string) (ChargeBehavior, error) {
	v, err := parseEnum(s, behaviorNames)
	if err != nil {
		return 0, fmt.Errorf("%w: charge behavior %q", ErrConfiguration, s)
	}
	return v, nil
}

// Flexibility identifies how much charging may be shifted in time.
type Flexibility int

const (
	FlexMinDelay Flexibility = iota + 1
	FlexMaxDelay
	FlexMinPower
)

var flexibilityNames = map[Flexibility]string{
	FlexMinDelay: "MinDelay",
	FlexMaxDelay: "MaxDelay",
	FlexMinPower: "MinPower",
}

func (f Flexibility) String() string {
	if s, ok := flexibilityNames[f]; ok {
		return s
	}
	return "unknown"
}

// Code returns the integer used in profile file names.
func (f Flexibility) Code() int { return int(f) }

// Valid reports whether f is one of the known flexibility options.
func (f Flexibility) Valid() bool {
	_, ok := flexibilityNames[f]
	return ok
}

// ParseFlexibility accepts a canonical name (case-insensitive) or a file code.
func ParseFlexibility(s string) (Flexibility, error) {
	v, err := parseEnum(s, flexibilityNames)
	if err != nil {
		return 0, fmt.Errorf("%w: flexibility %q", ErrConfiguration, s)
	}
	return v, nil
}

// StationType is the charging-station category a cohort represents.
type StationType string

const (
	StationHome   StationType = "home"
	StationWork   StationType = "work"
	StationPublic StationType = "public"
)

// StationTypes lists the known station categories in a stable order.
var StationTypes = []StationType{StationHome, StationWork, StationPublic}

// ParseStationType normalizes s to a known station type.
func ParseStationType(s string) (StationType, error) {
	st := StationType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range StationTypes {
		if st == known {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: station type %q", ErrConfiguration, s)
}

// ProfileFamilyKey selects the set of profile files for one scenario.
type ProfileFamilyKey struct {
	Behavior    ChargeBehavior
	Flexibility Flexibility
}

// Validate checks that both categories are known.
func (k ProfileFamilyKey) Validate() error {
	if !k.Behavior.Valid() {
		return fmt.Errorf("%w: charge behavior code %d", ErrConfiguration, int(k.Behavior))
	}
	if !k.Flexibility.Valid() {
		return fmt.Errorf("%w: flexibility code %d", ErrConfiguration, int(k.Flexibility))
	}
	return nil
}

func (k ProfileFamilyKey) String() string {
	return k.Behavior.String() + "/" + k.Flexibility.String()
}

func parseEnum[T ~int](s string, names map[T]string) (T, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		if _, ok := names[T(n)]; ok {
			return T(n), nil
		}
		return 0, fmt.Errorf("unknown code %d", n)
	}
	for v, name := range names {
		if strings.EqualFold(name, s) {
			return v, nil
		}
	}
	return 0, fmt.Errorf("unknown value %q", s)
}
