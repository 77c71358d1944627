// Package cohort maps charging-station types to the fixed sets of profile
// columns that represent them.
package cohort

import (
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evload/core/model"
)

// Table maps a station type to row indices of a model.LoadMatrix.
type Table map[model.StationType][]int

// defaultTable is the curated cohort assignment shipped with the standard
// profile families. Indices are zero-based profile columns.
var defaultTable = Table{
	model.StationHome: {
		0, 2, 5, 7, 8, 11, 14, 16, 19, 21, 23, 26, 28, 31, 33, 36, 38, 41, 44, 47,
	},
	model.StationWork: {
		1, 4, 9, 12, 15, 18, 22, 25, 29, 32, 35, 39, 42, 45, 48,
	},
	model.StationPublic: {
		3, 6, 10, 13, 17, 20, 24, 27, 30, 34, 37, 40, 43, 46, 49,
	},
}

// Default returns a copy of the bundled table.
func Default() Table {
	return defaultTable.Clone()
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	out := make(Table, len(t))
	for k, v := range t {
		out[k] = append([]int(nil), v...)
	}
	return out
}

// Select returns the cohort for station. An unmapped station or an empty
// cohort is a configuration error, never an empty average.
func (t Table) Select(station model.StationType) ([]int, error) {
	idx, ok := t[station]
	if !ok {
		return nil, fmt.Errorf("%w: no cohort for station type %q", model.ErrConfiguration, station)
	}
	if len(idx) == 0 {
		return nil, fmt.Errorf("%w: empty cohort for station type %q", model.ErrConfiguration, station)
	}
	return append([]int(nil), idx...), nil
}

// Validate checks that every cohort is non-empty and holds distinct,
// non-negative indices.
func (t Table) Validate() error {
	stations := make([]string, 0, len(t))
	for st := range t {
		stations = append(stations, string(st))
	}
	sort.Strings(stations)
	for _, s := range stations {
		idx := t[model.StationType(s)]
		if len(idx) == 0 {
			return fmt.Errorf("%w: empty cohort for station type %q", model.ErrConfiguration, s)
		}
		seen := make(map[int]struct{}, len(idx))
		for _, i := range idx {
			if i < 0 {
				return fmt.Errorf("%w: negative index %d for station type %q", model.ErrConfiguration, i, s)
			}
			if _, dup := seen[i]; dup {
				return fmt.Errorf("%w: duplicate index %d for station type %q", model.ErrConfiguration, i, s)
			}
			seen[i] = struct{}{}
		}
	}
	return nil
}

// DecodeTable reads a YAML document mapping station types to index lists:
//
//	home: [0, 2, 5]
//	work: [1, 4]
//	public: [3]
func DecodeTable(r io.Reader) (Table, error) {
	var raw map[string][]int
	if err := yaml.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode cohort table: %v", model.ErrConfiguration, err)
	}
	t := make(Table, len(raw))
	for k, v := range raw {
		st, err := model.ParseStationType(k)
		if err != nil {
			return nil, err
		}
		t[st] = v
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// LoadTable reads a cohort table override from path.
func LoadTable(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrConfiguration, err)
	}
	defer func() { _ = f.Close() }()
	return DecodeTable(f)
}
