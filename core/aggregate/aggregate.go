// Package aggregate averages a cohort of charging profiles per time slot and
// rescales the result to the requested EV adoption rate.
package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/evload/core/model"
)

// AssumedPercent is the EV adoption rate the bundled profiles were generated
// under.
const AssumedPercent = 50.0

// Aggregate returns, for every slot, the mean over indices of matrix rows
// scaled by evPercent/assumedPercent. The scaling is linear in evPercent.
func Aggregate(matrix model.LoadMatrix, indices []int, evPercent, assumedPercent float64) ([]float64, error) {
	if len(indices) == 0 {
		return nil, fmt.Errorf("%w: empty cohort", model.ErrConfiguration)
	}
	if assumedPercent <= 0 {
		return nil, fmt.Errorf("%w: assumed adoption percent %v must be positive", model.ErrConfiguration, assumedPercent)
	}
	profiles := matrix.Profiles()
	out := make([]float64, matrix.Slots())
	for _, i := range indices {
		if i < 0 || i >= profiles {
			return nil, fmt.Errorf("%w: cohort index %d outside %d profiles", model.ErrConfiguration, i, profiles)
		}
		floats.Add(out, matrix.RawRowView(i))
	}
	floats.Scale(evPercent/(assumedPercent*float64(len(indices))), out)
	return out, nil
}

// Family aggregates each day type of a profile family with the same cohort.
func Family(fam model.ByDay[model.LoadMatrix], indices []int, evPercent, assumedPercent float64) (model.ByDay[[]float64], error) {
	return model.MapDays(fam, func(d model.DayType, m model.LoadMatrix) ([]float64, error) {
		seq, err := Aggregate(m, indices, evPercent, assumedPercent)
		if err != nil {
			return nil, fmt.Errorf("aggregate %s: %w", d, err)
		}
		return seq, nil
	})
}
