// Package normalize turns aggregated day-type sequences into dimensionless
// shapes scaled by a single peak shared across all day types.
package normalize

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/evload/core/model"
)

// Peak returns the largest value across all three sequences.
func Peak(seqs model.ByDay[[]float64]) (float64, error) {
	peak := math.Inf(-1)
	for _, d := range model.DayTypes {
		s := seqs.Get(d)
		if len(s) == 0 {
			return 0, fmt.Errorf("%w: %s sequence is empty", model.ErrDegenerateInput, d)
		}
		for _, v := range s {
			if math.IsNaN(v) {
				return 0, fmt.Errorf("%w: %s sequence contains NaN", model.ErrDegenerateInput, d)
			}
		}
		if m := floats.Max(s); m > peak {
			peak = m
		}
	}
	return peak, nil
}

// Normalize divides every value by the overall peak and returns the scaled
// copies together with the peak in the input unit (kW). A peak that is not
// strictly positive is rejected.
func Normalize(seqs model.ByDay[[]float64]) (model.ByDay[[]float64], float64, error) {
	peak, err := Peak(seqs)
	if err != nil {
		return model.ByDay[[]float64]{}, 0, err
	}
	if peak <= 0 || math.IsInf(peak, 0) {
		return model.ByDay[[]float64]{}, 0, fmt.Errorf("%w: peak load %v", model.ErrDegenerateInput, peak)
	}
	out, err := model.MapDays(seqs, func(_ model.DayType, s []float64) ([]float64, error) {
		n := make([]float64, len(s))
		for i, v := range s {
			n[i] = v / peak
		}
		return n, nil
	})
	return out, peak, err
}
