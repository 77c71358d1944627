package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/kilianp07/evload/core/model"
)

func matrix(rows ...[]float64) model.LoadMatrix {
	d := mat.NewDense(len(rows), len(rows[0]), nil)
	for i, r := range rows {
		d.SetRow(i, r)
	}
	return model.NewLoadMatrix(d)
}

func TestAggregateMeanAtAssumedRate(t *testing.T) {
	m := matrix([]float64{10, 20, 30, 40}, []float64{30, 20, 10, 0})
	got, err := Aggregate(m, []int{0, 1}, 50, AssumedPercent)
	require.NoError(t, err)
	assert.Equal(t, []float64{20, 20, 20, 20}, got)
}

func TestAggregateSubsetOfRows(t *testing.T) {
	m := matrix([]float64{1, 1}, []float64{100, 100}, []float64{3, 5})
	got, err := Aggregate(m, []int{2, 0}, 50, AssumedPercent)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 3}, got)
}

func TestAggregateIsLinearInPercent(t *testing.T) {
	m := matrix([]float64{1.5, 7, 0, 2.25}, []float64{4, 0.5, 9, 3}, []float64{6, 6, 6, 6})
	idx := []int{0, 1, 2}
	base, err := Aggregate(m, idx, AssumedPercent, AssumedPercent)
	require.NoError(t, err)
	for _, p := range []float64{0, 12.5, 33, 50, 75, 100} {
		got, err := Aggregate(m, idx, p, AssumedPercent)
		require.NoError(t, err)
		want := make([]float64, len(base))
		floats.ScaleTo(want, p/AssumedPercent, base)
		assert.True(t, floats.EqualApprox(want, got, 1e-12), "percent %v: want %v got %v", p, want, got)
	}
}

func TestAggregateDoesNotMutateMatrix(t *testing.T) {
	m := matrix([]float64{1, 2}, []float64{3, 4})
	_, err := Aggregate(m, []int{0, 1}, 100, AssumedPercent)
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2}, m.RawRowView(0))
}

func TestAggregateConfigurationErrors(t *testing.T) {
	m := matrix([]float64{1, 2})
	_, err := Aggregate(m, nil, 50, AssumedPercent)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	_, err = Aggregate(m, []int{1}, 50, AssumedPercent)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	_, err = Aggregate(m, []int{-1}, 50, AssumedPercent)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	_, err = Aggregate(m, []int{0}, 50, 0)
	assert.ErrorIs(t, err, model.ErrConfiguration)
}

func TestFamily(t *testing.T) {
	fam := model.ByDay[model.LoadMatrix]{
		Weekday:  matrix([]float64{2, 4}, []float64{4, 8}),
		Saturday: matrix([]float64{0, 0}, []float64{2, 2}),
		Sunday:   matrix([]float64{1, 1}, []float64{1, 1}),
	}
	got, err := Family(fam, []int{0, 1}, 100, AssumedPercent)
	require.NoError(t, err)
	assert.Equal(t, []float64{6, 12}, got.Weekday)
	assert.Equal(t, []float64{2, 2}, got.Saturday)
	assert.Equal(t, []float64{2, 2}, got.Sunday)

	fam.Sunday = matrix([]float64{1, 1})
	_, err = Family(fam, []int{0, 1}, 100, AssumedPercent)
	assert.ErrorIs(t, err, model.ErrConfiguration)
	assert.Contains(t, err.Error(), "sunday")
}
