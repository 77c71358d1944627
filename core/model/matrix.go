package model

import "gonum.org/v1/gonum/mat"

// LoadMatrix holds charging power in kW indexed as [profile][slot].
type LoadMatrix struct {
	*mat.Dense
}

// NewLoadMatrix wraps a dense matrix whose rows are profiles.
func NewLoadMatrix(d *mat.Dense) LoadMatrix { return LoadMatrix{Dense: d} }

// Profiles returns the number of vehicle profiles.
func (m LoadMatrix) Profiles() int {
	if m.Dense == nil || m.Dense.IsEmpty() {
		return 0
	}
	r, _ := m.Dims()
	return r
}

// Slots returns the number of time slots per profile.
func (m LoadMatrix) Slots() int {
	if m.Dense == nil || m.Dense.IsEmpty() {
		return 0
	}
	_, c := m.Dims()
	return c
}
