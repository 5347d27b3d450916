// Package qubo implements a compact quadratic unconstrained binary
// optimization (QUBO) model: linear and pairwise coefficients over binary
// variables plus a constant offset. It is domain-free by design — variable
// meanings live in the caller — so the package has no dependencies on the
// race kernel.
package qubo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Model is a QUBO over n binary variables. Energy of an assignment x is
//
//	E(x) = sum_i a_i x_i + sum_{i<j} b_ij x_i x_j + offset
//
// Coefficients live in a symmetric matrix: the diagonal holds the linear
// terms a_i, off-diagonal entries hold the pairwise terms b_ij (stored
// once, read symmetrically). Energies include the offset, so penalty
// expansions can be exact: a fully satisfied constraint contributes zero
// net energy rather than a spurious constant.
type Model struct {
	n      int
	coeffs *mat.SymDense
	offset float64
}

// NewModel allocates a model over n variables with all coefficients zero.
func NewModel(n int) (*Model, error) {
	if n < 1 {
		return nil, fmt.Errorf("model needs at least one variable, got %d", n)
	}
	return &Model{n: n, coeffs: mat.NewSymDense(n, nil)}, nil
}

// NumVariables returns the number of binary variables.
func (m *Model) NumVariables() int { return m.n }

// AddLinear accumulates w onto variable i's linear coefficient.
func (m *Model) AddLinear(i int, w float64) {
	m.coeffs.SetSym(i, i, m.coeffs.At(i, i)+w)
}

// AddQuadratic accumulates w onto the pairwise coefficient of (i, j).
// Order does not matter. Since x*x = x for binary x, i == j folds into
// the linear term.
func (m *Model) AddQuadratic(i, j int, w float64) {
	if i == j {
		m.AddLinear(i, w)
		return
	}
	m.coeffs.SetSym(i, j, m.coeffs.At(i, j)+w)
}

// AddOffset accumulates a constant onto the model's energy offset.
func (m *Model) AddOffset(w float64) { m.offset += w }

// Linear returns variable i's linear coefficient.
func (m *Model) Linear(i int) float64 { return m.coeffs.At(i, i) }

// Quadratic returns the pairwise coefficient of (i, j); zero when i == j.
func (m *Model) Quadratic(i, j int) float64 {
	if i == j {
		return 0
	}
	return m.coeffs.At(i, j)
}

// Offset returns the constant energy offset.
func (m *Model) Offset() float64 { return m.offset }

// Energy evaluates the model at a binary assignment. Any nonzero entry of
// x is treated as 1. The offset is included.
func (m *Model) Energy(x []int8) (float64, error) {
	if len(x) != m.n {
		return 0, fmt.Errorf("assignment has %d variables, model has %d", len(x), m.n)
	}
	e := m.offset
	for i := 0; i < m.n; i++ {
		if x[i] == 0 {
			continue
		}
		e += m.coeffs.At(i, i)
		for j := i + 1; j < m.n; j++ {
			if x[j] != 0 {
				e += m.coeffs.At(i, j)
			}
		}
	}
	return e, nil
}

// AddExactlyOne adds the constraint penalty weight*(sum(group)-1)^2,
// expanded exactly: -weight per variable, +2*weight per unordered pair,
// +weight onto the offset. Selecting exactly one member of the group
// contributes zero net energy; zero or multiple selections pay weight
// times the squared violation.
func (m *Model) AddExactlyOne(group []int, weight float64) {
	for _, i := range group {
		m.AddLinear(i, -weight)
	}
	for a := 0; a < len(group); a++ {
		for b := a + 1; b < len(group); b++ {
			m.AddQuadratic(group[a], group[b], 2*weight)
		}
	}
	m.AddOffset(weight)
}

// AddAtMostOneConflict penalizes co-selection inside the group with a flat
// +2*weight per unordered pair. Empty and single selections are free. It
// deliberately has no linear or constant part, so it never rewards filling
// the group up to some quota — it only punishes crowding.
func (m *Model) AddAtMostOneConflict(group []int, weight float64) {
	for a := 0; a < len(group); a++ {
		for b := a + 1; b < len(group); b++ {
			m.AddQuadratic(group[a], group[b], 2*weight)
		}
	}
}

// flipDelta is the energy change from flipping variable i under x.
func (m *Model) flipDelta(x []int8, i int) float64 {
	sum := m.coeffs.At(i, i)
	for j := 0; j < m.n; j++ {
		if j == i || x[j] == 0 {
			continue
		}
		sum += m.coeffs.At(i, j)
	}
	if x[i] != 0 {
		return -sum
	}
	return sum
}
