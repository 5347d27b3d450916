package qubo

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Ising is the spin form of a Model: variables take values in {-1, +1}
// instead of {0, 1}. H holds the per-spin fields, J the couplings (read
// symmetrically, stored once per pair), and Offset the constant absorbed
// by the change of variables. Useful when handing the problem to
// spin-based samplers or annealing hardware.
type Ising struct {
	H      []float64
	J      *mat.SymDense
	Offset float64
}

// ToIsing rewrites the model over spins via x = (1+s)/2. The offset is
// tracked exactly: for every assignment, Model.Energy(x) equals
// Ising.Energy(s) for the corresponding spins.
func (m *Model) ToIsing() *Ising {
	is := &Ising{
		H:      make([]float64, m.n),
		J:      mat.NewSymDense(m.n, nil),
		Offset: m.offset,
	}
	for i := 0; i < m.n; i++ {
		a := m.coeffs.At(i, i)
		is.H[i] += a / 2
		is.Offset += a / 2
		for j := i + 1; j < m.n; j++ {
			b := m.coeffs.At(i, j)
			if b == 0 {
				continue
			}
			is.J.SetSym(i, j, b/4)
			is.H[i] += b / 4
			is.H[j] += b / 4
			is.Offset += b / 4
		}
	}
	return is
}

// Energy evaluates the spin form. Every spin must be +1 or -1.
func (is *Ising) Energy(spins []int8) (float64, error) {
	n := len(is.H)
	if len(spins) != n {
		return 0, fmt.Errorf("assignment has %d spins, model has %d", len(spins), n)
	}
	for i, s := range spins {
		if s != 1 && s != -1 {
			return 0, fmt.Errorf("spin %d must be +1 or -1, got %d", i, s)
		}
	}
	e := is.Offset
	for i := 0; i < n; i++ {
		e += is.H[i] * float64(spins[i])
		for j := i + 1; j < n; j++ {
			if w := is.J.At(i, j); w != 0 {
				e += w * float64(spins[i]) * float64(spins[j])
			}
		}
	}
	return e, nil
}
