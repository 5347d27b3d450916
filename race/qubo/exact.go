package qubo

import (
	"fmt"
	"math/bits"
)

// maxBruteForceVariables caps exhaustive search at 2^24 assignments.
const maxBruteForceVariables = 24

// BruteForceMinimum enumerates every assignment and returns a minimizing
// one with its energy (offset included). Enumeration walks a Gray code, so
// each step flips exactly one variable and the energy updates
// incrementally. Ties keep the first minimum found, which makes the result
// deterministic. Intended for verifying sampler output on small models.
func BruteForceMinimum(m *Model) ([]int8, float64, error) {
	n := m.NumVariables()
	if n > maxBruteForceVariables {
		return nil, 0, fmt.Errorf("brute force limited to %d variables, got %d", maxBruteForceVariables, n)
	}

	x := make([]int8, n)
	energy := m.offset // the all-zeros assignment
	best := make([]int8, n)
	bestEnergy := energy

	// After step k the assignment mirrors the Gray code of k; the bit that
	// changes at step k is TrailingZeros(k).
	total := uint64(1) << uint(n)
	for k := uint64(1); k < total; k++ {
		i := bits.TrailingZeros64(k)
		energy += m.flipDelta(x, i)
		x[i] = 1 - x[i]
		if energy < bestEnergy {
			bestEnergy = energy
			copy(best, x)
		}
	}

	// Report the winner's exact energy, not the walk's accumulation.
	exact, err := m.Energy(best)
	if err != nil {
		return nil, 0, err
	}
	return best, exact, nil
}
