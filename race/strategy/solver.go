package strategy

import (
	"fmt"

	"github.com/sadieea/Quantum-RaceCraft/race"
	"github.com/sadieea/Quantum-RaceCraft/race/anneal"
)

// Solution is the outcome of sampling the schedule QUBO.
type Solution struct {
	Selected   []StopVar // variables set to 1, in canonical order
	Assignment []int8    // raw assignment aligned with the cost table
	Energy     float64   // QUBO energy, constant offset included
	Feasible   bool      // satisfies one-stop-per-car and pit capacity
	Reads      int       // annealing reads completed
	BestRead   int       // read that produced this solution
}

// IsFeasible reports whether a set of selected stops satisfies both hard
// constraints: exactly one stop per grid car, and at most capacity stops
// on any single lap. Feasibility is judged on the decoded variables, never
// on penalty energies.
func IsFeasible(selected []StopVar, grid []race.Car, capacity int) bool {
	if len(selected) != len(grid) {
		return false
	}
	perCar := make(map[string]int, len(grid))
	perLap := make(map[int]int)
	for _, v := range selected {
		perCar[v.CarID]++
		perLap[v.Lap]++
	}
	for _, car := range grid {
		if perCar[car.ID] != 1 {
			return false
		}
	}
	for _, n := range perLap {
		if n > capacity {
			return false
		}
	}
	return true
}

// SelectSolution scans energy-ordered samples and returns the first
// feasible one — the lowest-energy assignment that honours the hard
// constraints. When no read produced a feasible assignment, the
// lowest-energy infeasible sample comes back with Feasible=false as a
// diagnostic; callers should fall back to NaiveSchedule.
func SelectSolution(samples []anneal.Sample, table *CostTable, grid []race.Car, capacity int) (Solution, error) {
	if len(samples) == 0 {
		return Solution{}, fmt.Errorf("no samples to select from")
	}
	if table == nil {
		return Solution{}, fmt.Errorf("cost table cannot be nil")
	}
	for _, s := range samples {
		selected, err := selectedVars(s.Assignment, table)
		if err != nil {
			return Solution{}, err
		}
		if IsFeasible(selected, grid, capacity) {
			return newSolution(s, selected, true, len(samples)), nil
		}
	}
	best := samples[0]
	selected, err := selectedVars(best.Assignment, table)
	if err != nil {
		return Solution{}, err
	}
	return newSolution(best, selected, false, len(samples)), nil
}

func newSolution(s anneal.Sample, selected []StopVar, feasible bool, reads int) Solution {
	return Solution{
		Selected:   selected,
		Assignment: append([]int8(nil), s.Assignment...),
		Energy:     s.Energy,
		Feasible:   feasible,
		Reads:      reads,
		BestRead:   s.Read,
	}
}

func selectedVars(x []int8, table *CostTable) ([]StopVar, error) {
	if len(x) != table.Len() {
		return nil, fmt.Errorf("assignment has %d variables, cost table has %d", len(x), table.Len())
	}
	var out []StopVar
	for i, b := range x {
		if b != 0 {
			out = append(out, table.VarAt(i))
		}
	}
	return out, nil
}
