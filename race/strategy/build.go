package strategy

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sadieea/Quantum-RaceCraft/race"
	"github.com/sadieea/Quantum-RaceCraft/race/qubo"
)

// PenaltyWeights are the constraint weights of the schedule QUBO. OneStop
// enforces exactly one stop per car; Capacity punishes pit-lane crowding
// on contested laps. Both must dominate the cost deltas or the annealer
// will happily trade a violation for lap time.
type PenaltyWeights struct {
	OneStop  float64
	Capacity float64
}

// DefaultPenaltyWeights comfortably dominate the deltas of typical
// race-length problems.
var DefaultPenaltyWeights = PenaltyWeights{OneStop: 10000, Capacity: 5000}

// BuildQUBO assembles the schedule model over the cost table's canonical
// variable order:
//
//   - linear terms: the estimated stop-cost deltas
//   - per car: an exactly-one penalty (weight OneStop) across its window
//   - per window lap with more candidate cars than pit capacity: a flat
//     pairwise crowding penalty (weight Capacity) across that lap's
//     variables
//
// The crowding penalty deliberately has no linear or constant part: it
// only punishes co-stopping, never rewards filling the pit lane to some
// quota. Whether a solution actually honours "at most capacity per lap"
// is judged by IsFeasible on decoded variables, not by the energy.
func BuildQUBO(table *CostTable, grid []race.Car, track race.TrackConfig, window StopWindow, weights PenaltyWeights) (*qubo.Model, error) {
	if table == nil {
		return nil, fmt.Errorf("cost table cannot be nil")
	}
	if err := race.ValidateGrid(grid); err != nil {
		return nil, err
	}
	if err := track.Validate(); err != nil {
		return nil, err
	}
	if err := window.Validate(track); err != nil {
		return nil, err
	}
	if track.PitCapacity > len(grid) {
		return nil, fmt.Errorf("pit capacity %d exceeds grid size %d", track.PitCapacity, len(grid))
	}
	if weights.OneStop <= 0 || weights.Capacity <= 0 {
		return nil, fmt.Errorf("penalty weights must be positive, got one-stop %v, capacity %v", weights.OneStop, weights.Capacity)
	}
	if maxAbs := table.MaxAbsCost(); weights.OneStop <= maxAbs || weights.Capacity <= maxAbs {
		return nil, fmt.Errorf("penalty weights (one-stop %v, capacity %v) do not dominate the largest cost delta %v; constraints would be tradeable",
			weights.OneStop, weights.Capacity, maxAbs)
	}
	if swing := table.CostSwing(); weights.OneStop < swing || weights.Capacity < swing {
		logrus.Warnf("penalty weights (one-stop %v, capacity %v) are below the summed cost swing %v; constraint dominance is not guaranteed",
			weights.OneStop, weights.Capacity, swing)
	}

	m, err := qubo.NewModel(table.Len())
	if err != nil {
		return nil, err
	}
	for i := 0; i < table.Len(); i++ {
		m.AddLinear(i, table.CostAt(i))
	}

	for _, car := range grid {
		group := make([]int, 0, window.Len())
		for _, lap := range window.Laps() {
			i, ok := table.Index(StopVar{CarID: car.ID, Lap: lap})
			if !ok {
				return nil, fmt.Errorf("cost table has no entry for car %s lap %d; table and window disagree", car.ID, lap)
			}
			group = append(group, i)
		}
		m.AddExactlyOne(group, weights.OneStop)
	}

	for _, lap := range window.Laps() {
		group := make([]int, 0, len(grid))
		for _, car := range grid {
			if i, ok := table.Index(StopVar{CarID: car.ID, Lap: lap}); ok {
				group = append(group, i)
			}
		}
		if len(group) > track.PitCapacity {
			m.AddAtMostOneConflict(group, weights.Capacity)
		}
	}
	return m, nil
}
