package strategy

import (
	"fmt"
	"math"
	"runtime"
	"sync"

	"gonum.org/v1/gonum/floats"

	"github.com/sadieea/Quantum-RaceCraft/race"
)

// StopVar identifies one binary scheduling decision: car CarID pits on
// lap Lap.
type StopVar struct {
	CarID string
	Lap   int
}

// CostTable holds the estimated time delta of every candidate stop,
// together with the zero-stop baselines the deltas were measured against.
// Variable order is canonical — grid order outer, window laps ascending
// inner — and is shared verbatim with the QUBO and the sampler.
type CostTable struct {
	vars      []StopVar
	index     map[StopVar]int
	costs     []float64
	baselines map[string]float64
}

// EstimateStopCosts simulates, for every (car, window lap) pair, the race
// with that single stop and records the total-time delta against the
// car's zero-stop baseline. Deltas are negative when stopping is faster
// than running through and are never clamped.
//
// Pairs are evaluated on a bounded worker pool. Each job writes a fixed
// slot, so the table is identical whatever the scheduling order.
func EstimateStopCosts(sim *race.Simulator, grid []race.Car, window StopWindow, workers int) (*CostTable, error) {
	if sim == nil {
		return nil, fmt.Errorf("simulator cannot be nil")
	}
	if err := race.ValidateGrid(grid); err != nil {
		return nil, err
	}
	if err := window.Validate(sim.Track); err != nil {
		return nil, err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	baselines := make(map[string]float64, len(grid))
	for _, car := range grid {
		trace, err := sim.Simulate(car, nil)
		if err != nil {
			return nil, fmt.Errorf("zero-stop baseline for car %s: %w", car.ID, err)
		}
		baselines[car.ID] = trace.TotalTime
	}

	laps := window.Laps()
	n := len(grid) * len(laps)
	table := &CostTable{
		vars:      make([]StopVar, 0, n),
		index:     make(map[StopVar]int, n),
		costs:     make([]float64, n),
		baselines: baselines,
	}
	carByID := make(map[string]race.Car, len(grid))
	for _, car := range grid {
		carByID[car.ID] = car
		for _, lap := range laps {
			v := StopVar{CarID: car.ID, Lap: lap}
			table.index[v] = len(table.vars)
			table.vars = append(table.vars, v)
		}
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)
	jobs := make(chan int)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				v := table.vars[idx]
				trace, err := sim.Simulate(carByID[v.CarID], []int{v.Lap})
				if err != nil {
					mu.Lock()
					if firstErr == nil {
						firstErr = fmt.Errorf("stop cost for car %s lap %d: %w", v.CarID, v.Lap, err)
					}
					mu.Unlock()
					continue
				}
				table.costs[idx] = trace.TotalTime - baselines[v.CarID]
			}
		}()
	}
	for idx := range table.vars {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}
	return table, nil
}

// Len is the number of decision variables.
func (t *CostTable) Len() int { return len(t.vars) }

// Vars returns a copy of the canonical variable order.
func (t *CostTable) Vars() []StopVar {
	return append([]StopVar(nil), t.vars...)
}

// VarAt returns the variable at canonical index i.
func (t *CostTable) VarAt(i int) StopVar { return t.vars[i] }

// CostAt returns the cost delta at canonical index i.
func (t *CostTable) CostAt(i int) float64 { return t.costs[i] }

// Index returns the canonical index of a variable.
func (t *CostTable) Index(v StopVar) (int, bool) {
	i, ok := t.index[v]
	return i, ok
}

// Cost returns the cost delta of a variable.
func (t *CostTable) Cost(v StopVar) (float64, bool) {
	i, ok := t.index[v]
	if !ok {
		return 0, false
	}
	return t.costs[i], true
}

// Baseline returns a car's zero-stop total time.
func (t *CostTable) Baseline(carID string) (float64, bool) {
	b, ok := t.baselines[carID]
	return b, ok
}

// Baselines returns a copy of the per-car zero-stop totals.
func (t *CostTable) Baselines() map[string]float64 {
	out := make(map[string]float64, len(t.baselines))
	for id, b := range t.baselines {
		out[id] = b
	}
	return out
}

// BaselineTotal is the field total when nobody stops.
func (t *CostTable) BaselineTotal() float64 {
	var total float64
	for _, b := range t.baselines {
		total += b
	}
	return total
}

// MaxAbsCost is the largest cost magnitude in the table. Penalty weights
// below this are degenerate: violating a constraint can pay for itself.
func (t *CostTable) MaxAbsCost() float64 {
	if len(t.costs) == 0 {
		return 0
	}
	abs := make([]float64, len(t.costs))
	for i, c := range t.costs {
		abs[i] = math.Abs(c)
	}
	return floats.Max(abs)
}

// CostSwing sums each car's cost range (max minus min). It bounds how much
// total linear cost any rescheduling can move, which is the scale penalty
// weights must dominate.
func (t *CostTable) CostSwing() float64 {
	lo := make(map[string]float64, len(t.baselines))
	hi := make(map[string]float64, len(t.baselines))
	for i, v := range t.vars {
		c := t.costs[i]
		if _, ok := lo[v.CarID]; !ok {
			lo[v.CarID], hi[v.CarID] = c, c
			continue
		}
		lo[v.CarID] = min(lo[v.CarID], c)
		hi[v.CarID] = max(hi[v.CarID], c)
	}
	var swing float64
	for id := range lo {
		swing += hi[id] - lo[id]
	}
	return swing
}
