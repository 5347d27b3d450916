// Package strategy turns race simulations into pit-stop schedules. The
// pipeline runs in five stages: estimate per-(car, lap) stop costs by
// counterfactual simulation, assemble them with constraint penalties into
// a QUBO, sample it with seeded simulated annealing, select the best
// feasible read, then decode and replay the winning schedule through the
// simulator for verified totals.
package strategy

import (
	"fmt"

	"github.com/segmentio/ksuid"
	"github.com/sirupsen/logrus"

	"github.com/sadieea/Quantum-RaceCraft/race"
	"github.com/sadieea/Quantum-RaceCraft/race/anneal"
)

// Config collects everything the optimizer needs besides the grid.
type Config struct {
	Track   race.TrackConfig
	Window  StopWindow      // zero value: DefaultStopWindow(Track)
	Weights PenaltyWeights  // zero value: DefaultPenaltyWeights
	Reads   int             // annealing reads; <=0 uses anneal.DefaultReads
	Sweeps  int             // sweeps per read; <=0 uses anneal.DefaultSweeps
	Seed    int64           // 0 derives a seed from the wall clock
	Workers int             // parallelism for costs and reads; <=0 means GOMAXPROCS
	Policy  race.TyrePolicy // nil: fixed mediums at every stop
}

// Optimizer wires the full pipeline behind a single Optimize call.
type Optimizer struct {
	cfg Config
	sim *race.Simulator
}

// New validates the configuration and builds the optimizer. Zero-valued
// Window and Weights get the documented defaults before validation.
func New(cfg Config) (*Optimizer, error) {
	model, err := race.NewDegradationLapModel(cfg.Track.BaseLapTime)
	if err != nil {
		return nil, err
	}
	sim, err := race.NewSimulator(cfg.Track, model, cfg.Policy)
	if err != nil {
		return nil, err
	}
	if (cfg.Window == StopWindow{}) {
		cfg.Window = DefaultStopWindow(cfg.Track)
	}
	if (cfg.Weights == PenaltyWeights{}) {
		cfg.Weights = DefaultPenaltyWeights
	}
	if err := cfg.Window.Validate(cfg.Track); err != nil {
		return nil, err
	}
	return &Optimizer{cfg: cfg, sim: sim}, nil
}

// Simulator exposes the underlying simulator, for replaying plans.
func (o *Optimizer) Simulator() *race.Simulator { return o.sim }

// FieldSummary describes one full-field schedule: who stops when, the
// replayed traces (grid order), the field total, and per-lap pit
// occupancy.
type FieldSummary struct {
	Schedule  Schedule
	Traces    []race.LapTrace
	TotalTime float64
	Occupancy map[int]int
}

// Plan is the optimizer's report: the staggered naive baseline, the
// recommendation, and the raw solver outcome behind it. When the solver
// found nothing feasible — or its schedule replayed worse than the
// baseline — the recommendation is the baseline itself and UsedFallback
// is set.
type Plan struct {
	RunID        string
	Track        race.TrackConfig
	Window       StopWindow
	Grid         []race.Car
	NoStopTotals map[string]float64
	Baseline     FieldSummary
	Optimized    FieldSummary
	Solution     Solution
	UsedFallback bool
}

// Improvement is the verified gain of the recommendation over the naive
// baseline, in seconds. Zero when the baseline was kept.
func (p *Plan) Improvement() float64 {
	return p.Baseline.TotalTime - p.Optimized.TotalTime
}

// Optimize runs the pipeline for one grid and returns the plan.
func (o *Optimizer) Optimize(grid []race.Car) (*Plan, error) {
	if err := race.ValidateGrid(grid); err != nil {
		return nil, err
	}
	if o.cfg.Track.PitCapacity > len(grid) {
		return nil, fmt.Errorf("pit capacity %d exceeds grid size %d", o.cfg.Track.PitCapacity, len(grid))
	}

	table, err := EstimateStopCosts(o.sim, grid, o.cfg.Window, o.cfg.Workers)
	if err != nil {
		return nil, err
	}
	logrus.Infof("estimated %d stop costs: %d cars, laps %d..%d",
		table.Len(), len(grid), o.cfg.Window.First, o.cfg.Window.Last)

	model, err := BuildQUBO(table, grid, o.cfg.Track, o.cfg.Window, o.cfg.Weights)
	if err != nil {
		return nil, err
	}

	sampler := anneal.New(o.cfg.Reads, o.cfg.Sweeps, o.cfg.Seed)
	sampler.Workers = o.cfg.Workers
	samples, err := sampler.Sample(model)
	if err != nil {
		return nil, err
	}

	sol, err := SelectSolution(samples, table, grid, o.cfg.Track.PitCapacity)
	if err != nil {
		return nil, err
	}
	logrus.Infof("annealed %d reads: best energy %.3f from read %d, feasible=%t",
		sol.Reads, sol.Energy, sol.BestRead, sol.Feasible)

	naive := NaiveSchedule(grid, o.cfg.Window, o.cfg.Track)
	baseTraces, baseTotal, err := VerifySchedule(o.sim, grid, naive)
	if err != nil {
		return nil, err
	}

	plan := &Plan{
		RunID:        ksuid.New().String(),
		Track:        o.cfg.Track,
		Window:       o.cfg.Window,
		Grid:         append([]race.Car(nil), grid...),
		NoStopTotals: table.Baselines(),
		Baseline: FieldSummary{
			Schedule:  naive,
			Traces:    baseTraces,
			TotalTime: baseTotal,
			Occupancy: naive.Occupancy(),
		},
		Solution: sol,
	}

	if !sol.Feasible {
		logrus.Warnf("no feasible schedule in %d reads; keeping the staggered baseline", sol.Reads)
		plan.Optimized = plan.Baseline
		plan.UsedFallback = true
		return plan, nil
	}

	sched, err := DecodeSchedule(sol, grid)
	if err != nil {
		return nil, err
	}
	traces, total, err := VerifySchedule(o.sim, grid, sched)
	if err != nil {
		return nil, err
	}
	if total > baseTotal {
		logrus.Warnf("annealed schedule replays worse than the baseline (%.3fs vs %.3fs); keeping the baseline", total, baseTotal)
		plan.Optimized = plan.Baseline
		plan.UsedFallback = true
		return plan, nil
	}
	plan.Optimized = FieldSummary{
		Schedule:  sched,
		Traces:    traces,
		TotalTime: total,
		Occupancy: sched.Occupancy(),
	}
	return plan, nil
}
