package strategy

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sadieea/Quantum-RaceCraft/race"
)

func threeCarConfig() (Config, []race.Car) {
	cfg := Config{
		Track:   race.TrackConfig{TotalLaps: 20, BaseLapTime: 90, PitTimeLoss: 20, PitCapacity: 2},
		Window:  StopWindow{First: 5, Last: 15},
		Weights: DefaultPenaltyWeights,
		Reads:   120,
		Sweeps:  2000,
		Seed:    7,
	}
	grid := []race.Car{
		{ID: "car-0", Compound: race.CompoundSoft},
		{ID: "car-1", Compound: race.CompoundMedium},
		{ID: "car-2", Compound: race.CompoundSoft},
	}
	return cfg, grid
}

func TestOptimize_ThreeCarField(t *testing.T) {
	// GIVEN a three-car field on a degradation-heavy 20-lap race
	cfg, grid := threeCarConfig()
	opt, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// WHEN optimizing
	plan, err := opt.Optimize(grid)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	// THEN the solver finds a feasible schedule and keeps it
	if !plan.Solution.Feasible {
		t.Fatal("expected a feasible solution")
	}
	if plan.UsedFallback {
		t.Fatal("expected the annealed schedule, not the fallback")
	}

	// AND the recommendation beats the staggered baseline
	if plan.Optimized.TotalTime > plan.Baseline.TotalTime {
		t.Errorf("optimized total %.3f exceeds baseline %.3f",
			plan.Optimized.TotalTime, plan.Baseline.TotalTime)
	}
	if plan.Improvement() < 0 {
		t.Errorf("Improvement() = %v, want >= 0", plan.Improvement())
	}

	// AND it beats the obvious non-strategy of pitting everyone on lap 10
	everyone := Schedule{"car-0": 10, "car-1": 10, "car-2": 10}
	_, allAtTen, err := VerifySchedule(opt.Simulator(), grid, everyone)
	if err != nil {
		t.Fatalf("VerifySchedule: %v", err)
	}
	if plan.Optimized.TotalTime > allAtTen {
		t.Errorf("optimized total %.3f exceeds everyone-at-lap-10 total %.3f",
			plan.Optimized.TotalTime, allAtTen)
	}

	// AND every stop lands inside the window under pit capacity
	for id, lap := range plan.Optimized.Schedule {
		if !cfg.Window.Contains(lap) {
			t.Errorf("car %s stops on lap %d, outside window %d..%d",
				id, lap, cfg.Window.First, cfg.Window.Last)
		}
	}
	for lap, n := range plan.Optimized.Occupancy {
		if n > cfg.Track.PitCapacity {
			t.Errorf("lap %d has %d stops, capacity %d", lap, n, cfg.Track.PitCapacity)
		}
	}
	if len(plan.Optimized.Schedule) != len(grid) {
		t.Errorf("schedule covers %d cars, want %d", len(plan.Optimized.Schedule), len(grid))
	}
}

func TestOptimize_Deterministic(t *testing.T) {
	cfg, grid := threeCarConfig()
	cfg.Reads = 20
	cfg.Sweeps = 600
	cfg.Seed = 42

	// Worker count must not leak into results, only into wall time.
	cfg.Workers = 1
	opt1, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plan1, err := opt1.Optimize(grid)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	cfg.Workers = 8
	opt2, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plan2, err := opt2.Optimize(grid)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	if !reflect.DeepEqual(plan1.Solution, plan2.Solution) {
		t.Errorf("solutions differ between runs:\n%+v\n%+v", plan1.Solution, plan2.Solution)
	}
	if !reflect.DeepEqual(plan1.Optimized.Schedule, plan2.Optimized.Schedule) {
		t.Errorf("schedules differ: %v vs %v", plan1.Optimized.Schedule, plan2.Optimized.Schedule)
	}
	if plan1.Optimized.TotalTime != plan2.Optimized.TotalTime {
		t.Errorf("totals differ: %v vs %v", plan1.Optimized.TotalTime, plan2.Optimized.TotalTime)
	}
	// Run IDs are minted per run and must not repeat.
	if plan1.RunID == plan2.RunID {
		t.Errorf("both plans share run ID %s", plan1.RunID)
	}
}

func TestOptimize_PigeonholeFallsBack(t *testing.T) {
	// GIVEN three cars, a two-lap window, and a single pit box — no
	// feasible assignment exists
	cfg := Config{
		Track:  race.TrackConfig{TotalLaps: 20, BaseLapTime: 90, PitTimeLoss: 20, PitCapacity: 1},
		Window: StopWindow{First: 10, Last: 11},
		Reads:  10,
		Sweeps: 500,
		Seed:   3,
	}
	grid := []race.Car{
		{ID: "car-0", Compound: race.CompoundSoft},
		{ID: "car-1", Compound: race.CompoundMedium},
		{ID: "car-2", Compound: race.CompoundSoft},
	}
	opt, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// WHEN optimizing
	plan, err := opt.Optimize(grid)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	// THEN the solver reports infeasibility and the baseline is kept
	if plan.Solution.Feasible {
		t.Error("expected an infeasible solution")
	}
	if !plan.UsedFallback {
		t.Error("expected UsedFallback")
	}
	if !reflect.DeepEqual(plan.Optimized.Schedule, plan.Baseline.Schedule) {
		t.Errorf("optimized schedule %v differs from baseline %v",
			plan.Optimized.Schedule, plan.Baseline.Schedule)
	}
	if plan.Improvement() != 0 {
		t.Errorf("Improvement() = %v, want 0 on fallback", plan.Improvement())
	}

	// AND the infeasible solution refuses to decode
	if _, err := DecodeSchedule(plan.Solution, grid); !errors.Is(err, ErrInfeasible) {
		t.Errorf("DecodeSchedule error = %v, want ErrInfeasible", err)
	}

	// AND the baseline spills past the window rather than stacking stops
	if want := (Schedule{"car-0": 10, "car-1": 11, "car-2": 12}); !reflect.DeepEqual(plan.Baseline.Schedule, want) {
		t.Errorf("baseline = %v, want %v", plan.Baseline.Schedule, want)
	}
	for lap, n := range plan.Baseline.Occupancy {
		if n > cfg.Track.PitCapacity {
			t.Errorf("baseline lap %d has %d stops, capacity %d", lap, n, cfg.Track.PitCapacity)
		}
	}
}

func TestOptimize_EnergyMatchesReplay(t *testing.T) {
	// With the whole grid under pit capacity no crowding penalties exist,
	// so a feasible solution's energy is exactly the sum of its selected
	// stop-cost deltas: replayed total == no-stop total + energy.
	cfg := Config{
		Track:  race.TrackConfig{TotalLaps: 12, BaseLapTime: 80, PitTimeLoss: 15, PitCapacity: 2},
		Window: StopWindow{First: 4, Last: 8},
		Reads:  20,
		Sweeps: 800,
		Seed:   11,
	}
	grid := []race.Car{
		{ID: "car-0", Compound: race.CompoundSoft},
		{ID: "car-1", Compound: race.CompoundMedium},
	}
	opt, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plan, err := opt.Optimize(grid)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}
	if !plan.Solution.Feasible {
		t.Fatal("expected a feasible solution")
	}

	sched, err := DecodeSchedule(plan.Solution, grid)
	if err != nil {
		t.Fatalf("DecodeSchedule: %v", err)
	}
	_, total, err := VerifySchedule(opt.Simulator(), grid, sched)
	if err != nil {
		t.Fatalf("VerifySchedule: %v", err)
	}
	var noStop float64
	for _, base := range plan.NoStopTotals {
		noStop += base
	}
	if math.Abs(total-(noStop+plan.Solution.Energy)) > 1e-6 {
		t.Errorf("replayed total %.6f != no-stop %.6f + energy %.6f",
			total, noStop, plan.Solution.Energy)
	}
}

func TestOptimize_Validation(t *testing.T) {
	cfg, grid := threeCarConfig()

	// Pit capacity beyond the grid size means the crowding constraint is
	// meaningless; refuse it.
	narrow := cfg
	narrow.Track.PitCapacity = 4
	opt, err := New(narrow)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := opt.Optimize(grid); err == nil {
		t.Error("capacity beyond grid: expected error, got nil")
	}

	if _, err := opt.Optimize(nil); err == nil {
		t.Error("empty grid: expected error, got nil")
	}

	bad := cfg
	bad.Track.BaseLapTime = 0
	if _, err := New(bad); err == nil {
		t.Error("zero base lap time: expected error, got nil")
	}

	bad = cfg
	bad.Window = StopWindow{First: 1, Last: 15}
	if _, err := New(bad); err == nil {
		t.Error("window opening on lap 1: expected error, got nil")
	}
}

func TestNew_Defaults(t *testing.T) {
	// Zero-valued window and weights pick up the documented defaults.
	cfg := Config{
		Track:  race.TrackConfig{TotalLaps: 50, BaseLapTime: 80, PitTimeLoss: 20, PitCapacity: 2},
		Reads:  10,
		Sweeps: 300,
		Seed:   5,
	}
	grid := []race.Car{
		{ID: "car-0", Compound: race.CompoundSoft},
		{ID: "car-1", Compound: race.CompoundMedium},
		{ID: "car-2", Compound: race.CompoundSoft},
	}
	opt, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	plan, err := opt.Optimize(grid)
	if err != nil {
		t.Fatalf("Optimize: %v", err)
	}

	window := DefaultStopWindow(cfg.Track)
	if window.First != 10 || window.Last != 40 {
		t.Fatalf("DefaultStopWindow = %+v, want {10 40}", window)
	}
	for id, lap := range plan.Optimized.Schedule {
		if !window.Contains(lap) {
			t.Errorf("car %s stops on lap %d, outside default window %d..%d",
				id, lap, window.First, window.Last)
		}
	}
}
