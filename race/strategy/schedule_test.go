package strategy

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/sadieea/Quantum-RaceCraft/race"
)

func TestDecodeSchedule(t *testing.T) {
	grid := []race.Car{
		{ID: "a", Compound: race.CompoundSoft},
		{ID: "b", Compound: race.CompoundMedium},
	}

	// GIVEN a feasible solution WHEN decoding THEN each car maps to its lap
	sol := Solution{
		Selected: []StopVar{{CarID: "a", Lap: 4}, {CarID: "b", Lap: 6}},
		Feasible: true,
	}
	sched, err := DecodeSchedule(sol, grid)
	if err != nil {
		t.Fatalf("DecodeSchedule: %v", err)
	}
	if want := (Schedule{"a": 4, "b": 6}); !reflect.DeepEqual(sched, want) {
		t.Errorf("schedule = %v, want %v", sched, want)
	}
}

func TestDecodeSchedule_RefusesInfeasible(t *testing.T) {
	grid := []race.Car{{ID: "a", Compound: race.CompoundSoft}}
	sol := Solution{
		Selected: []StopVar{{CarID: "a", Lap: 4}},
		Feasible: false,
	}

	_, err := DecodeSchedule(sol, grid)
	if err == nil {
		t.Fatal("expected error for infeasible solution, got nil")
	}
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("error = %v, want ErrInfeasible", err)
	}
}

func TestDecodeSchedule_MissingCar(t *testing.T) {
	grid := []race.Car{
		{ID: "a", Compound: race.CompoundSoft},
		{ID: "b", Compound: race.CompoundMedium},
	}
	// Feasible flag set but car b has no selected stop; the decoder must
	// not trust the flag blindly.
	sol := Solution{
		Selected: []StopVar{{CarID: "a", Lap: 4}},
		Feasible: true,
	}

	_, err := DecodeSchedule(sol, grid)
	if !errors.Is(err, ErrInfeasible) {
		t.Errorf("error = %v, want ErrInfeasible", err)
	}
}

func TestScheduleViews(t *testing.T) {
	sched := Schedule{"a": 10, "b": 10, "c": 12}

	lists := sched.StopLists()
	if want := map[string][]int{"a": {10}, "b": {10}, "c": {12}}; !reflect.DeepEqual(lists, want) {
		t.Errorf("StopLists = %v, want %v", lists, want)
	}

	occ := sched.Occupancy()
	if want := map[int]int{10: 2, 12: 1}; !reflect.DeepEqual(occ, want) {
		t.Errorf("Occupancy = %v, want %v", occ, want)
	}
}

func TestNaiveSchedule_Stagger(t *testing.T) {
	grid := []race.Car{
		{ID: "a", Compound: race.CompoundSoft},
		{ID: "b", Compound: race.CompoundMedium},
		{ID: "c", Compound: race.CompoundSoft},
	}
	window := StopWindow{First: 10, Last: 40}

	// Capacity 2: two cars share the midpoint lap, the third moves on.
	track := race.TrackConfig{TotalLaps: 50, BaseLapTime: 80, PitTimeLoss: 20, PitCapacity: 2}
	sched := NaiveSchedule(grid, window, track)
	if want := (Schedule{"a": 25, "b": 25, "c": 26}); !reflect.DeepEqual(sched, want) {
		t.Errorf("capacity 2: schedule = %v, want %v", sched, want)
	}

	// Capacity 1: strictly one car per lap.
	track.PitCapacity = 1
	sched = NaiveSchedule(grid, window, track)
	if want := (Schedule{"a": 25, "b": 26, "c": 27}); !reflect.DeepEqual(sched, want) {
		t.Errorf("capacity 1: schedule = %v, want %v", sched, want)
	}

	// Never more than capacity on one lap.
	for lap, n := range sched.Occupancy() {
		if n > track.PitCapacity {
			t.Errorf("lap %d has %d stops, capacity %d", lap, n, track.PitCapacity)
		}
	}
}

func TestNaiveSchedule_SpillsPastWindow(t *testing.T) {
	grid := []race.Car{
		{ID: "a", Compound: race.CompoundSoft},
		{ID: "b", Compound: race.CompoundSoft},
		{ID: "c", Compound: race.CompoundSoft},
	}

	// A two-lap window cannot hold three cars at capacity 1; the stagger
	// walks past the window end rather than stacking stops.
	track := race.TrackConfig{TotalLaps: 9, BaseLapTime: 80, PitTimeLoss: 10, PitCapacity: 1}
	sched := NaiveSchedule(grid, StopWindow{First: 7, Last: 8}, track)
	if want := (Schedule{"a": 7, "b": 8, "c": 9}); !reflect.DeepEqual(sched, want) {
		t.Errorf("forward spill: schedule = %v, want %v", sched, want)
	}

	// When the race runs out of laps it fills backwards from the midpoint.
	track.TotalLaps = 8
	sched = NaiveSchedule(grid, StopWindow{First: 6, Last: 7}, track)
	if want := (Schedule{"a": 6, "b": 7, "c": 8}); !reflect.DeepEqual(sched, want) {
		t.Errorf("schedule = %v, want %v", sched, want)
	}
	sched = NaiveSchedule(grid, StopWindow{First: 7, Last: 7}, track)
	if want := (Schedule{"a": 7, "b": 8, "c": 6}); !reflect.DeepEqual(sched, want) {
		t.Errorf("backward fill: schedule = %v, want %v", sched, want)
	}
}

func TestVerifySchedule(t *testing.T) {
	track := race.TrackConfig{TotalLaps: 5, BaseLapTime: 80, PitTimeLoss: 10, PitCapacity: 2}
	sim := testSimulator(t, track)
	grid := []race.Car{
		{ID: "a", Compound: race.CompoundSoft},
		{ID: "b", Compound: race.CompoundSoft},
	}

	traces, total, err := VerifySchedule(sim, grid, Schedule{"a": 2, "b": 3})
	if err != nil {
		t.Fatalf("VerifySchedule: %v", err)
	}
	if len(traces) != 2 {
		t.Fatalf("got %d traces, want 2", len(traces))
	}
	// a: 80 + (80.4+10) + 80.8 + 80.95 + 81.1 = 413.25 (stop lap 2)
	// b: 80 + 80.4 + (80.8+10) + 80.8 + 80.95 = 412.95 (stop lap 3)
	if math.Abs(traces[0].TotalTime-413.25) > 1e-9 {
		t.Errorf("car a total = %v, want 413.25", traces[0].TotalTime)
	}
	if math.Abs(traces[1].TotalTime-412.95) > 1e-9 {
		t.Errorf("car b total = %v, want 412.95", traces[1].TotalTime)
	}
	if math.Abs(total-826.2) > 1e-9 {
		t.Errorf("field total = %v, want 826.2", total)
	}

	// An out-of-range stop surfaces the simulator's error.
	if _, _, err := VerifySchedule(sim, grid, Schedule{"a": 99, "b": 3}); err == nil {
		t.Error("out-of-range stop: expected error, got nil")
	}
}
