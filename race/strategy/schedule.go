package strategy

import (
	"errors"
	"fmt"

	"github.com/sadieea/Quantum-RaceCraft/race"
)

// ErrInfeasible marks a solution that violates the hard scheduling
// constraints. Callers seeing it should fall back to NaiveSchedule.
var ErrInfeasible = errors.New("solution violates scheduling constraints")

// Schedule maps car ID to its single pit-stop lap.
type Schedule map[string]int

// DecodeSchedule turns a feasible solution into a schedule. Solutions
// flagged infeasible are refused with ErrInfeasible — decoding one would
// produce a plan that cannot be driven.
func DecodeSchedule(sol Solution, grid []race.Car) (Schedule, error) {
	if !sol.Feasible {
		return nil, fmt.Errorf("cannot decode schedule: %w", ErrInfeasible)
	}
	sched := make(Schedule, len(grid))
	for _, v := range sol.Selected {
		sched[v.CarID] = v.Lap
	}
	for _, car := range grid {
		if _, ok := sched[car.ID]; !ok {
			return nil, fmt.Errorf("cannot decode schedule: car %s has no stop: %w", car.ID, ErrInfeasible)
		}
	}
	return sched, nil
}

// StopLists converts the schedule into the per-car stop lists the
// simulator consumes.
func (s Schedule) StopLists() map[string][]int {
	out := make(map[string][]int, len(s))
	for id, lap := range s {
		out[id] = []int{lap}
	}
	return out
}

// Occupancy counts scheduled stops per lap, for pit-lane constraint
// display. Laps with no stop are absent.
func (s Schedule) Occupancy() map[int]int {
	out := make(map[int]int)
	for _, lap := range s {
		out[lap]++
	}
	return out
}

// NaiveSchedule staggers the grid around the window midpoint: up to
// capacity cars per lap, walking one lap forward at a time, then filling
// backwards from the midpoint if the race runs out of laps. The stagger
// may spill past the window end — the window is a strategy preference,
// pit capacity is physical and is never exceeded.
func NaiveSchedule(grid []race.Car, window StopWindow, track race.TrackConfig) Schedule {
	mid := (window.First + window.Last) / 2
	laps := make([]int, 0, track.TotalLaps)
	for lap := mid; lap <= track.TotalLaps; lap++ {
		laps = append(laps, lap)
	}
	for lap := mid - 1; lap >= 1; lap-- {
		laps = append(laps, lap)
	}

	sched := make(Schedule, len(grid))
	for slot, car := range grid {
		sched[car.ID] = laps[min(slot/track.PitCapacity, len(laps)-1)]
	}
	return sched
}

// VerifySchedule replays a schedule through the simulator and returns the
// per-car traces plus the field total. This is the ground truth a decoded
// solution is reported against.
func VerifySchedule(sim *race.Simulator, grid []race.Car, sched Schedule) ([]race.LapTrace, float64, error) {
	traces, err := sim.SimulateField(grid, sched.StopLists())
	if err != nil {
		return nil, 0, err
	}
	var total float64
	for _, trace := range traces {
		total += trace.TotalTime
	}
	return traces, total, nil
}
