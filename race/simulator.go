package race

import "fmt"

// Simulator replays full race distances lap by lap under a fixed stop plan.
// It is a pure fold over laps: no RNG, no shared state, so the same inputs
// always produce the same trace.
type Simulator struct {
	Track  TrackConfig
	Model  LapModel
	Policy TyrePolicy
}

// NewSimulator validates the track and wires the lap model and tyre policy.
// A nil policy falls back to DefaultTyrePolicy (fixed mediums).
func NewSimulator(track TrackConfig, model LapModel, policy TyrePolicy) (*Simulator, error) {
	if err := track.Validate(); err != nil {
		return nil, fmt.Errorf("invalid track config: %w", err)
	}
	if model == nil {
		return nil, fmt.Errorf("lap model cannot be nil")
	}
	if policy == nil {
		policy = DefaultTyrePolicy()
	}
	return &Simulator{Track: track, Model: model, Policy: policy}, nil
}

// LapTrace is the outcome of simulating one car over the full race distance.
type LapTrace struct {
	CarID     string
	Stops     []int     // pit laps driven, ascending
	LapTimes  []float64 // LapTimes[i] is lap i+1; pit loss folded into stop laps
	TotalTime float64   // exact sum of LapTimes
}

// Simulate replays one car through the race under the given stop laps.
// Stops must be strictly increasing and inside 1..TotalLaps; zero, one, or
// many stops are all valid. On a stop lap the car pays PitTimeLoss on top
// of the lap time driven on the worn tyres, then leaves with fresh tyres
// chosen by the tyre policy (age 0 from the following lap).
func (s *Simulator) Simulate(car Car, stops []int) (LapTrace, error) {
	if _, err := car.Compound.Params(); err != nil {
		return LapTrace{}, fmt.Errorf("car %s: %w", car.ID, err)
	}
	if err := validateStops(stops, s.Track.TotalLaps); err != nil {
		return LapTrace{}, fmt.Errorf("car %s: %w", car.ID, err)
	}

	trace := LapTrace{
		CarID:    car.ID,
		Stops:    append([]int(nil), stops...),
		LapTimes: make([]float64, 0, s.Track.TotalLaps),
	}
	state := TyreState{Compound: car.Compound}
	next := 0 // index of the next stop lap to serve
	for lap := 1; lap <= s.Track.TotalLaps; lap++ {
		lapTime, err := s.Model.LapTime(state)
		if err != nil {
			return LapTrace{}, fmt.Errorf("car %s lap %d: %w", car.ID, lap, err)
		}
		if next < len(stops) && stops[next] == lap {
			lapTime += s.Track.PitTimeLoss
			state = TyreState{Compound: s.Policy.NextCompound(state.Compound), Age: 0}
			next++
		} else {
			state.Age++
		}
		trace.LapTimes = append(trace.LapTimes, lapTime)
		trace.TotalTime += lapTime
	}
	return trace, nil
}

// SimulateField replays every car on the grid under a per-car stop plan.
// Cars with no entry in stops run the race without pitting. Trace order
// matches grid order.
func (s *Simulator) SimulateField(grid []Car, stops map[string][]int) ([]LapTrace, error) {
	if err := ValidateGrid(grid); err != nil {
		return nil, err
	}
	traces := make([]LapTrace, 0, len(grid))
	for _, car := range grid {
		trace, err := s.Simulate(car, stops[car.ID])
		if err != nil {
			return nil, err
		}
		traces = append(traces, trace)
	}
	return traces, nil
}

func validateStops(stops []int, totalLaps int) error {
	prev := 0
	for _, lap := range stops {
		if lap < 1 || lap > totalLaps {
			return fmt.Errorf("stop lap %d outside race distance 1..%d", lap, totalLaps)
		}
		if lap <= prev {
			return fmt.Errorf("stop laps must be strictly increasing, got %v", stops)
		}
		prev = lap
	}
	return nil
}
