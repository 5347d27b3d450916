package race

import "fmt"

// TrackConfig holds the physical race parameters shared by every car.
type TrackConfig struct {
	TotalLaps   int     // race distance in laps
	BaseLapTime float64 // reference lap time on fresh soft tyres, seconds
	PitTimeLoss float64 // time lost by pitting versus staying out, seconds
	PitCapacity int     // cars the pit lane can serve on a single lap
}

// Validate checks the track parameters. The PitCapacity upper bound
// (capacity cannot exceed the grid size) is enforced where the grid is
// known, in strategy.
func (c TrackConfig) Validate() error {
	if c.TotalLaps < 1 {
		return fmt.Errorf("total laps must be at least 1, got %d", c.TotalLaps)
	}
	if c.BaseLapTime <= 0 {
		return fmt.Errorf("base lap time must be positive, got %v", c.BaseLapTime)
	}
	if c.PitTimeLoss <= 0 {
		return fmt.Errorf("pit time loss must be positive, got %v", c.PitTimeLoss)
	}
	if c.PitCapacity < 1 {
		return fmt.Errorf("pit capacity must be at least 1, got %d", c.PitCapacity)
	}
	return nil
}
