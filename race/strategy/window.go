package strategy

import (
	"fmt"

	"github.com/sadieea/Quantum-RaceCraft/race"
)

// StopWindow is the inclusive range of laps on which a pit stop may be
// scheduled.
type StopWindow struct {
	First int
	Last  int
}

// Validate checks the window against the race distance. Stops are never
// scheduled on the opening lap or the final lap, so a usable window needs
// 2 <= First <= Last <= TotalLaps-1.
func (w StopWindow) Validate(track race.TrackConfig) error {
	if w.First > w.Last {
		return fmt.Errorf("stop window %d..%d is empty", w.First, w.Last)
	}
	if w.First < 2 {
		return fmt.Errorf("stop window cannot open before lap 2, got lap %d", w.First)
	}
	if w.Last > track.TotalLaps-1 {
		return fmt.Errorf("stop window cannot reach the final lap: lap %d > %d", w.Last, track.TotalLaps-1)
	}
	return nil
}

// Len is the number of candidate laps in the window.
func (w StopWindow) Len() int {
	if w.First > w.Last {
		return 0
	}
	return w.Last - w.First + 1
}

// Laps lists the candidate laps in ascending order.
func (w StopWindow) Laps() []int {
	laps := make([]int, 0, w.Len())
	for lap := w.First; lap <= w.Last; lap++ {
		laps = append(laps, lap)
	}
	return laps
}

// Contains reports whether lap falls inside the window.
func (w StopWindow) Contains(lap int) bool {
	return lap >= w.First && lap <= w.Last
}

// DefaultStopWindow spans the middle of the race, laps L/5 through 4L/5,
// clamped away from the opening and final laps. On a 50-lap race that is
// laps 10..40.
func DefaultStopWindow(track race.TrackConfig) StopWindow {
	return StopWindow{
		First: max(2, track.TotalLaps/5),
		Last:  min(track.TotalLaps-1, 4*track.TotalLaps/5),
	}
}
