package race

import "fmt"

// LapModel estimates per-lap times from tyre state.
// One implementation exists: DegradationLapModel (linear pace+wear model).
// All times are in seconds.
type LapModel interface {
	// LapTime returns the time to complete one green-flag lap on the given
	// tyres, excluding pit-lane loss. Age must be non-negative.
	LapTime(state TyreState) (float64, error)
}

// DegradationLapModel computes lap time as
// base + compound pace offset + tyre age * compound degradation rate.
// It is stateless: the same tyre state always yields the same lap time.
type DegradationLapModel struct {
	BaseLapTime float64
}

// NewDegradationLapModel builds a lap model around the track's reference
// lap time (fresh soft tyres). The base must be positive.
func NewDegradationLapModel(baseLapTime float64) (*DegradationLapModel, error) {
	if baseLapTime <= 0 {
		return nil, fmt.Errorf("base lap time must be positive, got %v", baseLapTime)
	}
	return &DegradationLapModel{BaseLapTime: baseLapTime}, nil
}

func (m *DegradationLapModel) LapTime(state TyreState) (float64, error) {
	if state.Age < 0 {
		return 0, fmt.Errorf("tyre age must be non-negative, got %d", state.Age)
	}
	params, err := state.Compound.Params()
	if err != nil {
		return 0, err
	}
	return m.BaseLapTime + params.PaceOffset + float64(state.Age)*params.Degradation, nil
}
