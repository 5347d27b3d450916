package race

import (
	"fmt"
	"strings"
)

// Compound identifies a tyre compound. Softer compounds are faster on fresh
// rubber but degrade more per lap.
type Compound string

const (
	CompoundSoft   Compound = "soft"
	CompoundMedium Compound = "medium"
	CompoundHard   Compound = "hard"
)

// CompoundParams are the pace characteristics of one compound. PaceOffset is
// added to the track base lap time on fresh tyres; Degradation is added once
// per lap of tyre age. Both are in seconds.
type CompoundParams struct {
	PaceOffset  float64
	Degradation float64
}

var compoundParams = map[Compound]CompoundParams{
	CompoundSoft:   {PaceOffset: 0.0, Degradation: 0.40},
	CompoundMedium: {PaceOffset: 0.8, Degradation: 0.15},
	CompoundHard:   {PaceOffset: 1.5, Degradation: 0.08},
}

// Params returns the pace characteristics of the compound.
func (c Compound) Params() (CompoundParams, error) {
	p, ok := compoundParams[c]
	if !ok {
		return CompoundParams{}, fmt.Errorf("unknown tyre compound %q", string(c))
	}
	return p, nil
}

// ParseCompound converts user input (case-insensitive) into a Compound.
func ParseCompound(s string) (Compound, error) {
	c := Compound(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := compoundParams[c]; !ok {
		return "", fmt.Errorf("unknown tyre compound %q", s)
	}
	return c, nil
}

// Compounds lists the known compounds from softest to hardest.
func Compounds() []Compound {
	return []Compound{CompoundSoft, CompoundMedium, CompoundHard}
}

// TyreState is the wear state of the tyres currently fitted to a car.
// Age counts completed laps since the set was fitted; 0 means fresh.
type TyreState struct {
	Compound Compound
	Age      int
}
