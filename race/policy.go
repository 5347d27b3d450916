package race

// TyrePolicy selects the compound fitted during a pit stop.
type TyrePolicy interface {
	// NextCompound returns the compound bolted on, given the worn compound
	// coming off.
	NextCompound(worn Compound) Compound
}

// FixedCompoundPolicy always fits the same compound regardless of what
// came off the car.
type FixedCompoundPolicy struct {
	Compound Compound
}

func (p FixedCompoundPolicy) NextCompound(Compound) Compound {
	return p.Compound
}

// AlternateCompoundPolicy swaps between the two main race compounds:
// soft goes to medium, medium goes to soft, hard goes to medium.
type AlternateCompoundPolicy struct{}

func (AlternateCompoundPolicy) NextCompound(worn Compound) Compound {
	switch worn {
	case CompoundSoft:
		return CompoundMedium
	case CompoundMedium:
		return CompoundSoft
	default:
		return CompoundMedium
	}
}

// DefaultTyrePolicy is what the simulator uses when no policy is supplied:
// every stop fits mediums.
func DefaultTyrePolicy() TyrePolicy {
	return FixedCompoundPolicy{Compound: CompoundMedium}
}
