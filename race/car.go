package race

import "fmt"

// Car is one agent on the grid: an identity plus its starting compound.
// The grid is a []Car; slice order is the canonical agent order used by
// every downstream layer (cost tables, QUBO variable indexing, reports).
type Car struct {
	ID       string
	Compound Compound
}

// ValidateGrid checks that a grid is usable: non-empty, unique IDs, and
// every starting compound known to the lap model.
func ValidateGrid(grid []Car) error {
	if len(grid) == 0 {
		return fmt.Errorf("grid cannot be empty")
	}
	seen := make(map[string]struct{}, len(grid))
	for _, car := range grid {
		if car.ID == "" {
			return fmt.Errorf("car ID cannot be empty")
		}
		if _, dup := seen[car.ID]; dup {
			return fmt.Errorf("duplicate car ID %q", car.ID)
		}
		seen[car.ID] = struct{}{}
		if _, err := car.Compound.Params(); err != nil {
			return fmt.Errorf("car %s: %w", car.ID, err)
		}
	}
	return nil
}
