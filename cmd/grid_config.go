package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/sadieea/Quantum-RaceCraft/race"
)

// Define struct for YAML
type GridConfig struct {
	Cars []CarSpec `yaml:"cars"`
}

type CarSpec struct {
	ID       string `yaml:"id"`
	Compound string `yaml:"compound"`
}

// LoadGrid reads a YAML grid file into a validated starting grid.
func LoadGrid(path string) ([]race.Car, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading grid file: %w", err)
	}
	return ParseGrid(data)
}

// ParseGrid decodes grid YAML and validates the cars.
func ParseGrid(data []byte) ([]race.Car, error) {
	var cfg GridConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing grid file: %w", err)
	}
	grid := make([]race.Car, 0, len(cfg.Cars))
	for _, spec := range cfg.Cars {
		compound, err := race.ParseCompound(spec.Compound)
		if err != nil {
			return nil, fmt.Errorf("car %q: %w", spec.ID, err)
		}
		grid = append(grid, race.Car{ID: spec.ID, Compound: compound})
	}
	if err := race.ValidateGrid(grid); err != nil {
		return nil, err
	}
	return grid, nil
}

// DefaultGrid is the three-car demo grid used when no file is given.
func DefaultGrid() []race.Car {
	return []race.Car{
		{ID: "0", Compound: race.CompoundSoft},
		{ID: "1", Compound: race.CompoundMedium},
		{ID: "2", Compound: race.CompoundSoft},
	}
}
