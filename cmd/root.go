package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sadieea/Quantum-RaceCraft/race"
	"github.com/sadieea/Quantum-RaceCraft/race/strategy"
)

var (
	// CLI flags for the race definition
	totalLaps   int     // Race length in laps
	baseLapTime float64 // Clean-air lap time on fresh softs (seconds)
	pitLoss     float64 // Total time lost to a pit stop (seconds)
	capacity    int     // Cars the pit lane can serve on one lap
	windowFirst int     // First lap of the pit window
	windowLast  int     // Last lap of the pit window
	gridFile    string  // YAML file describing the starting grid
	logLevel    string  // Log verbosity level

	// CLI flags for the annealing solver
	stopPenalty     float64 // Weight of the one-stop-per-car constraint
	capacityPenalty float64 // Weight of the pit-capacity constraint
	reads           int     // Independent annealing reads
	sweeps          int     // Metropolis sweeps per read
	seed            int64   // Seed for the annealer
	workers         int     // Parallel workers for costs and reads
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "racecraft",
	Short: "Pit-stop strategy optimizer built on QUBO annealing",
}

// runCmd optimizes one race using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Optimize the pit-stop schedule for a race",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		grid := DefaultGrid()
		if gridFile != "" {
			grid, err = LoadGrid(gridFile)
			if err != nil {
				logrus.Fatalf("unable to read grid file: %v", err)
			}
		}

		// An untouched window tracks the race length instead of pinning
		// the 50-lap default to a shorter race.
		window := strategy.StopWindow{First: windowFirst, Last: windowLast}
		if !cmd.Flags().Changed("window-first") && !cmd.Flags().Changed("window-last") {
			window = strategy.StopWindow{}
		}

		cfg := strategy.Config{
			Track: race.TrackConfig{
				TotalLaps:   totalLaps,
				BaseLapTime: baseLapTime,
				PitTimeLoss: pitLoss,
				PitCapacity: capacity,
			},
			Window:  window,
			Weights: strategy.PenaltyWeights{OneStop: stopPenalty, Capacity: capacityPenalty},
			Reads:   reads,
			Sweeps:  sweeps,
			Seed:    seed,
			Workers: workers,
		}
		opt, err := strategy.New(cfg)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		logrus.Infof("optimizing %d cars over %d laps with %d annealing reads",
			len(grid), totalLaps, reads)

		plan, err := opt.Optimize(grid)
		if err != nil {
			logrus.Fatalf("optimization failed: %v", err)
		}
		WriteReport(os.Stdout, plan)
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {

	// Race definition
	runCmd.Flags().IntVar(&totalLaps, "laps", 50, "Race length in laps")
	runCmd.Flags().Float64Var(&baseLapTime, "base-lap-time", 80.0, "Fresh-soft lap time in seconds")
	runCmd.Flags().Float64Var(&pitLoss, "pit-loss", 20.0, "Time lost to a pit stop in seconds")
	runCmd.Flags().IntVar(&capacity, "capacity", 2, "Cars the pit lane can serve on one lap")
	runCmd.Flags().IntVar(&windowFirst, "window-first", 10, "First lap of the pit window")
	runCmd.Flags().IntVar(&windowLast, "window-last", 40, "Last lap of the pit window")
	runCmd.Flags().StringVar(&gridFile, "grid", "", "YAML grid file (default: three-car demo grid)")
	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Annealer configs
	runCmd.Flags().Float64Var(&stopPenalty, "stop-penalty", 10000, "Weight of the one-stop-per-car constraint")
	runCmd.Flags().Float64Var(&capacityPenalty, "capacity-penalty", 5000, "Weight of the pit-capacity constraint")
	runCmd.Flags().IntVar(&reads, "reads", 10, "Independent annealing reads")
	runCmd.Flags().IntVar(&sweeps, "sweeps", 1000, "Metropolis sweeps per read")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for the annealer (0 draws from the clock)")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Parallel workers (0 = all CPUs)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
