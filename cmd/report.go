package cmd

import (
	"fmt"
	"io"
	"sort"

	"github.com/sadieea/Quantum-RaceCraft/race/strategy"
)

// WriteReport renders a plan as the fixed-width stdout report.
func WriteReport(w io.Writer, plan *strategy.Plan) {
	fmt.Fprintln(w, "=== Pit Stop Plan ===")
	fmt.Fprintf(w, "Run ID    : %s\n", plan.RunID)
	fmt.Fprintf(w, "Race      : %d laps, base lap %.2fs, pit loss %.2fs\n",
		plan.Track.TotalLaps, plan.Track.BaseLapTime, plan.Track.PitTimeLoss)
	fmt.Fprintf(w, "Window    : laps %d..%d, pit capacity %d\n",
		plan.Window.First, plan.Window.Last, plan.Track.PitCapacity)
	fmt.Fprintf(w, "Solver    : %d reads, best read %d, feasible=%t, energy %.3f\n",
		plan.Solution.Reads, plan.Solution.BestRead, plan.Solution.Feasible, plan.Solution.Energy)
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%-8s %-8s %14s %6s %14s %6s %10s\n",
		"Car", "Tyre", "Baseline (s)", "Stop", "Optimized (s)", "Stop", "Gain (s)")
	for i, car := range plan.Grid {
		base := plan.Baseline.Traces[i].TotalTime
		opt := plan.Optimized.Traces[i].TotalTime
		fmt.Fprintf(w, "%-8s %-8s %14.3f %6d %14.3f %6d %10.3f\n",
			car.ID, car.Compound,
			base, plan.Baseline.Schedule[car.ID],
			opt, plan.Optimized.Schedule[car.ID],
			base-opt)
	}
	fmt.Fprintf(w, "%-8s %-8s %14.3f %6s %14.3f %6s %10.3f\n",
		"Total", "", plan.Baseline.TotalTime, "", plan.Optimized.TotalTime, "", plan.Improvement())
	fmt.Fprintln(w)

	laps := make([]int, 0, len(plan.Optimized.Occupancy))
	for lap := range plan.Optimized.Occupancy {
		laps = append(laps, lap)
	}
	sort.Ints(laps)
	for _, lap := range laps {
		fmt.Fprintf(w, "Lap %-3d   : %d of %d pit slots used\n",
			lap, plan.Optimized.Occupancy[lap], plan.Track.PitCapacity)
	}
	if plan.UsedFallback {
		fmt.Fprintln(w, "NOTE: no feasible improvement found; the staggered baseline is recommended")
	}
}
