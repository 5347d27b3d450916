// Package race provides the deterministic lap-time kernel for pit-stop
// strategy optimization.
//
// # Reading Guide
//
// Start with these three files to understand the kernel:
//   - tyre.go: compounds, per-compound pace/degradation constants, tyre state
//   - laptime.go: the LapModel interface and the linear degradation model
//   - simulator.go: the lap-by-lap fold that replays a race under a stop plan
//
// # Architecture
//
// The race package is a pure library: no RNG, no clocks, no I/O. Identical
// inputs always produce identical traces, which is what lets the optimizer
// layers treat simulation results as exact costs. The optimization pipeline
// lives in sub-packages:
//   - race/qubo/: binary-quadratic model container, penalties, exact solver
//   - race/anneal/: seeded simulated-annealing sampler
//   - race/strategy/: cost estimation, QUBO assembly, decoding, the optimizer
//
// # Key Interfaces
//
// The extension points are single-method interfaces:
//   - LapModel: tyre state → lap time
//   - TyrePolicy: compound fitted at a pit stop
package race
