// Package anneal implements a seeded simulated-annealing sampler for QUBO
// models: a configurable number of independent reads, a geometric cooling
// schedule, and single-flip Metropolis moves. Reads run in parallel but
// draw from per-read RNG streams, so a fixed nonzero seed reproduces the
// same samples regardless of worker count.
package anneal

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sadieea/Quantum-RaceCraft/race/qubo"
)

// Defaults applied by New to non-positive parameters.
const (
	DefaultReads  = 10
	DefaultSweeps = 1000
)

// Sample is the best assignment one read encountered, with its exact
// energy (model offset included) and the index of the read that found it.
type Sample struct {
	Assignment []int8
	Energy     float64
	Read       int
}

// Sampler runs independent simulated-annealing reads over a QUBO model.
// Every read starts from a uniformly random assignment and cools
// geometrically from TempHot to TempCold over Sweeps sweeps; each sweep
// proposes flipping every variable once in index order with Metropolis
// acceptance.
type Sampler struct {
	Reads   int
	Sweeps  int
	Seed    int64 // 0 derives a seed from the wall clock
	Workers int   // bounded parallelism across reads; <=0 means GOMAXPROCS

	// TempHot and TempCold bound the cooling schedule. Zero values are
	// derived from the model: hot is the largest possible single-flip
	// energy magnitude, cold is hot/1000.
	TempHot  float64
	TempCold float64

	// MaxDuration optionally bounds wall-clock time: reads not yet started
	// when it expires are skipped (a running read is never interrupted,
	// and at least one read always runs). Setting it trades away strict
	// reproducibility.
	MaxDuration time.Duration
}

// New returns a Sampler with reads, sweeps, and seed set, normalizing
// non-positive reads and sweeps to the defaults.
func New(reads, sweeps int, seed int64) *Sampler {
	if reads <= 0 {
		reads = DefaultReads
	}
	if sweeps <= 0 {
		sweeps = DefaultSweeps
	}
	return &Sampler{Reads: reads, Sweeps: sweeps, Seed: seed}
}

// Sample anneals the model and returns one sample per completed read,
// sorted by energy ascending with the read index as the deterministic
// tie-break.
func (s *Sampler) Sample(m *qubo.Model) ([]Sample, error) {
	if m == nil {
		return nil, fmt.Errorf("model cannot be nil")
	}
	reads := s.Reads
	if reads < 1 {
		reads = DefaultReads
	}
	sweeps := s.Sweeps
	if sweeps < 1 {
		sweeps = DefaultSweeps
	}
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
		logrus.Debugf("anneal: no seed supplied, derived %d from the clock", seed)
	}
	workers := s.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > reads {
		workers = reads
	}

	prob := compile(m)
	hot := s.TempHot
	if hot <= 0 {
		hot = prob.maxFlipMagnitude()
		if hot <= 0 {
			hot = 1 // constant-energy model; any schedule works
		}
	}
	cold := s.TempCold
	if cold <= 0 || cold > hot {
		cold = hot / 1000
	}

	var deadline time.Time
	if s.MaxDuration > 0 {
		deadline = time.Now().Add(s.MaxDuration)
	}

	// Reads land in fixed slots; the dispatch order is ascending, so after
	// the loop the first `dispatched` slots are exactly the completed reads.
	samples := make([]Sample, reads)
	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for read := range jobs {
				samples[read] = prob.runRead(read, readRNG(seed, read), sweeps, hot, cold)
			}
		}()
	}
	dispatched := 0
	for read := 0; read < reads; read++ {
		if read > 0 && !deadline.IsZero() && time.Now().After(deadline) {
			logrus.Warnf("anneal: wall-clock budget exhausted after %d of %d reads", read, reads)
			break
		}
		jobs <- read
		dispatched++
	}
	close(jobs)
	wg.Wait()

	out := samples[:dispatched]
	sort.Slice(out, func(i, j int) bool {
		if out[i].Energy != out[j].Energy {
			return out[i].Energy < out[j].Energy
		}
		return out[i].Read < out[j].Read
	})
	return out, nil
}

// compiled is the flattened problem the inner loop works on: linear terms
// plus an adjacency list of nonzero couplings per variable.
type compiled struct {
	n      int
	linear []float64
	adj    [][]coupling
	offset float64
}

type coupling struct {
	j int
	w float64
}

func compile(m *qubo.Model) *compiled {
	n := m.NumVariables()
	p := &compiled{
		n:      n,
		linear: make([]float64, n),
		adj:    make([][]coupling, n),
		offset: m.Offset(),
	}
	for i := 0; i < n; i++ {
		p.linear[i] = m.Linear(i)
		for j := i + 1; j < n; j++ {
			w := m.Quadratic(i, j)
			if w == 0 {
				continue
			}
			p.adj[i] = append(p.adj[i], coupling{j: j, w: w})
			p.adj[j] = append(p.adj[j], coupling{j: i, w: w})
		}
	}
	return p
}

// maxFlipMagnitude bounds |dE| of any single flip: per variable, |linear|
// plus the summed coupling magnitudes. Seeds the hot temperature.
func (p *compiled) maxFlipMagnitude() float64 {
	var most float64
	for i := 0; i < p.n; i++ {
		mag := math.Abs(p.linear[i])
		for _, c := range p.adj[i] {
			mag += math.Abs(c.w)
		}
		most = max(most, mag)
	}
	return most
}

// runRead anneals one read and returns the best assignment it saw. The
// search tracks energy incrementally; the reported energy is re-evaluated
// from scratch so float drift never leaks into results.
func (p *compiled) runRead(read int, rng *rand.Rand, sweeps int, hot, cold float64) Sample {
	x := make([]int8, p.n)
	for i := range x {
		if rng.Intn(2) == 1 {
			x[i] = 1
		}
	}
	energy := p.energy(x)
	best := append([]int8(nil), x...)
	bestEnergy := energy

	ratio := 1.0
	if sweeps > 1 {
		ratio = math.Pow(cold/hot, 1/float64(sweeps-1))
	}
	temp := hot
	for sweep := 0; sweep < sweeps; sweep++ {
		for i := 0; i < p.n; i++ {
			delta := p.flipDelta(x, i)
			if delta < 0 || rng.Float64() < math.Exp(-delta/temp) {
				x[i] = 1 - x[i]
				energy += delta
				if energy < bestEnergy {
					bestEnergy = energy
					copy(best, x)
				}
			}
		}
		temp *= ratio
	}
	return Sample{Assignment: best, Energy: p.energy(best), Read: read}
}

// flipDelta is the energy change from flipping variable i under x.
func (p *compiled) flipDelta(x []int8, i int) float64 {
	sum := p.linear[i]
	for _, c := range p.adj[i] {
		if x[c.j] != 0 {
			sum += c.w
		}
	}
	if x[i] != 0 {
		return -sum
	}
	return sum
}

func (p *compiled) energy(x []int8) float64 {
	e := p.offset
	for i := 0; i < p.n; i++ {
		if x[i] == 0 {
			continue
		}
		e += p.linear[i]
		for _, c := range p.adj[i] {
			if c.j > i && x[c.j] != 0 {
				e += c.w
			}
		}
	}
	return e
}
