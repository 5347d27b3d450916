package anneal

import (
	"fmt"
	"hash/fnv"
	"math/rand"
)

// readRNG returns a deterministically seeded RNG for one annealing read.
//
// Derivation formula: masterSeed XOR fnv1a64("read_<i>"). Every read owns
// an isolated stream, so sample output does not depend on how reads are
// spread across workers.
func readRNG(masterSeed int64, read int) *rand.Rand {
	return rand.New(rand.NewSource(masterSeed ^ fnv1a64(fmt.Sprintf("read_%d", read))))
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
