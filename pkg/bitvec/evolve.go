package bitvec

import (
	"fmt"
	"math/rand"
)

// EvolveOptions configures synthetic population generation.
type EvolveOptions struct {
	// Percent is the per-bit mutation probability each generation,
	// as an integer percentage in [0,100].
	Percent int

	// Seed makes generation reproducible.
	Seed int64
}

// Evolve generates a synthetic population of n vectors of width n by
// simulated descent: a random progenitor is drawn, and every other
// member is spawned from a randomly chosen existing member with each
// bit flipped independently with probability Percent/100. The finished
// population is shuffled so ancestry cannot be read off the index order.
//
// The returned parent slice records the true genealogy (parents[i] is
// the index of vector i's actual parent, -1 for the progenitor) so
// tests can compare an inferred tree against the ground truth.
func Evolve(n int, opts EvolveOptions) (*Population, []int, error) {
	if n < 2 {
		return nil, nil, fmt.Errorf("population size %d: need at least 2", n)
	}
	if opts.Percent < 0 || opts.Percent > 100 {
		return nil, nil, fmt.Errorf("mutation percentage %d out of range [0,100]", opts.Percent)
	}
	rng := rand.New(rand.NewSource(opts.Seed))

	words := (n + wordBits - 1) / wordBits
	vectors := make([]Vector, n)
	parents := make([]int, n)

	// Progenitor: uniformly random bits.
	progenitor := Vector{words: make([]uint64, words), width: n}
	for i := range progenitor.words {
		progenitor.words[i] = rng.Uint64()
	}
	clearTail(&progenitor)
	vectors[0] = progenitor
	parents[0] = -1

	for i := 1; i < n; i++ {
		p := rng.Intn(i)
		vectors[i] = mutate(rng, vectors[p], opts.Percent)
		parents[i] = p
	}

	// Shuffle so vector order carries no ancestry signal.
	perm := rng.Perm(n)
	shuffled := make([]Vector, n)
	trueParents := make([]int, n)
	for old, idx := range perm {
		shuffled[idx] = vectors[old]
		shuffled[idx].Index = idx
	}
	for old, idx := range perm {
		if parents[old] < 0 {
			trueParents[idx] = -1
		} else {
			trueParents[idx] = perm[parents[old]]
		}
	}

	return &Population{Vectors: shuffled}, trueParents, nil
}

// mutate copies v and flips each bit independently with probability
// percent/100.
func mutate(rng *rand.Rand, v Vector, percent int) Vector {
	child := Vector{words: make([]uint64, len(v.words)), width: v.width}
	copy(child.words, v.words)
	for i := 0; i < v.width; i++ {
		if rng.Intn(100) < percent {
			child.words[i/wordBits] ^= 1 << (uint(i) % wordBits)
		}
	}
	return child
}

// clearTail zeroes bits beyond the vector width in the last word.
func clearTail(v *Vector) {
	if rem := v.width % wordBits; rem != 0 {
		v.words[len(v.words)-1] &= (1 << uint(rem)) - 1
	}
}
