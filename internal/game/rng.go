package game

import "math/rand/v2"

// RandomSource abstracts the randomness used for picks, shuffles, and spawn
// sampling, so tests can run against a seeded generator.
type RandomSource interface {
	IntN(n int) int
	Float32() float32
}

type defaultRNG struct{}

func (defaultRNG) IntN(n int) int   { return rand.IntN(n) }
func (defaultRNG) Float32() float32 { return rand.Float32() }

// DefaultRNG returns the process-wide math/rand/v2 source.
func DefaultRNG() RandomSource { return defaultRNG{} }

type seededRNG struct{ r *rand.Rand }

// NewSeededRNG returns a replicable PCG source for tests.
func NewSeededRNG(seed uint64) RandomSource {
	return &seededRNG{r: rand.New(rand.NewPCG(seed, 0))}
}

func (s *seededRNG) IntN(n int) int   { return s.r.IntN(n) }
func (s *seededRNG) Float32() float32 { return s.r.Float32() }

// shuffleStrings permutes list in place with a Fisher-Yates walk from the tail.
func shuffleStrings(list []string, rng RandomSource) {
	for i := len(list) - 1; i >= 1; i-- {
		j := rng.IntN(i + 1)
		list[i], list[j] = list[j], list[i]
	}
}

// pickString returns a uniformly random element, or ok false for an empty list.
func pickString(list []string, rng RandomSource) (string, bool) {
	if len(list) == 0 {
		return "", false
	}
	return list[rng.IntN(len(list))], true
}
