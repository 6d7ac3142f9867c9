package sim

import (
	"math/rand"

	"github.com/iti/rngstream"
)

// A RandomSource provides the random numbers that drive traffic generation.
// It is passed explicitly to everything that samples, so that a run is a
// deterministic function of its seed.
type RandomSource interface {
	// Intn returns a uniform integer in [0, n).
	Intn(n int) int

	// RandInt returns a uniform integer in [0, max].
	RandInt(max int) int

	// Float64 returns a uniform float in [0, 1).
	Float64() float64
}

// NewRandom creates a RandomSource backed by math/rand with the given seed.
func NewRandom(seed int64) RandomSource {
	return &mathRandom{r: rand.New(rand.NewSource(seed))}
}

type mathRandom struct {
	r *rand.Rand
}

func (m *mathRandom) Intn(n int) int {
	return m.r.Intn(n)
}

func (m *mathRandom) RandInt(max int) int {
	return m.r.Intn(max + 1)
}

func (m *mathRandom) Float64() float64 {
	return m.r.Float64()
}

// NewStream creates a RandomSource backed by a named L'Ecuyer stream. Streams
// created in the same order produce the same numbers across runs.
func NewStream(name string) RandomSource {
	return &streamRandom{s: rngstream.New(name)}
}

type streamRandom struct {
	s *rngstream.RngStream
}

func (r *streamRandom) Intn(n int) int {
	return r.s.RandInt(0, n-1)
}

func (r *streamRandom) RandInt(max int) int {
	return r.s.RandInt(0, max)
}

func (r *streamRandom) Float64() float64 {
	return r.s.RandU01()
}
