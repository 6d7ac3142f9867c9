package sim

import (
	"github.com/rs/xid"
)

// IDGenerator can generate IDs
type IDGenerator interface {
	// Generate returns the next ID.
	Generate() int

	// Peek returns the ID that the next Generate call returns.
	Peek() int

	// Reset starts the sequence from 0 again.
	Reset()
}

// NewIDGenerator returns an ID generator that hands out 0, 1, 2, ...
//
// The simulation is stepped by a single goroutine, so the generator is not
// guarded.
func NewIDGenerator() IDGenerator {
	return &sequentialIDGenerator{}
}

type sequentialIDGenerator struct {
	nextID int
}

func (g *sequentialIDGenerator) Generate() int {
	id := g.nextID
	g.nextID++

	return id
}

func (g *sequentialIDGenerator) Peek() int {
	return g.nextID
}

func (g *sequentialIDGenerator) Reset() {
	g.nextID = 0
}

// RunID returns a globally unique name for a simulation run. It is used to name
// output files that must not collide.
func RunID() string {
	return xid.New().String()
}
