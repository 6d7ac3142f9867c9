package stats

import (
	"fmt"
	"sort"
)

// A Registry maps names to the histograms of a simulation so that reports can
// find them.
type Registry struct {
	byName map[string]*Stats
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Stats)}
}

// Register adds a histogram. Names must be unique.
func (r *Registry) Register(s *Stats) {
	if _, found := r.byName[s.Name()]; found {
		panic(fmt.Sprintf("stats %s already registered", s.Name()))
	}

	r.byName[s.Name()] = s
}

// NewStats creates a histogram and registers it.
func (r *Registry) NewStats(name string, binSize float64, numBins int) *Stats {
	s := New(name, binSize, numBins)
	r.Register(s)

	return s
}

// Get returns the histogram with the given name, or nil.
func (r *Registry) Get(name string) *Stats {
	return r.byName[name]
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for n := range r.byName {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// ClearAll clears every registered histogram.
func (r *Registry) ClearAll() {
	for _, s := range r.byName {
		s.Clear()
	}
}
