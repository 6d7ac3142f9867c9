// Package stats provides the histograms that collect latency samples.
package stats

import (
	"fmt"
	"io"
	"math"
)

// Stats is a named histogram that also keeps the exact minimum, maximum, and
// sum of its samples.
type Stats struct {
	name    string
	binSize float64
	bins    []int

	numSamples int
	sum        float64
	sumSq      float64
	min, max   float64
}

// New creates a histogram with numBins bins of width binSize. Samples beyond
// the last bin are counted in the last bin.
func New(name string, binSize float64, numBins int) *Stats {
	if binSize <= 0 || numBins <= 0 {
		panic(fmt.Sprintf("stats %s needs a positive bin size and bin count",
			name))
	}

	s := &Stats{
		name:    name,
		binSize: binSize,
		bins:    make([]int, numBins),
	}
	s.Clear()

	return s
}

// Name returns the name of the histogram.
func (s *Stats) Name() string {
	return s.name
}

// AddSample adds one sample.
func (s *Stats) AddSample(v float64) {
	s.numSamples++
	s.sum += v
	s.sumSq += v * v
	s.min = math.Min(s.min, v)
	s.max = math.Max(s.max, v)

	bin := int(math.Floor(v / s.binSize))
	if bin < 0 {
		bin = 0
	} else if bin >= len(s.bins) {
		bin = len(s.bins) - 1
	}

	s.bins[bin]++
}

// Clear drops all the samples.
func (s *Stats) Clear() {
	s.numSamples = 0
	s.sum = 0
	s.sumSq = 0
	s.min = math.Inf(1)
	s.max = math.Inf(-1)

	for i := range s.bins {
		s.bins[i] = 0
	}
}

// NumSamples returns the number of samples.
func (s *Stats) NumSamples() int {
	return s.numSamples
}

// Sum returns the sum of the samples.
func (s *Stats) Sum() float64 {
	return s.sum
}

// Min returns the smallest sample, or 0 if there is none.
func (s *Stats) Min() float64 {
	if s.numSamples == 0 {
		return 0
	}

	return s.min
}

// Max returns the largest sample, or 0 if there is none.
func (s *Stats) Max() float64 {
	if s.numSamples == 0 {
		return 0
	}

	return s.max
}

// Average returns the mean of the samples, or 0 if there is none.
func (s *Stats) Average() float64 {
	if s.numSamples == 0 {
		return 0
	}

	return s.sum / float64(s.numSamples)
}

// StdDev returns the population standard deviation of the samples.
func (s *Stats) StdDev() float64 {
	if s.numSamples == 0 {
		return 0
	}

	mean := s.Average()
	variance := s.sumSq/float64(s.numSamples) - mean*mean

	return math.Sqrt(math.Max(variance, 0))
}

// Histogram returns a copy of the bin counts.
func (s *Stats) Histogram() []int {
	out := make([]int, len(s.bins))
	copy(out, s.bins)

	return out
}

// Display writes a one-line summary.
func (s *Stats) Display(w io.Writer) {
	fmt.Fprintf(w, "%s: %d samples, min %g, avg %g, max %g\n",
		s.name, s.numSamples, s.Min(), s.Average(), s.Max())
}
