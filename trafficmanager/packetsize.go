package trafficmanager

import (
	"log"

	"gonum.org/v1/gonum/stat"

	"github.com/sarchlab/nocsim/sim"
)

// PacketSizeDistribution draws packet sizes in proportion to integer rates.
type PacketSizeDistribution struct {
	sizes  []int
	rates  []int
	maxVal int
}

// NewPacketSizeDistribution creates a distribution. Sizes and rates must have
// the same non-zero length, sizes must be positive, and rates must not be
// negative.
func NewPacketSizeDistribution(sizes, rates []int) *PacketSizeDistribution {
	if len(sizes) == 0 {
		log.Panic("packet size distribution needs at least one size")
	}

	if len(sizes) != len(rates) {
		log.Panicf("got %d packet sizes but %d rates", len(sizes), len(rates))
	}

	d := &PacketSizeDistribution{
		sizes:  append([]int(nil), sizes...),
		rates:  append([]int(nil), rates...),
		maxVal: -1,
	}

	for i, r := range rates {
		if sizes[i] <= 0 {
			log.Panicf("packet size %d is not positive", sizes[i])
		}

		if r < 0 {
			log.Panicf("packet size rate %d is negative", r)
		}

		d.maxVal += r
	}

	if d.maxVal < 0 && len(sizes) > 1 {
		log.Panic("packet size rates must not all be zero")
	}

	return d
}

// Sizes returns the packet sizes.
func (d *PacketSizeDistribution) Sizes() []int {
	return d.sizes
}

// Rates returns the weight of each size.
func (d *PacketSizeDistribution) Rates() []int {
	return d.rates
}

// MaxVal returns the largest value drawn when sampling, which is the sum of
// the rates minus one.
func (d *PacketSizeDistribution) MaxVal() int {
	return d.maxVal
}

// Next draws a packet size.
func (d *PacketSizeDistribution) Next(rng sim.RandomSource) int {
	if len(d.sizes) == 1 {
		return d.sizes[0]
	}

	pv := rng.RandInt(d.maxVal)

	limit := 0
	last := len(d.sizes) - 1
	for i := 0; i < last; i++ {
		limit += d.rates[i]
		if pv < limit {
			return d.sizes[i]
		}
	}

	if pv < limit || pv > d.maxVal {
		log.Panicf("packet size draw %d out of range [%d, %d]",
			pv, limit, d.maxVal)
	}

	return d.sizes[last]
}

// Average returns the expected packet size.
func (d *PacketSizeDistribution) Average() float64 {
	if len(d.sizes) == 1 {
		return float64(d.sizes[0])
	}

	sizes := make([]float64, len(d.sizes))
	weights := make([]float64, len(d.rates))

	for i := range d.sizes {
		sizes[i] = float64(d.sizes[i])
		weights[i] = float64(d.rates[i])
	}

	return stat.Mean(sizes, weights)
}
