package buffering

import (
	"fmt"

	"github.com/sarchlab/nocsim/config"
)

// Builder can build Buffers.
type Builder struct {
	numVCs     int
	vcCapacity int
	strict     bool
}

// MakeBuilder creates a builder with one virtual channel of 8 flits.
func MakeBuilder() Builder {
	return Builder{
		numVCs:     1,
		vcCapacity: 8,
	}
}

// WithNumVCs sets the number of virtual channels.
func (b Builder) WithNumVCs(n int) Builder {
	b.numVCs = n
	return b
}

// WithVCCapacity sets the number of flits each virtual channel can hold.
func (b Builder) WithVCCapacity(c int) Builder {
	b.vcCapacity = c
	return b
}

// WithStrictCapacity makes the virtual channels panic when a flit is added to
// a full channel.
func (b Builder) WithStrictCapacity() Builder {
	b.strict = true
	return b
}

// WithConfig reads num_vcs, vc_buf_size, and strict_vc_capacity.
func (b Builder) WithConfig(cfg *config.Configuration) Builder {
	b.numVCs = cfg.GetInt("num_vcs")
	b.vcCapacity = cfg.GetInt("vc_buf_size")
	b.strict = cfg.GetInt("strict_vc_capacity") != 0

	return b
}

func (b Builder) numVCsMustBePositive() {
	if b.numVCs <= 0 {
		panic("a buffer requires at least one virtual channel")
	}
}

// Build creates a new Buffer.
func (b Builder) Build(name string) *Buffer {
	b.numVCsMustBePositive()

	buf := &Buffer{
		name: name,
		vcs:  make([]*VirtualChannel, b.numVCs),
	}

	for i := 0; i < b.numVCs; i++ {
		vc := NewVirtualChannel(fmt.Sprintf("%s.vc_%d", name, i), b.vcCapacity)
		vc.strict = b.strict
		buf.vcs[i] = vc
	}

	return buf
}
