package network

import (
	"fmt"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/noc/buffering"
)

// Builder can build IdealNetworks.
type Builder struct {
	nodes      int
	numVCs     int
	vcCapacity int
	latency    int
	hopLatency int
	strict     bool
}

// MakeBuilder creates a builder with the default configuration values.
func MakeBuilder() Builder {
	return Builder{
		nodes:      16,
		numVCs:     4,
		vcCapacity: 8,
		latency:    1,
		hopLatency: 1,
	}
}

// WithNumNodes sets the number of nodes.
func (b Builder) WithNumNodes(n int) Builder {
	b.nodes = n
	return b
}

// WithNumVCs sets the number of virtual channels per buffer.
func (b Builder) WithNumVCs(n int) Builder {
	b.numVCs = n
	return b
}

// WithVCCapacity sets the number of flits a virtual channel can hold.
func (b Builder) WithVCCapacity(c int) Builder {
	b.vcCapacity = c
	return b
}

// WithLatency sets the latency of a zero-hop transfer.
func (b Builder) WithLatency(l int) Builder {
	b.latency = l
	return b
}

// WithHopLatency sets the extra latency of each hop.
func (b Builder) WithHopLatency(l int) Builder {
	b.hopLatency = l
	return b
}

// WithStrictCapacity makes the virtual channels panic on overflow.
func (b Builder) WithStrictCapacity() Builder {
	b.strict = true
	return b
}

// WithConfig reads nodes, num_vcs, vc_buf_size, latency, hop_latency, and
// strict_vc_capacity.
func (b Builder) WithConfig(cfg *config.Configuration) Builder {
	b.nodes = cfg.GetInt("nodes")
	b.numVCs = cfg.GetInt("num_vcs")
	b.vcCapacity = cfg.GetInt("vc_buf_size")
	b.latency = cfg.GetInt("latency")
	b.hopLatency = cfg.GetInt("hop_latency")
	b.strict = cfg.GetInt("strict_vc_capacity") != 0

	return b
}

func (b Builder) parametersMustBeValid() {
	if b.nodes <= 0 {
		panic("network requires at least one node")
	}

	if b.latency < 1 || b.hopLatency < 0 {
		panic("network latency must be at least 1 cycle")
	}
}

// Build creates a new IdealNetwork.
func (b Builder) Build(name string) *IdealNetwork {
	b.parametersMustBeValid()

	bufBuilder := buffering.MakeBuilder().
		WithNumVCs(b.numVCs).
		WithVCCapacity(b.vcCapacity)
	if b.strict {
		bufBuilder = bufBuilder.WithStrictCapacity()
	}

	n := &IdealNetwork{
		name:          name,
		nodes:         b.nodes,
		latency:       b.latency,
		hopLatency:    b.hopLatency,
		ingress:       make([]*buffering.Buffer, b.nodes),
		egress:        make([]*buffering.Buffer, b.nodes),
		links:         make([][]linkEntry, b.nodes),
		nextIngressVC: make([]int, b.nodes),
		nextEgressVC:  make([]int, b.nodes),
	}

	for i := 0; i < b.nodes; i++ {
		n.ingress[i] = bufBuilder.Build(fmt.Sprintf("%s.node_%d.ingress", name, i))
		n.egress[i] = bufBuilder.Build(fmt.Sprintf("%s.node_%d.egress", name, i))
	}

	return n
}
