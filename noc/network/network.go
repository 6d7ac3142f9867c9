// Package network provides the network that the traffic manager injects flits
// into. The router microarchitecture is out of scope; IdealNetwork only models
// the ingress and egress virtual channels of each node and a fixed-latency
// transfer between them.
package network

import (
	"log"

	"github.com/sarchlab/nocsim/noc/buffering"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// A Network moves flits from source nodes to destination nodes.
type Network interface {
	NumNodes() int
	NumVCs() int

	// CanInject tells if the ingress virtual channel of the node can take a
	// flit.
	CanInject(node, vc int) bool

	// Inject puts a flit into the ingress virtual channel of the node. The
	// caller must check CanInject first.
	Inject(node int, f *messaging.Flit, now sim.Cycle)

	// Eject removes at most one arrived flit at the node, or returns nil.
	Eject(node int, now sim.Cycle) *messaging.Flit

	// Step advances the network by one cycle.
	Step(now sim.Cycle)

	// InFlight returns the number of flits inside the network.
	InFlight() int

	// Buffers returns all the buffers of the network.
	Buffers() []*buffering.Buffer
}

type linkEntry struct {
	flit    *messaging.Flit
	arrival sim.Cycle
}

// IdealNetwork connects every pair of nodes with a fixed-latency link. The
// latency grows with the ring distance between the two nodes. A flit leaves
// the link only when the egress virtual channel at its destination has room.
type IdealNetwork struct {
	name       string
	nodes      int
	latency    int
	hopLatency int

	ingress []*buffering.Buffer
	egress  []*buffering.Buffer
	links   [][]linkEntry

	nextIngressVC []int
	nextEgressVC  []int
	inFlight      int
}

// Name returns the name of the network.
func (n *IdealNetwork) Name() string {
	return n.name
}

// NumNodes returns the number of nodes.
func (n *IdealNetwork) NumNodes() int {
	return n.nodes
}

// NumVCs returns the number of virtual channels per buffer.
func (n *IdealNetwork) NumVCs() int {
	return n.ingress[0].NumVCs()
}

// Ingress returns the ingress buffer of a node.
func (n *IdealNetwork) Ingress(node int) *buffering.Buffer {
	return n.ingress[node]
}

// Egress returns the egress buffer of a node.
func (n *IdealNetwork) Egress(node int) *buffering.Buffer {
	return n.egress[node]
}

// Buffers returns the ingress buffers followed by the egress buffers.
func (n *IdealNetwork) Buffers() []*buffering.Buffer {
	bufs := make([]*buffering.Buffer, 0, 2*n.nodes)
	bufs = append(bufs, n.ingress...)
	bufs = append(bufs, n.egress...)

	return bufs
}

// Hops returns the ring distance between two nodes.
func (n *IdealNetwork) Hops(src, dest int) int {
	d := dest - src
	if d < 0 {
		d = -d
	}

	if n.nodes-d < d {
		d = n.nodes - d
	}

	return d
}

// CanInject tells if the ingress virtual channel of the node has room.
func (n *IdealNetwork) CanInject(node, vc int) bool {
	return !n.ingress[node].Full(vc)
}

// Inject puts a flit into the ingress virtual channel of the node.
func (n *IdealNetwork) Inject(node int, f *messaging.Flit, now sim.Cycle) {
	if !n.ingress[node].AddFlit(f.VC, f) {
		log.Panicf("%s: injected %s into a full virtual channel", n.name, f)
	}

	f.ITime = now
	n.inFlight++
}

// Eject removes one flit from the egress buffer of the node, visiting the
// virtual channels round robin.
func (n *IdealNetwork) Eject(node int, now sim.Cycle) *messaging.Flit {
	buf := n.egress[node]
	numVCs := buf.NumVCs()

	for i := 0; i < numVCs; i++ {
		vc := (n.nextEgressVC[node] + i) % numVCs
		if buf.Empty(vc) {
			continue
		}

		f := buf.RemoveFlit(vc)
		f.ATime = now
		n.nextEgressVC[node] = (vc + 1) % numVCs
		n.inFlight--

		return f
	}

	return nil
}

// Step delivers arrived flits to the egress buffers and then forwards at most
// one flit per node from the ingress buffers into the links.
func (n *IdealNetwork) Step(now sim.Cycle) {
	n.deliver(now)
	n.forward(now)
}

func (n *IdealNetwork) deliver(now sim.Cycle) {
	for dest := 0; dest < n.nodes; dest++ {
		pending := n.links[dest][:0]

		for _, e := range n.links[dest] {
			if e.arrival > now || n.egress[dest].Full(e.flit.VC) {
				pending = append(pending, e)
				continue
			}

			n.egress[dest].AddFlit(e.flit.VC, e.flit)
		}

		n.links[dest] = pending
	}
}

func (n *IdealNetwork) forward(now sim.Cycle) {
	for src := 0; src < n.nodes; src++ {
		buf := n.ingress[src]
		numVCs := buf.NumVCs()

		for i := 0; i < numVCs; i++ {
			vc := (n.nextIngressVC[src] + i) % numVCs
			if buf.Empty(vc) {
				continue
			}

			f := buf.RemoveFlit(vc)
			f.Hops = n.Hops(f.Src, f.Dest)
			arrival := now + sim.Cycle(n.latency+f.Hops*n.hopLatency)
			n.links[f.Dest] = append(n.links[f.Dest],
				linkEntry{flit: f, arrival: arrival})
			n.nextIngressVC[src] = (vc + 1) % numVCs

			break
		}
	}
}

// InFlight returns the number of flits that have been injected but not
// ejected.
func (n *IdealNetwork) InFlight() int {
	return n.inFlight
}

// Clear drops every flit inside the network.
func (n *IdealNetwork) Clear() {
	for i := 0; i < n.nodes; i++ {
		n.ingress[i].Clear()
		n.egress[i].Clear()
		n.links[i] = nil
		n.nextIngressVC[i] = 0
		n.nextEgressVC[i] = 0
	}

	n.inFlight = 0
}
