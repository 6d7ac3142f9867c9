package acceptance

import (
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/network"
	"github.com/sarchlab/nocsim/sim"
)

// Agent sends flits from one node and receives the flits that arrive at it.
type Agent struct {
	node        int
	net         network.Network
	test        *Test
	FlitsToSend []*messaging.Flit
	sentFlits   uint64
	recvFlits   uint64
}

// NewAgent creates a new agent at a node of the network.
func NewAgent(net network.Network, node int, test *Test) *Agent {
	a := &Agent{
		node: node,
		net:  net,
		test: test,
	}

	return a
}

// Tick tries to receive a flit and send a flit out.
func (a *Agent) Tick(now sim.Cycle) bool {
	madeProgress := false
	madeProgress = a.send(now) || madeProgress
	madeProgress = a.recv(now) || madeProgress

	return madeProgress
}

func (a *Agent) send(now sim.Cycle) bool {
	if len(a.FlitsToSend) == 0 {
		return false
	}

	f := a.FlitsToSend[0]
	if !a.net.CanInject(a.node, f.VC) {
		return false
	}

	a.net.Inject(a.node, f, now)
	a.FlitsToSend = a.FlitsToSend[1:]
	a.sentFlits++

	return true
}

func (a *Agent) recv(now sim.Cycle) bool {
	f := a.net.Eject(a.node, now)
	if f == nil {
		return false
	}

	a.test.receiveFlit(f, a.node)
	a.recvFlits++

	return true
}
