// Package acceptance checks that a network delivers every flit it is given,
// exactly once and at the right node.
package acceptance

import (
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/network"
	"github.com/sarchlab/nocsim/sim"
)

// Test is a test case.
type Test struct {
	agents      []*Agent
	flitIDs     sim.IDGenerator
	packetIDs   sim.IDGenerator
	flits       []*messaging.Flit
	received    []*messaging.Flit
	receivedIDs map[int]bool
	nextFlit    map[int]int
}

// NewTest creates a new test.
func NewTest() *Test {
	t := &Test{
		flitIDs:     sim.NewIDGenerator(),
		packetIDs:   sim.NewIDGenerator(),
		receivedIDs: make(map[int]bool),
		nextFlit:    make(map[int]int),
	}

	return t
}

// RegisterAgent adds an agent to the Test
func (t *Test) RegisterAgent(agent *Agent) {
	t.agents = append(t.agents, agent)
}

// GeneratePackets generates n packets of up to maxSize flits from a random
// agent to another random agent.
func (t *Test) GeneratePackets(n, maxSize, numVCs int, rng sim.RandomSource) {
	if len(t.agents) < 2 {
		log.Panic("an acceptance test requires at least two agents")
	}

	for i := 0; i < n; i++ {
		srcAgent := t.agents[rng.Intn(len(t.agents))]

		dstAgent := t.agents[rng.Intn(len(t.agents))]
		for dstAgent == srcAgent {
			dstAgent = t.agents[rng.Intn(len(t.agents))]
		}

		pid := t.packetIDs.Generate()
		flits := messaging.FlitBuilder{}.
			WithFlitIDs(t.flitIDs).
			WithPacketID(pid).
			WithSrc(srcAgent.node).
			WithDest(dstAgent.node).
			WithSize(1 + rng.Intn(maxSize)).
			Build()

		vc := rng.Intn(numVCs)
		for _, f := range flits {
			f.VC = vc
		}

		srcAgent.FlitsToSend = append(srcAgent.FlitsToSend, flits...)
		t.flits = append(t.flits, flits...)
		t.nextFlit[pid] = flits[0].ID
	}
}

// receiveFlit marks that a flit is received.
func (t *Test) receiveFlit(f *messaging.Flit, node int) {
	t.flitMustBeReceivedAtItsDestination(f, node)
	t.flitMustNotBeReceivedBefore(f)
	t.flitMustBeReceivedInOrder(f)

	t.received = append(t.received, f)
}

func (t *Test) flitMustBeReceivedAtItsDestination(
	f *messaging.Flit,
	node int,
) {
	if f.Dest != node {
		log.Panicf("%s delivered to node %d", f, node)
	}
}

func (t *Test) flitMustNotBeReceivedBefore(f *messaging.Flit) {
	if t.receivedIDs[f.ID] {
		log.Panicf("%s is double delivered", f)
	}

	t.receivedIDs[f.ID] = true
}

func (t *Test) flitMustBeReceivedInOrder(f *messaging.Flit) {
	if t.nextFlit[f.PID] != f.ID {
		log.Panicf("%s delivered before flit %d", f, t.nextFlit[f.PID])
	}

	t.nextFlit[f.PID]++
}

// Run ticks the agents and steps the network until every flit is received or
// the cycle limit is reached. It returns the number of cycles simulated.
func (t *Test) Run(net network.Network, maxCycles sim.Cycle) sim.Cycle {
	now := sim.Cycle(0)

	for ; now < maxCycles && !t.Done(); now++ {
		for _, a := range t.agents {
			a.Tick(now)
		}

		net.Step(now)
	}

	return now
}

// Done tells if all the flits generated are received.
func (t *Test) Done() bool {
	return len(t.received) == len(t.flits)
}

// MustHaveReceivedAllFlits asserts that all the flits sent are received.
func (t *Test) MustHaveReceivedAllFlits() {
	if t.Done() {
		return
	}

	for _, f := range t.flits {
		if !t.receivedIDs[f.ID] {
			log.Printf("%s expected, but not received\n", f)
		}
	}

	log.Panic("some flits are dropped")
}

// ReportThroughputAchieved dumps the flits per cycle sent and received by
// each agent.
func (t *Test) ReportThroughputAchieved(now sim.Cycle) {
	for _, a := range t.agents {
		log.Printf(
			"agent %d, send %.3f flits/cycle, recv %.3f flits/cycle",
			a.node,
			float64(a.sentFlits)/float64(now),
			float64(a.recvFlits)/float64(now))
	}
}
