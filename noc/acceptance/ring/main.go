package main

import (
	"flag"

	"github.com/tebeka/atexit"

	"github.com/sarchlab/nocsim/noc/acceptance"
	"github.com/sarchlab/nocsim/noc/network"
	"github.com/sarchlab/nocsim/sim"
)

var (
	numNodes   = flag.Int("nodes", 8, "Number of nodes in the network")
	numPackets = flag.Int("packets", 20000, "Number of packets to send")
	seed       = flag.Int64("seed", 1, "Random seed")
)

func main() {
	flag.Parse()

	net := network.MakeBuilder().
		WithNumNodes(*numNodes).
		WithNumVCs(4).
		WithVCCapacity(4).
		WithLatency(1).
		WithHopLatency(1).
		WithStrictCapacity().
		Build("Net")

	t := acceptance.NewTest()

	for i := 0; i < *numNodes; i++ {
		t.RegisterAgent(acceptance.NewAgent(net, i, t))
	}

	t.GeneratePackets(*numPackets, 8, net.NumVCs(), sim.NewRandom(*seed))

	now := t.Run(net, sim.Cycle(*numPackets*100))

	t.MustHaveReceivedAllFlits()
	t.ReportThroughputAchieved(now)
	atexit.Exit(0)
}
