package trafficmanager

import (
	"fmt"
	"log"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/stats"
	"github.com/sarchlab/nocsim/traffic"
)

// SyntheticWorkload injects packets drawn from traffic patterns and injection
// processes. A class may name a reply class, in which case every packet of the
// class that arrives triggers a reply packet back to its source.
type SyntheticWorkload struct {
	m     *Manager
	rng   sim.RandomSource
	nodes int

	traffic      []string
	patterns     []traffic.Pattern
	injection    []traffic.InjectionProcess
	packetSizes  []*PacketSizeDistribution
	replyClass   []int
	requestClass []int

	qtime    [][]sim.Cycle
	qdrained [][]bool

	tlatStats []*stats.Stats
	pairTlat  [][]*stats.Stats

	overallMinTlat []float64
	overallAvgTlat []float64
	overallMaxTlat []float64
}

// NewSyntheticWorkload creates a synthetic workload from the configuration
// and sets it as the workload of the manager.
func NewSyntheticWorkload(
	cfg *config.Configuration,
	m *Manager,
	rng sim.RandomSource,
) (*SyntheticWorkload, error) {
	w := &SyntheticWorkload{
		m:     m,
		rng:   rng,
		nodes: m.NumNodes(),
	}

	classes := m.NumClasses()

	err := w.resolveTraffic(cfg, classes)
	if err != nil {
		return nil, err
	}

	err = w.resolvePacketSizes(cfg, classes)
	if err != nil {
		return nil, err
	}

	w.resolveReplyClasses(cfg, classes)
	w.allocateQueues(classes)
	w.registerStats(classes)

	m.SetWorkload(w)

	return w, nil
}

func (w *SyntheticWorkload) resolveTraffic(
	cfg *config.Configuration,
	classes int,
) error {
	w.traffic = config.BroadcastStrs(cfg.GetStrArray("traffic"), classes)
	rates := config.BroadcastFloats(cfg.GetFloatArray("injection_rate"), classes)
	processes := config.BroadcastStrs(
		cfg.GetStrArray("injection_process"), classes)

	w.patterns = make([]traffic.Pattern, classes)
	w.injection = make([]traffic.InjectionProcess, classes)

	for c := 0; c < classes; c++ {
		p, err := traffic.New(w.traffic[c], w.nodes, cfg, w.rng)
		if err != nil {
			return fmt.Errorf("class %d: %w", c, err)
		}

		w.patterns[c] = p

		ip, err := traffic.NewInjectionProcess(
			processes[c], w.nodes, rates[c], cfg, w.rng)
		if err != nil {
			return fmt.Errorf("class %d: %w", c, err)
		}

		w.injection[c] = ip
	}

	return nil
}

func (w *SyntheticWorkload) resolvePacketSizes(
	cfg *config.Configuration,
	classes int,
) error {
	var sizes [][]int

	sizeStr := cfg.GetStr("packet_size")
	if sizeStr == "" {
		sizes = [][]int{{cfg.GetInt("packet_size")}}
	} else {
		for _, token := range config.TokenizeStr(sizeStr) {
			s, err := config.TokenizeInt(token)
			if err != nil {
				return fmt.Errorf("packet_size: %w", err)
			}

			sizes = append(sizes, s)
		}
	}

	sizes = broadcastLists(sizes, classes)

	rates := make([][]int, classes)

	rateStr := cfg.GetStr("packet_size_rate")
	if rateStr == "" {
		rate := cfg.GetInt("packet_size_rate")
		for c := 0; c < classes; c++ {
			rates[c] = config.BroadcastInts([]int{rate}, len(sizes[c]))
		}
	} else {
		var perClass [][]int

		for _, token := range config.TokenizeStr(rateStr) {
			r, err := config.TokenizeInt(token)
			if err != nil {
				return fmt.Errorf("packet_size_rate: %w", err)
			}

			perClass = append(perClass, r)
		}

		perClass = broadcastLists(perClass, classes)
		for c := 0; c < classes; c++ {
			rates[c] = config.BroadcastInts(perClass[c], len(sizes[c]))
		}
	}

	w.packetSizes = make([]*PacketSizeDistribution, classes)
	for c := 0; c < classes; c++ {
		w.packetSizes[c] = NewPacketSizeDistribution(sizes[c], rates[c])
	}

	return nil
}

func broadcastLists(lists [][]int, n int) [][]int {
	if len(lists) == 0 {
		log.Panic("expected at least one list")
	}

	for _, l := range lists {
		if len(l) == 0 {
			log.Panic("empty list in per-class configuration")
		}
	}

	out := make([][]int, n)
	for i := 0; i < n; i++ {
		if i < len(lists) {
			out[i] = lists[i]
		} else {
			out[i] = lists[len(lists)-1]
		}
	}

	return out
}

func (w *SyntheticWorkload) resolveReplyClasses(
	cfg *config.Configuration,
	classes int,
) {
	w.replyClass = config.BroadcastInts(cfg.GetIntArray("reply_class"), classes)
	w.requestClass = make([]int, classes)

	for c := range w.requestClass {
		w.requestClass[c] = -1
	}

	for c, reply := range w.replyClass {
		if reply >= classes {
			log.Panicf("class %d names reply class %d, but there are only %d classes",
				c, reply, classes)
		}

		if reply < 0 {
			continue
		}

		if w.replyClass[reply] >= 0 {
			log.Panicf("class %d names reply class %d, which itself names reply class %d",
				c, reply, w.replyClass[reply])
		}

		if w.requestClass[reply] >= 0 {
			log.Panicf("classes %d and %d both name reply class %d",
				w.requestClass[reply], c, reply)
		}

		w.requestClass[reply] = c
	}
}

func (w *SyntheticWorkload) allocateQueues(classes int) {
	w.qtime = make([][]sim.Cycle, classes)
	w.qdrained = make([][]bool, classes)

	for c := 0; c < classes; c++ {
		w.qtime[c] = make([]sim.Cycle, w.nodes)
		w.qdrained[c] = make([]bool, w.nodes)
	}
}

func (w *SyntheticWorkload) registerStats(classes int) {
	reg := w.m.Stats()

	w.tlatStats = make([]*stats.Stats, classes)
	w.pairTlat = make([][]*stats.Stats, classes)
	w.overallMinTlat = make([]float64, classes)
	w.overallAvgTlat = make([]float64, classes)
	w.overallMaxTlat = make([]float64, classes)

	for c := 0; c < classes; c++ {
		w.tlatStats[c] = reg.NewStats(fmt.Sprintf("tlat_stat_%d", c), 1.0, 1000)

		w.pairTlat[c] = make([]*stats.Stats, w.nodes*w.nodes)
		for i := 0; i < w.nodes; i++ {
			for j := 0; j < w.nodes; j++ {
				w.pairTlat[c][i*w.nodes+j] = reg.NewStats(
					fmt.Sprintf("pair_tlat_stat_%d_%d_%d", c, i, j), 1.0, 250)
			}
		}
	}
}

// SetPattern replaces the traffic pattern of a class.
func (w *SyntheticWorkload) SetPattern(c int, p traffic.Pattern) {
	w.patterns[c] = p
}

// SetInjectionProcess replaces the injection process of a class.
func (w *SyntheticWorkload) SetInjectionProcess(
	c int,
	p traffic.InjectionProcess,
) {
	w.injection[c] = p
}

// Traffic returns the traffic pattern name of a class.
func (w *SyntheticWorkload) Traffic(c int) string {
	return w.traffic[c]
}

// PacketSize returns the packet size distribution of a class.
func (w *SyntheticWorkload) PacketSize(c int) *PacketSizeDistribution {
	return w.packetSizes[c]
}

// ReplyClass returns the reply class of a class, or -1 if it has none.
func (w *SyntheticWorkload) ReplyClass(c int) int {
	return w.replyClass[c]
}

// RequestClass returns the class whose reply class is c, or -1.
func (w *SyntheticWorkload) RequestClass(c int) int {
	return w.requestClass[c]
}

// QueueTime returns how far the injection of a class at a source has
// advanced.
func (w *SyntheticWorkload) QueueTime(c, source int) sim.Cycle {
	return w.qtime[c][source]
}

// Drained tells if a source stopped injecting a class for the drain.
func (w *SyntheticWorkload) Drained(c, source int) bool {
	return w.qdrained[c][source]
}

// TransactionLatency returns the transaction latency histogram of a class.
func (w *SyntheticWorkload) TransactionLatency(c int) *stats.Stats {
	return w.tlatStats[c]
}

// PairLatency returns the transaction latency histogram of the transactions
// of a class that completed at dest and started at src.
func (w *SyntheticWorkload) PairLatency(c, dest, src int) *stats.Stats {
	return w.pairTlat[c][dest*w.nodes+src]
}

// NextPacketSize draws the size of the next packet of a class.
func (w *SyntheticWorkload) NextPacketSize(c int) int {
	if c < 0 || c >= len(w.packetSizes) {
		log.Panicf("class %d out of range", c)
	}

	return w.packetSizes[c].Next(w.rng)
}

// AveragePacketSize returns the expected packet size of a class.
func (w *SyntheticWorkload) AveragePacketSize(c int) float64 {
	return w.packetSizes[c].Average()
}

// Inject issues at most one packet per class and source whose previous packet
// has fully entered the network.
func (w *SyntheticWorkload) Inject() {
	now := w.m.Time()
	draining := w.m.State() == Draining
	drainTime := w.m.DrainTime()

	for c := range w.qtime {
		for source := 0; source < w.nodes; source++ {
			if w.m.HasPartialPacket(c, source) || w.qdrained[c][source] {
				continue
			}

			if w.requestClass[c] >= 0 {
				w.qtime[c][source] = now
			} else {
				w.catchUp(c, source, now)
			}

			if draining && w.qtime[c][source] > drainTime {
				w.qdrained[c][source] = true
			}
		}
	}
}

func (w *SyntheticWorkload) catchUp(c, source int, now sim.Cycle) {
	for w.qtime[c][source] <= now {
		issueTime := w.qtime[c][source]
		w.qtime[c][source]++

		if w.issuePacket(c, source, issueTime) {
			w.m.AddRequestsOutstanding(c, source, 1)
			w.m.IncPacketSeqNo(c, source)

			return
		}
	}
}

func (w *SyntheticWorkload) issuePacket(c, source int, time sim.Cycle) bool {
	if !w.injection[c].Test(source) {
		return false
	}

	dest := w.patterns[c].Dest(source)
	size := w.NextPacketSize(c)

	w.m.GeneratePacket(source, dest, size, c, time, -1, sim.NoCycle)

	return true
}

// RetirePacket completes a transaction or issues its reply.
func (w *SyntheticWorkload) RetirePacket(head, tail *messaging.Flit, dest int) {
	reply := w.replyClass[tail.Class]
	if reply >= 0 {
		w.m.IncPacketSeqNo(tail.Class, dest)
		w.m.GeneratePacket(head.Dest, head.Src, w.NextPacketSize(reply), reply,
			tail.ATime+1, tail.TID, tail.TTime)

		return
	}

	if tail.Watch {
		w.m.watchf("Completing transaction %d at node %d (lat = %d, src = %d, dest = %d).",
			tail.TID, dest, tail.ATime-head.TTime, head.Src, head.Dest)
	}

	request := w.requestClass[tail.Class]
	if request < 0 {
		w.m.AddRequestsOutstanding(tail.Class, tail.Src, -1)
	} else {
		w.m.AddRequestsOutstanding(request, dest, -1)
	}

	if w.m.State() != WarmingUp && !tail.Record {
		return
	}

	cl := tail.Class
	if request >= 0 {
		cl = request
	}

	lat := float64(tail.ATime - tail.TTime)
	w.tlatStats[cl].AddSample(lat)
	w.pairTlat[cl][dest*w.nodes+tail.Src].AddSample(lat)
}

// PacketsOutstanding tells if a measured class still has a source that is not
// drained.
func (w *SyntheticWorkload) PacketsOutstanding() bool {
	for c := range w.qdrained {
		if !w.m.MeasureStats(c) {
			continue
		}

		if w.m.NumMeasuredInFlightFlits(c) > 0 {
			log.Panicf("class %d still has measured flits in flight", c)
		}

		for s := 0; s < w.nodes; s++ {
			if !w.qdrained[c][s] {
				return true
			}
		}
	}

	return false
}

// ResetSim rewinds the injection queues and the traffic patterns.
func (w *SyntheticWorkload) ResetSim() {
	for c := range w.qtime {
		for s := 0; s < w.nodes; s++ {
			w.qtime[c][s] = 0
			w.qdrained[c][s] = false
		}

		w.patterns[c].Reset()
		w.injection[c].Reset()
	}
}

// ClearStats clears the transaction latency histograms.
func (w *SyntheticWorkload) ClearStats() {
	for c := range w.tlatStats {
		w.tlatStats[c].Clear()

		for _, s := range w.pairTlat[c] {
			s.Clear()
		}
	}
}

// UpdateOverallStats accumulates the transaction latency of the trial. Reply
// classes are skipped, as their transactions count toward the request class.
func (w *SyntheticWorkload) UpdateOverallStats() {
	for c := range w.tlatStats {
		if !w.m.MeasureStats(c) || w.requestClass[c] >= 0 {
			continue
		}

		if w.tlatStats[c].NumSamples() == 0 {
			log.Panicf("class %d is measured but no transaction completed", c)
		}

		w.overallMinTlat[c] += w.tlatStats[c].Min()
		w.overallAvgTlat[c] += w.tlatStats[c].Average()
		w.overallMaxTlat[c] += w.tlatStats[c].Max()
	}
}
