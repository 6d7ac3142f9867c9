// Package trafficmanager drives traffic through a network and measures it.
//
// A Manager owns simulated time, the per-class and per-node packet bookkeeping,
// and the warm-up/measurement/drain lifecycle. What traffic is injected, and
// what happens when a packet completes, is decided by a Workload that the
// Manager invokes at fixed points of each cycle and of each trial.
package trafficmanager

import (
	"fmt"
	"io"
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/network"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/stats"
)

// SimState is the phase of a trial.
type SimState int

// The phases of a trial.
const (
	WarmingUp SimState = iota
	Running
	Draining
)

func (s SimState) String() string {
	switch s {
	case WarmingUp:
		return "warming_up"
	case Running:
		return "running"
	case Draining:
		return "draining"
	}

	return fmt.Sprintf("SimState(%d)", int(s))
}

// HookPosSampleEnd marks the end of a sample period. The hook item is a
// Snapshot.
var HookPosSampleEnd = &sim.HookPos{Name: "Sample End"}

// HookPosTrialEnd marks the end of a trial. The hook item is a Snapshot.
var HookPosTrialEnd = &sim.HookPos{Name: "Trial End"}

// A Workload decides what traffic a Manager injects.
type Workload interface {
	// Inject issues the packets of the current cycle.
	Inject()

	// RetirePacket is called when the tail flit of a packet has arrived at
	// dest.
	RetirePacket(head, tail *messaging.Flit, dest int)

	// PacketsOutstanding tells if the workload still has traffic that must
	// complete before the trial can end.
	PacketsOutstanding() bool

	// ResetSim prepares the workload for a new trial. It runs after the
	// Manager has reset its own state.
	ResetSim()

	// ClearStats drops the samples of the workload. It runs before the
	// Manager clears its own statistics.
	ClearStats()

	// UpdateOverallStats accumulates the statistics of the trial that just
	// ended.
	UpdateOverallStats()

	// OverallStatsHeaderCSV returns the columns placed before and after the
	// columns of the Manager.
	OverallStatsHeaderCSV() (before, after []string)

	// OverallClassStatsCSV returns the values of the columns of
	// OverallStatsHeaderCSV for a class.
	OverallClassStatsCSV(c int) (before, after []string)

	// WriteClassStats appends the workload statistics of a class.
	WriteClassStats(c int, w io.Writer)

	// DisplayOverallClassStats appends the workload overall statistics of a
	// class.
	DisplayOverallClassStats(c int, w io.Writer)
}

// Snapshot is a summary of the state of a Manager.
type Snapshot struct {
	Name          string    `json:"name"`
	Trial         int       `json:"trial"`
	Sample        int       `json:"sample"`
	Time          sim.Cycle `json:"time"`
	State         string    `json:"state"`
	FlitsInFlight int       `json:"flits_in_flight"`
	Outstanding   []int     `json:"outstanding"`
}

// Manager runs trials of traffic through a network.
type Manager struct {
	sim.HookableBase

	name     string
	classes  int
	nodes    int
	net      network.Network
	workload Workload

	time      sim.Cycle
	state     SimState
	drainTime sim.Cycle
	trial     int
	sample    int

	samplePeriod  int
	warmupPeriods int
	maxSamples    int
	simCount      int
	drainTimeout  int

	partialPackets        [][][]*messaging.Flit
	requestsOutstanding   [][]int
	packetSeqNo           [][]int
	measureStats          []bool
	totalInFlightFlits    []map[int]*messaging.Flit
	measuredInFlightFlits []map[int]*messaging.Flit
	retiredHeads          map[int]*messaging.Flit
	lastClass             []int

	flitIDs        sim.IDGenerator
	packetIDs      sim.IDGenerator
	transactionIDs sim.IDGenerator

	watchPackets map[int]bool
	watchOut     *log.Logger

	stats           *stats.Registry
	platStats       []*stats.Stats
	nlatStats       []*stats.Stats
	flatStats       []*stats.Stats
	hopStats        []*stats.Stats
	sentFlits       []int
	acceptedFlits   []int
	sentPackets     []int
	acceptedPackets []int
	measureStart    sim.Cycle
	measureCycles   int

	totalSims         int
	overallMinPlat    []float64
	overallAvgPlat    []float64
	overallMaxPlat    []float64
	overallMinNlat    []float64
	overallAvgNlat    []float64
	overallMaxNlat    []float64
	overallMinFlat    []float64
	overallAvgFlat    []float64
	overallMaxFlat    []float64
	overallAvgHops    []float64
	overallSentRate   []float64
	overallAcceptRate []float64
}

// Name returns the name of the manager.
func (m *Manager) Name() string {
	return m.name
}

// SetWorkload sets the workload that decides what traffic is injected.
func (m *Manager) SetWorkload(w Workload) {
	m.workload = w
}

// Workload returns the workload of the manager.
func (m *Manager) Workload() Workload {
	return m.workload
}

// Network returns the network the manager injects into.
func (m *Manager) Network() network.Network {
	return m.net
}

// SetWatchOut sets the logger that receives the trace of watched packets.
func (m *Manager) SetWatchOut(l *log.Logger) {
	m.watchOut = l
}

// WatchPacket marks a packet ID to be traced.
func (m *Manager) WatchPacket(pid int) {
	m.watchPackets[pid] = true
}

// Time returns the current cycle.
func (m *Manager) Time() sim.Cycle {
	return m.time
}

// State returns the phase of the current trial.
func (m *Manager) State() SimState {
	return m.state
}

// SetState moves the trial to a phase. Entering Draining fixes the drain time
// to the current cycle.
func (m *Manager) SetState(s SimState) {
	if s == Draining && m.state != Draining {
		m.drainTime = m.time
	}

	m.state = s
}

// DrainTime returns the cycle at which draining started, or sim.NoCycle.
func (m *Manager) DrainTime() sim.Cycle {
	return m.drainTime
}

// NumClasses returns the number of traffic classes.
func (m *Manager) NumClasses() int {
	return m.classes
}

// NumNodes returns the number of nodes.
func (m *Manager) NumNodes() int {
	return m.nodes
}

// TotalSims returns the number of trials that completed.
func (m *Manager) TotalSims() int {
	return m.totalSims
}

// Stats returns the registry of all the histograms.
func (m *Manager) Stats() *stats.Registry {
	return m.stats
}

// MeasureStats tells if a class is measured.
func (m *Manager) MeasureStats(c int) bool {
	return m.measureStats[c]
}

// RequestsOutstanding returns the number of requests of a class issued by a
// node that have not completed.
func (m *Manager) RequestsOutstanding(c, node int) int {
	return m.requestsOutstanding[c][node]
}

// AddRequestsOutstanding adjusts the outstanding request count of a class at a
// node.
func (m *Manager) AddRequestsOutstanding(c, node, delta int) {
	m.requestsOutstanding[c][node] += delta

	if m.requestsOutstanding[c][node] < 0 {
		log.Panicf("class %d at node %d completed more requests than it issued",
			c, node)
	}
}

// PacketSeqNo returns the number of packets of a class issued by a node.
func (m *Manager) PacketSeqNo(c, node int) int {
	return m.packetSeqNo[c][node]
}

// IncPacketSeqNo advances the packet sequence number of a class at a node.
func (m *Manager) IncPacketSeqNo(c, node int) {
	m.packetSeqNo[c][node]++
}

// HasPartialPacket tells if a node still has flits of a class waiting to enter
// the network.
func (m *Manager) HasPartialPacket(c, node int) bool {
	return len(m.partialPackets[c][node]) > 0
}

// NumPartialFlits returns the number of flits of a class waiting at a node.
func (m *Manager) NumPartialFlits(c, node int) int {
	return len(m.partialPackets[c][node])
}

// NumInFlightFlits returns the number of flits of a class that have been
// generated but not retired.
func (m *Manager) NumInFlightFlits(c int) int {
	return len(m.totalInFlightFlits[c])
}

// NumMeasuredInFlightFlits returns the number of measured flits of a class that
// have been generated but not retired.
func (m *Manager) NumMeasuredInFlightFlits(c int) int {
	return len(m.measuredInFlightFlits[c])
}

// Snapshot summarizes the state of the manager.
func (m *Manager) Snapshot() Snapshot {
	s := Snapshot{
		Name:          m.name,
		Trial:         m.trial,
		Sample:        m.sample,
		Time:          m.time,
		State:         m.state.String(),
		FlitsInFlight: m.net.InFlight(),
		Outstanding:   make([]int, m.classes),
	}

	for c := 0; c < m.classes; c++ {
		for n := 0; n < m.nodes; n++ {
			s.Outstanding[c] += m.requestsOutstanding[c][n]
		}
	}

	return s
}

func (m *Manager) watchf(format string, args ...interface{}) {
	if m.watchOut == nil {
		return
	}

	m.watchOut.Printf("%d | %s | "+format,
		append([]interface{}{m.time, m.name}, args...)...)
}
