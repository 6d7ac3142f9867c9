package trafficmanager

import (
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// GeneratePacket creates the flits of one packet of class cl and queues them
// at the source node. A negative tid starts a new transaction, and a negative
// ttime means the transaction starts at time. It returns the packet ID.
func (m *Manager) GeneratePacket(
	src, dest, size, cl int,
	time sim.Cycle,
	tid int,
	ttime sim.Cycle,
) int {
	m.classMustBeValid(cl)
	m.nodeMustBeValid(src)
	m.nodeMustBeValid(dest)

	if tid < 0 {
		tid = m.transactionIDs.Generate()
	}

	if ttime < 0 {
		ttime = time
	}

	record := false
	if m.state == Running ||
		(m.state == Draining && time < m.drainTime) {
		record = m.measureStats[cl]
	}

	pid := m.packetIDs.Generate()
	watch := m.watchPackets[pid]

	flits := messaging.FlitBuilder{}.
		WithFlitIDs(m.flitIDs).
		WithPacketID(pid).
		WithTransactionID(tid).
		WithClass(cl).
		WithSrc(src).
		WithDest(dest).
		WithSize(size).
		WithCreationTime(time).
		WithTransactionStartTime(ttime).
		Watched(watch).
		Recorded(record).
		Build()

	vc := cl % m.net.NumVCs()
	for _, f := range flits {
		f.VC = vc
		m.totalInFlightFlits[cl][f.ID] = f

		if record {
			m.measuredInFlightFlits[cl][f.ID] = f
		}
	}

	m.partialPackets[cl][src] = append(m.partialPackets[cl][src], flits...)

	if watch {
		m.watchf("Enqueuing packet %d (class %d, %d flits) at node %d for %d, created at %d.",
			pid, cl, size, src, dest, time)
	}

	return pid
}

// Step advances the simulation by one cycle.
func (m *Manager) Step() {
	if m.workload == nil {
		log.Panicf("traffic manager %s has no workload", m.name)
	}

	for node := 0; node < m.nodes; node++ {
		f := m.net.Eject(node, m.time)
		if f != nil {
			m.retireFlit(f, node)
		}
	}

	m.workload.Inject()
	m.injectFlits()
	m.net.Step(m.time)

	m.time++
}

func (m *Manager) injectFlits() {
	for node := 0; node < m.nodes; node++ {
		for i := 0; i < m.classes; i++ {
			c := (m.lastClass[node] + 1 + i) % m.classes
			if m.injectFrontFlit(c, node) {
				m.lastClass[node] = c
				break
			}
		}
	}
}

func (m *Manager) injectFrontFlit(c, node int) bool {
	queue := m.partialPackets[c][node]
	if len(queue) == 0 {
		return false
	}

	f := queue[0]
	if !m.net.CanInject(node, f.VC) {
		return false
	}

	queue[0] = nil
	m.partialPackets[c][node] = queue[1:]

	m.net.Inject(node, f, m.time)

	if m.state == Running {
		m.sentFlits[c]++
		if f.Head {
			m.sentPackets[c]++
		}
	}

	if f.Watch {
		m.watchf("Injecting flit %d of packet %d at node %d into VC %d.",
			f.ID, f.PID, node, f.VC)
	}

	return true
}

func (m *Manager) retireFlit(f *messaging.Flit, dest int) {
	if f.Dest != dest {
		log.Panicf("flit %d for node %d ejected at node %d", f.ID, f.Dest, dest)
	}

	if _, found := m.totalInFlightFlits[f.Class][f.ID]; !found {
		log.Panicf("flit %d of packet %d retired twice or never generated",
			f.ID, f.PID)
	}

	delete(m.totalInFlightFlits[f.Class], f.ID)

	if f.Record {
		if _, found := m.measuredInFlightFlits[f.Class][f.ID]; !found {
			log.Panicf("measured flit %d of packet %d is not in flight",
				f.ID, f.PID)
		}

		delete(m.measuredInFlightFlits[f.Class], f.ID)
	}

	if f.Watch {
		m.watchf("Retiring flit %d of packet %d at node %d (lat = %d, src = %d).",
			f.ID, f.PID, dest, f.ATime-f.ITime, f.Src)
	}

	recordable := m.state == WarmingUp || f.Record

	if m.state == Running {
		m.acceptedFlits[f.Class]++
	}

	if recordable {
		m.flatStats[f.Class].AddSample(float64(f.ATime - f.ITime))
	}

	head := m.trackHead(f)
	if !f.Tail {
		return
	}

	if m.state == Running {
		m.acceptedPackets[f.Class]++
	}

	if recordable {
		m.platStats[f.Class].AddSample(float64(f.ATime - head.CTime))
		m.nlatStats[f.Class].AddSample(float64(f.ATime - head.ITime))
		m.hopStats[f.Class].AddSample(float64(f.Hops))
	}

	m.workload.RetirePacket(head, f, dest)
}

// trackHead returns the head flit of the packet of f.
func (m *Manager) trackHead(f *messaging.Flit) *messaging.Flit {
	if f.Head {
		if !f.Tail {
			m.retiredHeads[f.PID] = f
		}

		return f
	}

	head, found := m.retiredHeads[f.PID]
	if !found {
		log.Panicf("flit %d of packet %d arrived before its head", f.ID, f.PID)
	}

	if f.Tail {
		delete(m.retiredHeads, f.PID)
	}

	return head
}

// PacketsOutstanding tells if any traffic must still complete before the trial
// can end.
func (m *Manager) PacketsOutstanding() bool {
	if m.basePacketsOutstanding() {
		return true
	}

	return m.workload.PacketsOutstanding()
}

func (m *Manager) basePacketsOutstanding() bool {
	for c := 0; c < m.classes; c++ {
		if !m.measureStats[c] {
			continue
		}

		if len(m.measuredInFlightFlits[c]) > 0 {
			return true
		}

		for n := 0; n < m.nodes; n++ {
			if m.requestsOutstanding[c][n] > 0 {
				return true
			}
		}
	}

	return false
}

func (m *Manager) classMustBeValid(c int) {
	if c < 0 || c >= m.classes {
		log.Panicf("class %d out of range [0, %d)", c, m.classes)
	}
}

func (m *Manager) nodeMustBeValid(n int) {
	if n < 0 || n >= m.nodes {
		log.Panicf("node %d out of range [0, %d)", n, m.nodes)
	}
}
