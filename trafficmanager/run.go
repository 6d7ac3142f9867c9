package trafficmanager

import (
	"errors"
	"fmt"
	"log"

	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/sim"
)

// ErrDrainTimeout is returned when the network does not drain within the
// configured number of cycles.
var ErrDrainTimeout = errors.New("drain timeout")

type clearable interface {
	Clear()
}

// Run runs all the trials.
func (m *Manager) Run() error {
	for trial := 0; trial < m.simCount; trial++ {
		err := m.runTrial(trial)
		if err != nil {
			return fmt.Errorf("trial %d: %w", trial, err)
		}
	}

	return nil
}

func (m *Manager) runTrial(trial int) error {
	m.ResetSim()
	m.trial = trial

	for i := 0; i < m.warmupPeriods*m.samplePeriod; i++ {
		m.Step()
	}

	m.ClearStats()
	m.SetState(Running)

	for s := 0; s < m.maxSamples; s++ {
		m.sample = s

		for i := 0; i < m.samplePeriod; i++ {
			m.Step()
		}

		m.InvokeHook(sim.HookCtx{
			Domain: m,
			Now:    m.time,
			Pos:    HookPosSampleEnd,
			Item:   m.Snapshot(),
		})
	}

	m.measureCycles = int(m.time - m.measureStart)
	m.SetState(Draining)

	log.Printf("%s: trial %d draining at cycle %d", m.name, trial, m.time)

	drainStart := m.time
	for m.PacketsOutstanding() {
		if int(m.time-drainStart) >= m.drainTimeout {
			return fmt.Errorf("%w: %d cycles after cycle %d",
				ErrDrainTimeout, m.drainTimeout, drainStart)
		}

		m.Step()
	}

	log.Printf("%s: trial %d drained at cycle %d", m.name, trial, m.time)

	m.UpdateOverallStats()

	m.InvokeHook(sim.HookCtx{
		Domain: m,
		Now:    m.time,
		Pos:    HookPosTrialEnd,
		Item:   m.Snapshot(),
	})

	return nil
}

// ResetSim prepares the manager and then the workload for a new trial.
func (m *Manager) ResetSim() {
	m.resetSimBase()

	if m.workload != nil {
		m.workload.ResetSim()
	}
}

func (m *Manager) resetSimBase() {
	m.time = 0
	m.state = WarmingUp
	m.drainTime = sim.NoCycle
	m.sample = 0

	for c := 0; c < m.classes; c++ {
		for n := 0; n < m.nodes; n++ {
			m.partialPackets[c][n] = nil
			m.requestsOutstanding[c][n] = 0
			m.packetSeqNo[c][n] = 0
		}

		m.totalInFlightFlits[c] = make(map[int]*messaging.Flit)
		m.measuredInFlightFlits[c] = make(map[int]*messaging.Flit)
	}

	m.retiredHeads = make(map[int]*messaging.Flit)

	for n := range m.lastClass {
		m.lastClass[n] = 0
	}

	if c, ok := m.net.(clearable); ok {
		c.Clear()
	}
}

// ClearStats drops the samples of the workload and then of the manager.
func (m *Manager) ClearStats() {
	if m.workload != nil {
		m.workload.ClearStats()
	}

	m.clearStatsBase()
}

func (m *Manager) clearStatsBase() {
	for c := 0; c < m.classes; c++ {
		m.platStats[c].Clear()
		m.nlatStats[c].Clear()
		m.flatStats[c].Clear()
		m.hopStats[c].Clear()

		m.sentFlits[c] = 0
		m.acceptedFlits[c] = 0
		m.sentPackets[c] = 0
		m.acceptedPackets[c] = 0
	}

	m.measureStart = m.time
	m.measureCycles = 0
}

// UpdateOverallStats accumulates the statistics of the trial that just ended,
// first for the manager and then for the workload.
func (m *Manager) UpdateOverallStats() {
	m.totalSims++

	for c := 0; c < m.classes; c++ {
		if !m.measureStats[c] {
			continue
		}

		if m.platStats[c].NumSamples() == 0 {
			log.Panicf("class %d is measured but no packet was recorded", c)
		}

		m.overallMinPlat[c] += m.platStats[c].Min()
		m.overallAvgPlat[c] += m.platStats[c].Average()
		m.overallMaxPlat[c] += m.platStats[c].Max()
		m.overallMinNlat[c] += m.nlatStats[c].Min()
		m.overallAvgNlat[c] += m.nlatStats[c].Average()
		m.overallMaxNlat[c] += m.nlatStats[c].Max()
		m.overallMinFlat[c] += m.flatStats[c].Min()
		m.overallAvgFlat[c] += m.flatStats[c].Average()
		m.overallMaxFlat[c] += m.flatStats[c].Max()
		m.overallAvgHops[c] += m.hopStats[c].Average()

		if m.measureCycles > 0 {
			perNodeCycle := float64(m.measureCycles * m.nodes)
			m.overallSentRate[c] += float64(m.sentFlits[c]) / perNodeCycle
			m.overallAcceptRate[c] += float64(m.acceptedFlits[c]) / perNodeCycle
		}
	}

	if m.workload != nil {
		m.workload.UpdateOverallStats()
	}
}
