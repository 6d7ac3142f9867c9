package trafficmanager

import (
	"fmt"
	"log"

	"github.com/sarchlab/nocsim/config"
	"github.com/sarchlab/nocsim/noc/messaging"
	"github.com/sarchlab/nocsim/noc/network"
	"github.com/sarchlab/nocsim/sim"
	"github.com/sarchlab/nocsim/stats"
)

// Builder can build traffic managers.
type Builder struct {
	net           network.Network
	classes       int
	samplePeriod  int
	warmupPeriods int
	maxSamples    int
	simCount      int
	drainTimeout  int
	measureStats  []int
	watchPackets  []int
}

// MakeBuilder creates a Builder with default parameters.
func MakeBuilder() Builder {
	return Builder{
		classes:       1,
		samplePeriod:  1000,
		warmupPeriods: 3,
		maxSamples:    10,
		simCount:      1,
		drainTimeout:  100000,
		measureStats:  []int{1},
	}
}

// WithNetwork sets the network that the manager injects into.
func (b Builder) WithNetwork(n network.Network) Builder {
	b.net = n
	return b
}

// WithNumClasses sets the number of traffic classes.
func (b Builder) WithNumClasses(n int) Builder {
	b.classes = n
	return b
}

// WithSamplePeriod sets the number of cycles in a sample period.
func (b Builder) WithSamplePeriod(n int) Builder {
	b.samplePeriod = n
	return b
}

// WithWarmupPeriods sets the number of sample periods spent warming up.
func (b Builder) WithWarmupPeriods(n int) Builder {
	b.warmupPeriods = n
	return b
}

// WithMaxSamples sets the number of measured sample periods.
func (b Builder) WithMaxSamples(n int) Builder {
	b.maxSamples = n
	return b
}

// WithSimCount sets the number of trials.
func (b Builder) WithSimCount(n int) Builder {
	b.simCount = n
	return b
}

// WithDrainTimeout sets how many cycles draining may take before the trial
// fails.
func (b Builder) WithDrainTimeout(n int) Builder {
	b.drainTimeout = n
	return b
}

// WithMeasureStats sets which classes are measured. The last value repeats
// for the remaining classes.
func (b Builder) WithMeasureStats(measure ...int) Builder {
	b.measureStats = measure
	return b
}

// WithWatchPackets sets the packet IDs to trace.
func (b Builder) WithWatchPackets(pids ...int) Builder {
	b.watchPackets = pids
	return b
}

// WithConfig reads the run control parameters from a configuration.
func (b Builder) WithConfig(cfg *config.Configuration) Builder {
	b.classes = cfg.GetInt("classes")
	b.samplePeriod = cfg.GetInt("sample_period")
	b.warmupPeriods = cfg.GetInt("warmup_periods")
	b.maxSamples = cfg.GetInt("max_samples")
	b.simCount = cfg.GetInt("sim_count")
	b.drainTimeout = cfg.GetInt("drain_timeout")
	b.measureStats = cfg.GetIntArray("measure_stats")
	b.watchPackets = cfg.GetIntArray("watch_packets")

	return b
}

func (b Builder) parametersMustBeValid() {
	if b.net == nil {
		log.Panic("a traffic manager requires a network")
	}

	if b.classes <= 0 {
		log.Panicf("number of classes must be positive, got %d", b.classes)
	}

	if b.samplePeriod <= 0 {
		log.Panicf("sample period must be positive, got %d", b.samplePeriod)
	}

	if b.warmupPeriods < 0 || b.maxSamples < 0 {
		log.Panic("warm-up periods and samples cannot be negative")
	}

	if b.simCount <= 0 {
		log.Panicf("sim count must be positive, got %d", b.simCount)
	}

	if len(b.measureStats) == 0 {
		log.Panic("measure_stats needs at least one value")
	}
}

// Build creates a manager. A workload must be set before the manager runs.
func (b Builder) Build(name string) *Manager {
	b.parametersMustBeValid()

	m := &Manager{
		name:          name,
		classes:       b.classes,
		nodes:         b.net.NumNodes(),
		net:           b.net,
		samplePeriod:  b.samplePeriod,
		warmupPeriods: b.warmupPeriods,
		maxSamples:    b.maxSamples,
		simCount:      b.simCount,
		drainTimeout:  b.drainTimeout,
		drainTime:     sim.NoCycle,

		flitIDs:        sim.NewIDGenerator(),
		packetIDs:      sim.NewIDGenerator(),
		transactionIDs: sim.NewIDGenerator(),
		watchPackets:   make(map[int]bool),
		retiredHeads:   make(map[int]*messaging.Flit),
		lastClass:      make([]int, b.net.NumNodes()),
		stats:          stats.NewRegistry(),
	}

	for _, pid := range b.watchPackets {
		m.watchPackets[pid] = true
	}

	measure := config.BroadcastInts(b.measureStats, b.classes)
	m.measureStats = make([]bool, b.classes)
	for c, v := range measure {
		m.measureStats[c] = v != 0
	}

	b.allocatePerClassState(m)
	b.registerStats(m)

	return m
}

func (b Builder) allocatePerClassState(m *Manager) {
	m.partialPackets = make([][][]*messaging.Flit, m.classes)
	m.requestsOutstanding = make([][]int, m.classes)
	m.packetSeqNo = make([][]int, m.classes)
	m.totalInFlightFlits = make([]map[int]*messaging.Flit, m.classes)
	m.measuredInFlightFlits = make([]map[int]*messaging.Flit, m.classes)

	for c := 0; c < m.classes; c++ {
		m.partialPackets[c] = make([][]*messaging.Flit, m.nodes)
		m.requestsOutstanding[c] = make([]int, m.nodes)
		m.packetSeqNo[c] = make([]int, m.nodes)
		m.totalInFlightFlits[c] = make(map[int]*messaging.Flit)
		m.measuredInFlightFlits[c] = make(map[int]*messaging.Flit)
	}

	m.sentFlits = make([]int, m.classes)
	m.acceptedFlits = make([]int, m.classes)
	m.sentPackets = make([]int, m.classes)
	m.acceptedPackets = make([]int, m.classes)

	m.overallMinPlat = make([]float64, m.classes)
	m.overallAvgPlat = make([]float64, m.classes)
	m.overallMaxPlat = make([]float64, m.classes)
	m.overallMinNlat = make([]float64, m.classes)
	m.overallAvgNlat = make([]float64, m.classes)
	m.overallMaxNlat = make([]float64, m.classes)
	m.overallMinFlat = make([]float64, m.classes)
	m.overallAvgFlat = make([]float64, m.classes)
	m.overallMaxFlat = make([]float64, m.classes)
	m.overallAvgHops = make([]float64, m.classes)
	m.overallSentRate = make([]float64, m.classes)
	m.overallAcceptRate = make([]float64, m.classes)
}

func (b Builder) registerStats(m *Manager) {
	m.platStats = make([]*stats.Stats, m.classes)
	m.nlatStats = make([]*stats.Stats, m.classes)
	m.flatStats = make([]*stats.Stats, m.classes)
	m.hopStats = make([]*stats.Stats, m.classes)

	for c := 0; c < m.classes; c++ {
		m.platStats[c] = m.stats.NewStats(fmt.Sprintf("plat_stat_%d", c), 1.0, 1000)
		m.nlatStats[c] = m.stats.NewStats(fmt.Sprintf("nlat_stat_%d", c), 1.0, 1000)
		m.flatStats[c] = m.stats.NewStats(fmt.Sprintf("flat_stat_%d", c), 1.0, 1000)
		m.hopStats[c] = m.stats.NewStats(fmt.Sprintf("hop_stat_%d", c), 1.0, 20)
	}
}
