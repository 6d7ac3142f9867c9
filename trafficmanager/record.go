package trafficmanager

import (
	"github.com/sarchlab/nocsim/datarecording"
)

const (
	classStatsTable  = "class_stats"
	pairLatencyTable = "pair_latency"
)

type classStatsEntry struct {
	Class            int
	Traffic          string
	AvgPacketSize    float64
	Trials           int
	AvgPacketLatency float64
	AvgNetLatency    float64
	AvgFlitLatency   float64
	AvgHops          float64
	SentFlitRate     float64
	AcceptedFlitRate float64
	MinTransLatency  float64
	AvgTransLatency  float64
	MaxTransLatency  float64
}

type pairLatencyEntry struct {
	Class      int
	Dest       int
	Src        int
	NumSamples int
	AvgLatency float64
}

// RecordResults writes the overall statistics of every measured class and the
// transaction latency of every (dest, src) pair of the last trial.
func RecordResults(
	rec datarecording.DataRecorder,
	m *Manager,
	w *SyntheticWorkload,
) {
	rec.CreateTable(classStatsTable, classStatsEntry{})
	rec.CreateTable(pairLatencyTable, pairLatencyEntry{})

	sims := w.totalSims()

	for c := 0; c < m.NumClasses(); c++ {
		if !m.MeasureStats(c) {
			continue
		}

		rec.InsertData(classStatsTable, classStatsEntry{
			Class:            c,
			Traffic:          w.Traffic(c),
			AvgPacketSize:    w.AveragePacketSize(c),
			Trials:           m.TotalSims(),
			AvgPacketLatency: m.overallAvgPlat[c] / sims,
			AvgNetLatency:    m.overallAvgNlat[c] / sims,
			AvgFlitLatency:   m.overallAvgFlat[c] / sims,
			AvgHops:          m.overallAvgHops[c] / sims,
			SentFlitRate:     m.overallSentRate[c] / sims,
			AcceptedFlitRate: m.overallAcceptRate[c] / sims,
			MinTransLatency:  w.overallMinTlat[c] / sims,
			AvgTransLatency:  w.overallAvgTlat[c] / sims,
			MaxTransLatency:  w.overallMaxTlat[c] / sims,
		})

		for dest := 0; dest < m.NumNodes(); dest++ {
			for src := 0; src < m.NumNodes(); src++ {
				s := w.PairLatency(c, dest, src)
				if s.NumSamples() == 0 {
					continue
				}

				rec.InsertData(pairLatencyTable, pairLatencyEntry{
					Class:      c,
					Dest:       dest,
					Src:        src,
					NumSamples: s.NumSamples(),
					AvgLatency: s.Average(),
				})
			}
		}
	}

	rec.Flush()
}
