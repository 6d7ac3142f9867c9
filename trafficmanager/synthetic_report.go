package trafficmanager

import (
	"fmt"
	"io"
)

// OverallStatsHeaderCSV frames the manager columns with the traffic name and
// packet size in front and the transaction latency behind.
func (w *SyntheticWorkload) OverallStatsHeaderCSV() (before, after []string) {
	return []string{"traffic", "psize"},
		[]string{"min_tlat", "avg_tlat", "max_tlat"}
}

// OverallClassStatsCSV returns the values of the columns of
// OverallStatsHeaderCSV for a class.
func (w *SyntheticWorkload) OverallClassStatsCSV(c int) (before, after []string) {
	sims := w.totalSims()

	before = []string{w.traffic[c], formatFloat(w.AveragePacketSize(c))}
	after = []string{
		formatFloat(w.overallMinTlat[c] / sims),
		formatFloat(w.overallAvgTlat[c] / sims),
		formatFloat(w.overallMaxTlat[c] / sims),
	}

	return before, after
}

// WriteClassStats writes the average transaction latency of every
// (dest, src) pair of a class.
func (w *SyntheticWorkload) WriteClassStats(c int, out io.Writer) {
	fmt.Fprintf(out, "pair_tlat(%d,:) = [ ", c+1)

	for _, s := range w.pairTlat[c] {
		fmt.Fprintf(out, "%s ", formatFloat(s.Average()))
	}

	fmt.Fprintln(out, "];")
}

// DisplayOverallClassStats writes the overall transaction latency of a class.
func (w *SyntheticWorkload) DisplayOverallClassStats(c int, out io.Writer) {
	sims := w.totalSims()
	n := w.m.TotalSims()

	fmt.Fprintf(out, "Overall minimum transaction latency = %s (%d samples)\n",
		formatFloat(w.overallMinTlat[c]/sims), n)
	fmt.Fprintf(out, "Overall average transaction latency = %s (%d samples)\n",
		formatFloat(w.overallAvgTlat[c]/sims), n)
	fmt.Fprintf(out, "Overall maximum transaction latency = %s (%d samples)\n",
		formatFloat(w.overallMaxTlat[c]/sims), n)
}

func (w *SyntheticWorkload) totalSims() float64 {
	if w.m.TotalSims() == 0 {
		return 1
	}

	return float64(w.m.TotalSims())
}
