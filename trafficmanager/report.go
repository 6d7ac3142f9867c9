package trafficmanager

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/sarchlab/nocsim/stats"
)

var baseStatsHeader = []string{
	"min_plat", "avg_plat", "max_plat",
	"min_nlat", "avg_nlat", "max_nlat",
	"min_flat", "avg_flat", "max_flat",
	"avg_hops",
	"sent_flit_rate", "accepted_flit_rate",
}

// OverallStatsHeaderCSV returns the column names of the overall statistics.
func (m *Manager) OverallStatsHeaderCSV() []string {
	before, after := m.workload.OverallStatsHeaderCSV()

	header := []string{"class"}
	header = append(header, before...)
	header = append(header, baseStatsHeader...)
	header = append(header, after...)

	return header
}

// OverallClassStatsCSV returns the overall statistics of a class averaged over
// the completed trials.
func (m *Manager) OverallClassStatsCSV(c int) []string {
	m.classMustBeValid(c)

	sims := float64(m.totalSims)
	if sims == 0 {
		sims = 1
	}

	values := []float64{
		m.overallMinPlat[c], m.overallAvgPlat[c], m.overallMaxPlat[c],
		m.overallMinNlat[c], m.overallAvgNlat[c], m.overallMaxNlat[c],
		m.overallMinFlat[c], m.overallAvgFlat[c], m.overallMaxFlat[c],
		m.overallAvgHops[c],
		m.overallSentRate[c], m.overallAcceptRate[c],
	}

	before, after := m.workload.OverallClassStatsCSV(c)

	row := []string{strconv.Itoa(c)}
	row = append(row, before...)
	for _, v := range values {
		row = append(row, formatFloat(v/sims))
	}
	row = append(row, after...)

	return row
}

// OverallStatsCSV writes the header and one row per class.
func (m *Manager) OverallStatsCSV(w io.Writer) error {
	cw := csv.NewWriter(w)

	err := cw.Write(m.OverallStatsHeaderCSV())
	if err != nil {
		return err
	}

	for c := 0; c < m.classes; c++ {
		err = cw.Write(m.OverallClassStatsCSV(c))
		if err != nil {
			return err
		}
	}

	cw.Flush()

	return cw.Error()
}

// WriteClassStats writes the statistics of the last trial as MATLAB
// assignments.
func (m *Manager) WriteClassStats(w io.Writer) {
	for c := 0; c < m.classes; c++ {
		if !m.measureStats[c] {
			continue
		}

		fmt.Fprintf(w, "plat(%d) = %s;\n", c+1, formatFloat(m.platStats[c].Average()))
		fmt.Fprintf(w, "plat_hist(%d,:) = %s;\n", c+1, matlabVector(m.platStats[c]))
		fmt.Fprintf(w, "nlat(%d) = %s;\n", c+1, formatFloat(m.nlatStats[c].Average()))
		fmt.Fprintf(w, "nlat_hist(%d,:) = %s;\n", c+1, matlabVector(m.nlatStats[c]))
		fmt.Fprintf(w, "flat(%d) = %s;\n", c+1, formatFloat(m.flatStats[c].Average()))
		fmt.Fprintf(w, "flat_hist(%d,:) = %s;\n", c+1, matlabVector(m.flatStats[c]))
		fmt.Fprintf(w, "hops(%d) = %s;\n", c+1, formatFloat(m.hopStats[c].Average()))

		m.workload.WriteClassStats(c, w)
	}
}

// DisplayOverallStats writes the overall statistics of every measured class in
// a human-readable form.
func (m *Manager) DisplayOverallStats(w io.Writer) {
	sims := float64(m.totalSims)
	if sims == 0 {
		sims = 1
	}

	for c := 0; c < m.classes; c++ {
		if !m.measureStats[c] {
			continue
		}

		fmt.Fprintf(w, "====== Traffic class %d ======\n", c)
		fmt.Fprintf(w, "Overall minimum packet latency = %s (%d samples)\n",
			formatFloat(m.overallMinPlat[c]/sims), m.totalSims)
		fmt.Fprintf(w, "Overall average packet latency = %s (%d samples)\n",
			formatFloat(m.overallAvgPlat[c]/sims), m.totalSims)
		fmt.Fprintf(w, "Overall maximum packet latency = %s (%d samples)\n",
			formatFloat(m.overallMaxPlat[c]/sims), m.totalSims)
		fmt.Fprintf(w, "Overall average network latency = %s (%d samples)\n",
			formatFloat(m.overallAvgNlat[c]/sims), m.totalSims)
		fmt.Fprintf(w, "Overall average flit latency = %s (%d samples)\n",
			formatFloat(m.overallAvgFlat[c]/sims), m.totalSims)
		fmt.Fprintf(w, "Overall average hops = %s (%d samples)\n",
			formatFloat(m.overallAvgHops[c]/sims), m.totalSims)
		fmt.Fprintf(w, "Overall accepted flit rate = %s (%d samples)\n",
			formatFloat(m.overallAcceptRate[c]/sims), m.totalSims)

		m.workload.DisplayOverallClassStats(c, w)
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}

func matlabVector(s *stats.Stats) string {
	hist := s.Histogram()

	parts := make([]string, len(hist))
	for i, v := range hist {
		parts[i] = strconv.Itoa(v)
	}

	return "[ " + strings.Join(parts, " ") + " ]"
}
