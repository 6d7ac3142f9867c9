package config

// Defaults returns the value of every key the simulator understands. A key
// that is not listed here cannot be assigned.
func Defaults() map[string]interface{} {
	return map[string]interface{}{
		// Network
		"nodes":       16,
		"num_vcs":     4,
		"vc_buf_size": 8,
		"latency":     1,
		"hop_latency": 1,

		// Traffic
		"classes":           1,
		"traffic":           "uniform",
		"packet_size":       1,
		"packet_size_rate":  1,
		"reply_class":       -1,
		"injection_rate":    0.1,
		"injection_process": "bernoulli",
		"burst_alpha":       0.5,
		"burst_beta":        0.5,
		"burst_r1":          -1.0,
		"perm_seed":         0,

		// Simulation
		"seed":               0,
		"sample_period":      1000,
		"warmup_periods":     3,
		"max_samples":        10,
		"sim_count":          1,
		"drain_timeout":      100000,
		"measure_stats":      1,
		"strict_vc_capacity": 0,
		"watch_packets":      "",
	}
}
