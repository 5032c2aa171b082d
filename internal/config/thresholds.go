package config

import "runtime"

// Threshold resolution chain (highest priority first):
//   1. CLI flag (--threshold)
//   2. Environment variable (PICALC_THRESHOLD)
//   3. Cached calibration profile (~/.picalc_calibration.json)
//   4. Adaptive hardware estimation (this file)
//   5. Static default in pi/constants.go

// ApplyAdaptiveThresholds fills a zero parallel threshold with an estimate
// derived from the CPU count. A user-supplied value is left untouched.
func ApplyAdaptiveThresholds(cfg AppConfig) AppConfig {
	if cfg.Threshold == 0 {
		cfg.Threshold = EstimateOptimalParallelThreshold()
	}
	return cfg
}

// EstimateOptimalParallelThreshold returns a parallel split threshold, in
// series terms, suited to the current machine without running benchmarks.
// Fewer cores mean fewer useful goroutines, so forking starts higher up the
// recursion tree.
func EstimateOptimalParallelThreshold() int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return 1 << 30 // effectively sequential
	case numCPU <= 2:
		return 2048
	case numCPU <= 4:
		return 1024
	case numCPU <= 8:
		return 512
	case numCPU <= 16:
		return 256
	default:
		return 128
	}
}
