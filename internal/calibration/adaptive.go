// This file generates the candidate thresholds a calibration run measures.

package calibration

import (
	"runtime"

	"github.com/agbru/picalc/internal/config"
)

// SequentialThreshold labels the sequential baseline in calibration results.
const SequentialThreshold = 0

// GenerateParallelThresholds returns the parallel split thresholds, in series
// terms, worth measuring on this machine. The list starts with the
// sequential baseline. Low thresholds only pay off when enough cores can
// absorb the extra goroutines.
func GenerateParallelThresholds() []int {
	numCPU := runtime.NumCPU()

	thresholds := []int{SequentialThreshold}

	switch {
	case numCPU == 1:
		return thresholds
	case numCPU <= 4:
		thresholds = append(thresholds, 256, 512, 1024, 2048)
	case numCPU <= 8:
		thresholds = append(thresholds, 128, 256, 512, 1024, 2048)
	case numCPU <= 16:
		thresholds = append(thresholds, 64, 128, 256, 512, 1024, 2048)
	default:
		thresholds = append(thresholds, 32, 64, 128, 256, 512, 1024, 2048)
	}
	return thresholds
}

// GenerateQuickParallelThresholds is the reduced set used by --calibrate
// when a full sweep would take too long.
func GenerateQuickParallelThresholds() []int {
	numCPU := runtime.NumCPU()

	switch {
	case numCPU == 1:
		return []int{SequentialThreshold}
	case numCPU <= 4:
		return []int{SequentialThreshold, 512, 1024}
	case numCPU <= 8:
		return []int{SequentialThreshold, 256, 512, 1024}
	default:
		return []int{SequentialThreshold, 128, 256, 512}
	}
}

// EstimateOptimalParallelThreshold delegates to config.EstimateOptimalParallelThreshold.
func EstimateOptimalParallelThreshold() int { return config.EstimateOptimalParallelThreshold() }
