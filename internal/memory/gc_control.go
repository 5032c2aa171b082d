// Package memory estimates the footprint of a π computation and controls the
// garbage collector while one runs.
package memory

import (
	"math"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
)

// GCMode controls the garbage collector behavior during calculation.
type GCMode string

const (
	GCModeAuto       GCMode = "auto"
	GCModeAggressive GCMode = "aggressive"
	GCModeDisabled   GCMode = "disabled"
)

// GCAutoThreshold is the digit count from which auto mode suspends the GC.
const GCAutoThreshold = 1_000_000

// GCController suspends Go's garbage collector for the duration of a large
// computation and restores it afterward. The binary-splitting tree allocates
// many short-lived intermediates whose collection would otherwise dominate
// pause time.
type GCController struct {
	mode              GCMode
	originalGCPercent int
	active            bool
	logger            zerolog.Logger
	startStats        runtime.MemStats
	endStats          runtime.MemStats
}

// GCStats holds GC statistics for a calculation.
type GCStats struct {
	HeapAlloc    uint64
	TotalAlloc   uint64
	NumGC        uint32
	PauseTotalNs uint64
}

// NewGCController creates a GC controller for the given mode and digit count.
func NewGCController(mode string, digits int) *GCController {
	gc := &GCController{mode: GCMode(mode), logger: zerolog.Nop()}
	switch gc.mode {
	case GCModeAggressive:
		gc.active = true
	case GCModeAuto:
		gc.active = digits >= GCAutoThreshold
	default:
		gc.active = false
	}
	return gc
}

// Active reports whether Begin will change the GC settings.
func (gc *GCController) Active() bool { return gc.active }

// SetLogger configures the logger for GC control events.
func (gc *GCController) SetLogger(l zerolog.Logger) {
	gc.logger = l
}

// Begin disables GC if the controller is active. A soft memory limit of three
// times the current footprint stays in place as an OOM safety net.
func (gc *GCController) Begin() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.startStats)
	gc.originalGCPercent = debug.SetGCPercent(-1)
	if gc.startStats.Sys > 0 {
		if limit := int64(float64(gc.startStats.Sys) * 3); limit > 0 {
			debug.SetMemoryLimit(limit)
		}
	}
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", gc.startStats.HeapAlloc).
		Msg("gc disabled")
}

// End restores the original GC settings and triggers a collection.
func (gc *GCController) End() {
	if !gc.active {
		return
	}
	runtime.ReadMemStats(&gc.endStats)
	debug.SetGCPercent(gc.originalGCPercent)
	debug.SetMemoryLimit(math.MaxInt64)
	runtime.GC()
	stats := gc.Stats()
	gc.logger.Debug().
		Str("mode", string(gc.mode)).
		Uint64("heap_alloc_bytes", stats.HeapAlloc).
		Uint64("total_alloc_bytes", stats.TotalAlloc).
		Uint32("gc_cycles", stats.NumGC).
		Msg("gc re-enabled")
}

// Stats returns the GC statistics delta between Begin and End. It is zero
// for an inactive controller.
func (gc *GCController) Stats() GCStats {
	if !gc.active {
		return GCStats{}
	}
	return GCStats{
		HeapAlloc:    gc.endStats.HeapAlloc,
		TotalAlloc:   gc.endStats.TotalAlloc - gc.startStats.TotalAlloc,
		NumGC:        gc.endStats.NumGC - gc.startStats.NumGC,
		PauseTotalNs: gc.endStats.PauseTotalNs - gc.startStats.PauseTotalNs,
	}
}
