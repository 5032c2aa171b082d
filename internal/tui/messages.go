package tui

import (
	"time"

	"github.com/agbru/picalc/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update from the bridge.
type ProgressMsg struct {
	CalculatorIndex int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg signals that the progress channel was closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries the per-algorithm results of a run.
type ComparisonResultsMsg struct {
	Results []orchestration.CalculationResult
}

// FinalResultMsg carries the result selected for display.
type FinalResultMsg struct {
	Result orchestration.CalculationResult
	Digits int
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a Go runtime memory sample.
type MemStatsMsg struct {
	Alloc        uint64
	HeapSys      uint64
	NumGC        uint32
	PauseTotalNs uint64
	NumGoroutine int
}

// SysStatsMsg carries a host-wide CPU and memory sample.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// CalculationCompleteMsg ends a run. Generation identifies the run so
// results of a run abandoned by a restart are ignored.
type CalculationCompleteMsg struct {
	ExitCode   int
	Generation uint64
}

// ContextCancelledMsg reports that the parent context ended.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
