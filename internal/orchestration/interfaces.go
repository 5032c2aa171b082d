package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/picalc/internal/progress"
)

// CalculationResult is the outcome of one calculator run.
type CalculationResult struct {
	// Name is the calculator's display name.
	Name string
	// Value is the digit string ("3.14..."). Empty if Err is set.
	Value string
	// Duration is the wall time of the run.
	Duration time.Duration
	// Err is the failure, if any.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	Digits    int
	Verbose   bool
	Details   bool
	ShowValue bool
}

// ProgressReporter displays calculation progress. DisplayProgress runs in its
// own goroutine until progressChan is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numCalculators int, out io.Writer) {
	f(wg, progressChan, numCalculators, out)
}

// NullProgressReporter drains the channel without output. Used in quiet mode
// and by the HTTP server.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter renders results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per calculator.
	PresentComparisonTable(results []CalculationResult, out io.Writer)

	// PresentResult displays the retained result.
	PresentResult(result CalculationResult, opts PresentationOptions, out io.Writer)
}

// ErrorHandler reports a calculation error and returns the exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
