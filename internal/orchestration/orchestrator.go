package orchestration

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/progress"
)

// ProgressBufferMultiplier sizes the progress channel per calculator so that
// a slow display rarely causes dropped updates.
const ProgressBufferMultiplier = 5

// ExecuteCalculations runs every calculator concurrently for digits digits
// and returns one result per calculator, in input order. A failing
// calculator does not cancel the others.
func ExecuteCalculations(ctx context.Context, calculators []pi.Calculator, digits int, opts pi.Options, progressReporter ProgressReporter, out io.Writer) []CalculationResult {
	g, ctx := errgroup.WithContext(ctx)
	results := make([]CalculationResult, len(calculators))
	progressChan := make(chan progress.ProgressUpdate, len(calculators)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go progressReporter.DisplayProgress(&displayWg, progressChan, len(calculators), out)

	for i, calc := range calculators {
		g.Go(func() error {
			startTime := time.Now()
			value, err := calc.Calculate(ctx, progressChan, i, digits, opts)
			results[i] = CalculationResult{
				Name: calc.Name(), Value: value, Duration: time.Since(startTime), Err: err,
			}
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts results (successes first, fastest first),
// presents the comparison table, and checks that every successful
// calculator produced the same digits. It returns the process exit code:
// ExitErrorMismatch when two calculators disagree.
func AnalyzeComparisonResults(results []CalculationResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	var firstValid *CalculationResult
	var firstError error
	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
		} else if firstValid == nil {
			firstValid = &results[i]
		}
	}

	if len(results) > 1 {
		presenter.PresentComparisonTable(results, out)
	}

	if firstValid == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No algorithm could complete the calculation.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	for _, res := range results {
		if res.Err == nil && res.Value != firstValid.Value {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The algorithms returned different digits.\n")
			return apperrors.ExitErrorMismatch
		}
	}

	if len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All valid results are consistent.\n")
	}
	presenter.PresentResult(*firstValid, opts, out)
	return apperrors.ExitSuccess
}

// FindBestResult returns the fastest successful result, or nil.
func FindBestResult(results []CalculationResult) *CalculationResult {
	var best *CalculationResult
	for i := range results {
		if results[i].Err == nil && (best == nil || results[i].Duration < best.Duration) {
			best = &results[i]
		}
	}
	return best
}
