package app

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/agbru/picalc/internal/cli"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/memory"
	"github.com/agbru/picalc/internal/metrics"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/sysmon"
	"github.com/agbru/picalc/internal/ui"
)

// peakSampleInterval is the heap sampling period of --details.
const peakSampleInterval = 50 * time.Millisecond

// runCalculate orchestrates the execution of the CLI calculation command.
func (a *Application) runCalculate(ctx context.Context, out io.Writer) int {
	// Memory budget validation
	if code := a.validateMemoryBudget(ctx, out); code != apperrors.ExitSuccess {
		return code
	}

	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(calculatorsToRun, out)
	}

	var progressReporter orchestration.ProgressReporter
	progressOut := out
	if a.Config.Quiet {
		progressOut = io.Discard
		progressReporter = orchestration.NullProgressReporter{}
	} else {
		progressReporter = cli.CLIProgressReporter{}
	}

	calcLogger := logging.NewLogger(a.ErrWriter, "pi").Zerolog()
	opts := a.Config.ToCalculationOptions()
	opts.Logger = &calcLogger

	gc := memory.NewGCController(a.Config.GCMode, a.Config.Digits)
	gc.SetLogger(logging.NewLogger(a.ErrWriter, "gc").Zerolog())

	var peak *metrics.PeakTracker
	if a.Config.Details {
		peak = metrics.NewPeakTracker(peakSampleInterval)
		peak.Start(ctx)
	}

	gc.Begin()
	results := orchestration.ExecuteCalculations(ctx, calculatorsToRun, a.Config.Digits, opts, progressReporter, progressOut)
	gc.End()

	var peakHeap uint64
	if peak != nil {
		peakHeap = peak.Stop()
	}

	outputCfg := cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Save:       a.Config.Save,
		Quiet:      a.Config.Quiet,
		Verbose:    a.Config.Verbose,
		ShowValue:  a.Config.ShowValue,
	}

	exitCode := a.analyzeResultsWithOutput(results, outputCfg, out)
	if a.Config.Details && !a.Config.Quiet {
		cli.DisplayMemoryStats(gc.Stats(), out)
		fmt.Fprintf(out, "  Peak heap:       %s\n", format.FormatBytes(peakHeap))
	}
	return exitCode
}

// validateMemoryBudget checks the estimated memory usage against
// --memory-limit and, when the host reports it, the available memory.
func (a *Application) validateMemoryBudget(ctx context.Context, out io.Writer) int {
	if a.Config.MemoryLimit == "" {
		return apperrors.ExitSuccess
	}
	limit, err := memory.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Invalid --memory-limit: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	est := memory.EstimateMemoryUsage(a.Config.Digits)
	if est.TotalBytes > limit {
		fmt.Fprintf(a.ErrWriter, "Estimated memory %s exceeds limit %s.\n",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
		return apperrors.ExitErrorConfig
	}
	if avail := sysmon.AvailableMemory(ctx); avail > 0 && est.TotalBytes > avail && !a.Config.Quiet {
		fmt.Fprintf(out, "%sWarning%s: estimated memory %s exceeds the %s currently available.\n",
			ui.ColorYellow(), ui.ColorReset(), memory.FormatMemoryEstimate(est), format.FormatBytes(avail))
	}
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Memory estimate: %s (limit: %s)\n",
			memory.FormatMemoryEstimate(est), a.Config.MemoryLimit)
	}
	return apperrors.ExitSuccess
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.CalculationResult, outputCfg cli.OutputConfig, out io.Writer) int {
	presOpts := orchestration.PresentationOptions{
		Digits:    a.Config.Digits,
		Verbose:   a.Config.Verbose,
		Details:   a.Config.Details,
		ShowValue: a.Config.ShowValue,
	}

	if outputCfg.Quiet {
		exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, quietErrorHandler{w: a.ErrWriter}, io.Discard)
		if exitCode == apperrors.ExitErrorMismatch {
			fmt.Fprintln(a.ErrWriter, "Error: the algorithms returned different digits.")
		}
		if exitCode != apperrors.ExitSuccess {
			return exitCode
		}
		best := orchestration.FindBestResult(results)
		cli.DisplayQuietResult(out, best.Value)
		if err := a.saveResultIfNeeded(best, outputCfg, io.Discard); err != nil {
			return apperrors.ExitErrorGeneric
		}
		return apperrors.ExitSuccess
	}

	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	if exitCode != apperrors.ExitSuccess {
		return exitCode
	}
	if err := a.saveResultIfNeeded(orchestration.FindBestResult(results), outputCfg, out); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return exitCode
}

func (a *Application) saveResultIfNeeded(res *orchestration.CalculationResult, cfg cli.OutputConfig, out io.Writer) error {
	for _, path := range cfg.Destinations(a.Config.Digits) {
		if err := cli.WriteResultToFile(res.Value, path); err != nil {
			fmt.Fprintf(a.ErrWriter, "Error saving result: %v\n", err)
			return err
		}
		cli.DisplaySaved(out, a.Config.Digits, path)
	}
	return nil
}

// quietErrorHandler reports failures on the error stream without colors,
// keeping stdout reserved for the digit string.
type quietErrorHandler struct {
	w io.Writer
}

func (h quietErrorHandler) HandleError(err error, duration time.Duration, _ io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, h.w, nil)
}
