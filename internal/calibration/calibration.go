// Package calibration measures the parallel split threshold that computes π
// fastest on the current machine and caches it in a JSON profile.
package calibration

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/ui"
)

// DefaultCalibrationDigits is the digit count each candidate computes. It
// is large enough that the top of the recursion tree dominates the run.
const DefaultCalibrationDigits = 100_000

type calibrationResult struct {
	Threshold int
	Duration  time.Duration
	Err       error
}

// measure computes digits with the given threshold. SequentialThreshold
// selects the sequential splitter.
func measure(ctx context.Context, factory pi.CalculatorFactory, digits, threshold int, opts pi.Options) calibrationResult {
	name := "parallel"
	if threshold == SequentialThreshold {
		name = "sequential"
	}
	calc, err := factory.Get(name)
	if err != nil {
		return calibrationResult{Threshold: threshold, Err: err}
	}
	opts.ParallelThreshold = threshold
	start := time.Now()
	_, err = calc.Calculate(ctx, nil, 0, digits, opts)
	return calibrationResult{Threshold: threshold, Duration: time.Since(start), Err: err}
}

// findBest returns the fastest successful threshold, or -1 if all failed.
func findBest(results []calibrationResult) int {
	best := -1
	var bestDuration time.Duration
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		if best == -1 || res.Duration < bestDuration {
			best, bestDuration = res.Threshold, res.Duration
		}
	}
	return best
}

// RunCalibration benchmarks every candidate threshold, prints a summary and
// saves the winner to the profile named by cfg.CalibrationProfile. It
// returns a process exit code.
func RunCalibration(ctx context.Context, cfg config.AppConfig, out io.Writer) int {
	return runCalibration(ctx, cfg, out, pi.GlobalFactory(), DefaultCalibrationDigits, GenerateParallelThresholds())
}

func runCalibration(ctx context.Context, cfg config.AppConfig, out io.Writer, factory pi.CalculatorFactory, digits int, thresholds []int) int {
	fmt.Fprintf(out, "%s--- Calibration Mode: parallel split threshold ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Computing %s%d%s digits for each of %d candidates.\n",
		ui.ColorMagenta(), digits, ui.ColorReset(), len(thresholds))

	start := time.Now()
	opts := cfg.ToCalculationOptions()
	results := make([]calibrationResult, 0, len(thresholds))
	for _, th := range thresholds {
		if ctx.Err() != nil {
			fmt.Fprintf(out, "%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
			return apperrors.ExitErrorCanceled
		}
		label := fmt.Sprintf("threshold %d", th)
		if th == SequentialThreshold {
			label = "sequential"
		}
		fmt.Fprintf(out, "  Testing %-16s...", label)
		res := measure(ctx, factory, digits, th, opts)
		if res.Err != nil {
			fmt.Fprintf(out, " %sfailed: %v%s\n", ui.ColorRed(), res.Err, ui.ColorReset())
		} else {
			fmt.Fprintf(out, " %s\n", res.Duration.Round(time.Millisecond))
		}
		results = append(results, res)
	}

	best := findBest(results)
	if best == -1 {
		fmt.Fprintf(out, "%sCalibration failed: every candidate returned an error.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	printCalibrationResults(out, results, best)

	// The sequential baseline is stored as a threshold no range can reach.
	stored := best
	if stored == SequentialThreshold {
		stored = 1 << 30
	}
	profile := NewProfile()
	profile.OptimalParallelThreshold = stored
	profile.CalibrationDigits = digits
	profile.CalibrationTime = time.Since(start).Round(time.Millisecond).String()

	path := ResolveProfilePath(cfg.CalibrationProfile)
	if err := profile.SaveProfile(path); err != nil {
		fmt.Fprintf(out, "%sWarning%s: %v\n", ui.ColorYellow(), ui.ColorReset(), err)
	} else {
		fmt.Fprintf(out, "Profile saved to %s%s%s.\n", ui.ColorCyan(), path, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

// LoadCachedCalibration fills an unset threshold from a valid, fresh profile
// at path (the default location when empty). It reports whether the profile
// was applied.
func LoadCachedCalibration(cfg config.AppConfig, path string) (config.AppConfig, bool) {
	if cfg.Threshold != 0 {
		return cfg, false
	}
	profile, err := loadProfile(ResolveProfilePath(path))
	if err != nil || !profile.IsValid() || profile.IsStale(DefaultProfileMaxAge) {
		return cfg, false
	}
	if profile.OptimalParallelThreshold <= 0 {
		return cfg, false
	}
	cfg.Threshold = profile.OptimalParallelThreshold
	return cfg, true
}
