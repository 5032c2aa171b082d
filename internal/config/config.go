// Package config defines the application configuration and parses it from
// command-line flags and PICALC_* environment variables.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
)

const (
	// EnvPrefix prefixes every environment variable read by the application.
	EnvPrefix = "PICALC_"

	// DefaultAlgo is the algorithm used when --algo is not given.
	DefaultAlgo = "parallel"

	// DefaultTimeout bounds a CLI computation.
	DefaultTimeout = 5 * time.Minute

	// DefaultMaxDigits caps the digits a single request may ask for.
	DefaultMaxDigits = 100_000_000

	// DefaultServerAddr is the listen address of --serve.
	DefaultServerAddr = ":8080"
)

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Digits is the number of fractional digits of π to compute. Zero means
	// not supplied; the CLI then prompts for it.
	Digits int
	// Algo selects the calculator ("all" runs every registered one).
	Algo string
	// Timeout bounds a single computation.
	Timeout time.Duration
	// Threshold is the parallel split threshold in series terms.
	Threshold int
	// SafetyFactor is the working precision in bits per digit.
	SafetyFactor float64
	// MaxDigits is the upper bound accepted for Digits.
	MaxDigits int

	OutputFile string
	Save       bool
	Quiet      bool
	Verbose    bool
	Details    bool
	ShowValue  bool

	TUI        bool
	Serve      bool
	ServerAddr string

	Calibrate          bool
	CalibrationProfile string

	MemoryLimit string
	GCMode      string
	LogLevel    string
	NoColor     bool
	Version     bool
}

// ToCalculationOptions converts the configuration into calculator options.
func (c AppConfig) ToCalculationOptions() pi.Options {
	return pi.Options{
		SafetyFactor:      c.SafetyFactor,
		ParallelThreshold: c.Threshold,
	}
}

// Validate checks the semantic consistency of the configuration.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Digits < 0 {
		return apperrors.NewConfigError("the number of digits must be positive, got %d", c.Digits)
	}
	if c.MaxDigits <= 0 {
		return apperrors.NewConfigError("--max-digits must be positive, got %d", c.MaxDigits)
	}
	if c.Digits > c.MaxDigits {
		return apperrors.NewConfigError("%d digits exceeds the maximum of %d (see --max-digits)", c.Digits, c.MaxDigits)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("the timeout must be strictly positive")
	}
	if c.Threshold < 0 {
		return apperrors.NewConfigError("the parallelism threshold cannot be negative: %d", c.Threshold)
	}
	if c.SafetyFactor != 0 && c.SafetyFactor < pi.SafetyFactor {
		return apperrors.NewConfigError("--safety-factor must be at least %.1f, got %g", pi.SafetyFactor, c.SafetyFactor)
	}
	switch c.GCMode {
	case "", "auto", "aggressive", "disabled":
	default:
		return apperrors.NewConfigError("unknown --gc-mode %q (expected auto, aggressive or disabled)", c.GCMode)
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error", "disabled":
	default:
		return apperrors.NewConfigError("unknown --log-level %q", c.LogLevel)
	}
	if c.Algo != "all" && !slices.Contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm '%s'. Valid algorithms: 'all' or [%s]",
			c.Algo, strings.Join(availableAlgos, ", "))
	}
	return nil
}

// ParseConfig parses args (without the program name) into an AppConfig.
// Priority is CLI flags, then PICALC_* environment variables, then defaults.
// A single positional argument is accepted as the digit count.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [options] [digits]\n\n", programName)
		fmt.Fprintln(errorWriter, "Computes the decimal digits of π with the Chudnovsky series.")
		fmt.Fprintln(errorWriter, "\nOptions:")
		fs.PrintDefaults()
	}

	algoHelp := fmt.Sprintf("Algorithm to use: 'all' or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.IntVar(&config.Digits, "digits", 0, "Number of fractional digits of π to compute.")
	fs.IntVar(&config.Digits, "d", 0, "Number of digits (shorthand).")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time for the calculation.")
	fs.IntVar(&config.Threshold, "threshold", 0, "Range width in series terms from which the split runs in parallel (0 = adaptive).")
	fs.Float64Var(&config.SafetyFactor, "safety-factor", pi.SafetyFactor, "Working precision in bits per requested digit.")
	fs.IntVar(&config.MaxDigits, "max-digits", DefaultMaxDigits, "Largest accepted digit count.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the digits to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file (shorthand).")
	fs.BoolVar(&config.Save, "save", false, "Write the digits to pi_<digits>.txt.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the digit string.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Display the full digit string.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode (shorthand).")
	fs.BoolVar(&config.Details, "details", false, "Display performance details and digit statistics.")
	fs.BoolVar(&config.ShowValue, "calculate", false, "Display the computed digits.")
	fs.BoolVar(&config.ShowValue, "c", false, "Display the computed digits (shorthand).")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.Serve, "serve", false, "Run the HTTP API server.")
	fs.StringVar(&config.ServerAddr, "addr", DefaultServerAddr, "Listen address for --serve.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Benchmark parallel thresholds and save a profile.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path of the calibration profile (default ~/.picalc_calibration.json).")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Refuse computations whose estimated memory exceeds this (e.g. 512M, 8G).")
	fs.StringVar(&config.GCMode, "gc-mode", "auto", "Garbage collector mode during computation: auto, aggressive or disabled.")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: debug, info, warn, error or disabled.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.Version, "version", false, "Print version information and exit.")

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	positional := -1
	switch fs.NArg() {
	case 0:
	case 1:
		if isFlagSetAny(fs, "digits", "d") {
			return AppConfig{}, apperrors.NewConfigError("digits given both as flag and argument")
		}
		d, err := strconv.Atoi(fs.Arg(0))
		if err != nil {
			return AppConfig{}, apperrors.NewConfigError("invalid digit count %q", fs.Arg(0))
		}
		positional = d
	default:
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args()[1:], " "))
	}

	applyEnvOverrides(&config, fs)
	if positional >= 0 {
		config.Digits = positional
	}
	config.Algo = strings.ToLower(config.Algo)

	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, err
	}
	return config, nil
}
