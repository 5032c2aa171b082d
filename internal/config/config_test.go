package config

import (
	"errors"
	"flag"
	"io"
	"testing"
	"time"

	apperrors "github.com/agbru/picalc/internal/errors"
)

var testAlgos = []string{"parallel", "sequential"}

func TestParseConfig_Defaults(t *testing.T) {
	cfg, err := ParseConfig("picalc", nil, io.Discard, testAlgos)
	if err != nil {
		t.Fatalf("ParseConfig error: %v", err)
	}
	if cfg.Digits != 0 {
		t.Errorf("Digits = %d, want 0", cfg.Digits)
	}
	if cfg.Algo != DefaultAlgo {
		t.Errorf("Algo = %q, want %q", cfg.Algo, DefaultAlgo)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("Timeout = %v, want %v", cfg.Timeout, DefaultTimeout)
	}
	if cfg.MaxDigits != DefaultMaxDigits {
		t.Errorf("MaxDigits = %d, want %d", cfg.MaxDigits, DefaultMaxDigits)
	}
	if cfg.ServerAddr != DefaultServerAddr {
		t.Errorf("ServerAddr = %q", cfg.ServerAddr)
	}
}

func TestParseConfig_Flags(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		check func(t *testing.T, cfg AppConfig)
	}{
		{"long digits", []string{"--digits", "500"}, func(t *testing.T, cfg AppConfig) {
			if cfg.Digits != 500 {
				t.Errorf("Digits = %d", cfg.Digits)
			}
		}},
		{"short digits", []string{"-d", "42"}, func(t *testing.T, cfg AppConfig) {
			if cfg.Digits != 42 {
				t.Errorf("Digits = %d", cfg.Digits)
			}
		}},
		{"positional digits", []string{"-q", "1000"}, func(t *testing.T, cfg AppConfig) {
			if cfg.Digits != 1000 || !cfg.Quiet {
				t.Errorf("Digits = %d, Quiet = %v", cfg.Digits, cfg.Quiet)
			}
		}},
		{"algo is case-insensitive", []string{"--algo", "SEQUENTIAL"}, func(t *testing.T, cfg AppConfig) {
			if cfg.Algo != "sequential" {
				t.Errorf("Algo = %q", cfg.Algo)
			}
		}},
		{"all algorithms", []string{"--algo", "all", "-d", "10"}, func(t *testing.T, cfg AppConfig) {
			if cfg.Algo != "all" {
				t.Errorf("Algo = %q", cfg.Algo)
			}
		}},
		{"server flags", []string{"--serve", "--addr", ":9090"}, func(t *testing.T, cfg AppConfig) {
			if !cfg.Serve || cfg.ServerAddr != ":9090" {
				t.Errorf("Serve = %v, ServerAddr = %q", cfg.Serve, cfg.ServerAddr)
			}
		}},
		{"safety factor", []string{"--safety-factor", "4.25"}, func(t *testing.T, cfg AppConfig) {
			if cfg.SafetyFactor != 4.25 {
				t.Errorf("SafetyFactor = %v", cfg.SafetyFactor)
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseConfig("picalc", tt.args, io.Discard, testAlgos)
			if err != nil {
				t.Fatalf("ParseConfig(%v) error: %v", tt.args, err)
			}
			tt.check(t, cfg)
		})
	}
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown algorithm", []string{"--algo", "leibniz"}},
		{"negative digits", []string{"-d", "-5"}},
		{"too many digits", []string{"--max-digits", "100", "-d", "101"}},
		{"low safety factor", []string{"--safety-factor", "2"}},
		{"zero timeout", []string{"--timeout", "0s"}},
		{"negative threshold", []string{"--threshold", "-1"}},
		{"bad gc mode", []string{"--gc-mode", "sometimes"}},
		{"bad log level", []string{"--log-level", "chatty"}},
		{"non-numeric positional", []string{"many"}},
		{"two positionals", []string{"10", "20"}},
		{"flag and positional", []string{"-d", "10", "20"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig("picalc", tt.args, io.Discard, testAlgos)
			var cfgErr apperrors.ConfigError
			if !errors.As(err, &cfgErr) {
				t.Fatalf("expected ConfigError, got %v", err)
			}
		})
	}
}

func TestParseConfig_Help(t *testing.T) {
	_, err := ParseConfig("picalc", []string{"--help"}, io.Discard, testAlgos)
	if !errors.Is(err, flag.ErrHelp) {
		t.Fatalf("expected flag.ErrHelp, got %v", err)
	}
}

func TestParseConfig_EnvOverrides(t *testing.T) {
	t.Setenv("PICALC_DIGITS", "250")
	t.Setenv("PICALC_ALGO", "sequential")
	t.Setenv("PICALC_TIMEOUT", "90s")
	t.Setenv("PICALC_QUIET", "yes")
	t.Setenv("PICALC_THRESHOLD", "not-a-number")

	cfg, err := ParseConfig("picalc", nil, io.Discard, testAlgos)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Digits != 250 {
		t.Errorf("Digits = %d, want 250", cfg.Digits)
	}
	if cfg.Algo != "sequential" {
		t.Errorf("Algo = %q", cfg.Algo)
	}
	if cfg.Timeout != 90*time.Second {
		t.Errorf("Timeout = %v", cfg.Timeout)
	}
	if !cfg.Quiet {
		t.Error("Quiet should be set from the environment")
	}
	if cfg.Threshold != 0 {
		t.Errorf("invalid env value should be ignored, Threshold = %d", cfg.Threshold)
	}
}

func TestParseConfig_FlagsBeatEnv(t *testing.T) {
	t.Setenv("PICALC_DIGITS", "250")
	t.Setenv("PICALC_ALGO", "sequential")

	cfg, err := ParseConfig("picalc", []string{"--algo", "parallel", "77"}, io.Discard, testAlgos)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Digits != 77 {
		t.Errorf("positional argument should win, Digits = %d", cfg.Digits)
	}
	if cfg.Algo != "parallel" {
		t.Errorf("flag should win, Algo = %q", cfg.Algo)
	}
}

func TestToCalculationOptions(t *testing.T) {
	t.Parallel()
	cfg := AppConfig{Threshold: 64, SafetyFactor: 4}
	opts := cfg.ToCalculationOptions()
	if opts.ParallelThreshold != 64 || opts.SafetyFactor != 4 {
		t.Errorf("ToCalculationOptions = %+v", opts)
	}
}

func TestApplyAdaptiveThresholds(t *testing.T) {
	t.Parallel()
	cfg := ApplyAdaptiveThresholds(AppConfig{})
	if cfg.Threshold <= 0 {
		t.Errorf("adaptive threshold = %d, want > 0", cfg.Threshold)
	}
	if got := ApplyAdaptiveThresholds(AppConfig{Threshold: 33}).Threshold; got != 33 {
		t.Errorf("explicit threshold overwritten: %d", got)
	}
}
