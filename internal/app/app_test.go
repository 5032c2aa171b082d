package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/pi"
)

const pi50 = "3.14159265358979323846264338327950288419716939937510"

// newTestApp builds an Application whose calibration profile lives in a
// temporary directory.
func newTestApp(t *testing.T, in string, args ...string) *Application {
	t.Helper()
	profile := filepath.Join(t.TempDir(), "profile.json")
	full := append([]string{"picalc", "--no-color", "--calibration-profile", profile}, args...)
	var errBuf bytes.Buffer
	app, err := New(full, &errBuf, WithFactory(pi.NewDefaultFactory()), WithInput(strings.NewReader(in)))
	if err != nil {
		t.Fatalf("New(%v) error = %v (stderr: %s)", args, err, errBuf.String())
	}
	return app
}

func TestNew(t *testing.T) {
	app := newTestApp(t, "", "-d", "100", "--algo", "sequential")
	if app.Config.Digits != 100 {
		t.Errorf("Digits = %d, want 100", app.Config.Digits)
	}
	if app.Config.Algo != "sequential" {
		t.Errorf("Algo = %q, want sequential", app.Config.Algo)
	}
	if app.Config.Threshold <= 0 {
		t.Errorf("Threshold = %d, want an adaptive positive value", app.Config.Threshold)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantHelp bool
	}{
		{"Help", []string{"picalc", "--help"}, true},
		{"UnknownAlgo", []string{"picalc", "--algo", "nope"}, false},
		{"TooManyDigits", []string{"picalc", "--max-digits", "10", "-d", "11"}, false},
		{"BadPositional", []string{"picalc", "abc"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var errBuf bytes.Buffer
			_, err := New(tt.args, &errBuf, WithFactory(pi.NewDefaultFactory()))
			if err == nil {
				t.Fatal("New() error = nil, want error")
			}
			if got := IsHelpError(err); got != tt.wantHelp {
				t.Errorf("IsHelpError(%v) = %v, want %v", err, got, tt.wantHelp)
			}
		})
	}
}

func TestRun_Quiet(t *testing.T) {
	for _, algo := range []string{"sequential", "parallel", "all"} {
		t.Run(algo, func(t *testing.T) {
			app := newTestApp(t, "", "-q", "-d", "50", "--algo", algo)
			var out bytes.Buffer
			if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
				t.Fatalf("Run() = %d, want %d", code, apperrors.ExitSuccess)
			}
			if got := out.String(); got != pi50+"\n" {
				t.Errorf("output = %q, want %q", got, pi50+"\n")
			}
		})
	}
}

func TestRun_Standard(t *testing.T) {
	app := newTestApp(t, "", "-d", "50", "-c", "--algo", "all", "--details")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d, output:\n%s", code, out.String())
	}
	got := out.String()
	for _, want := range []string{
		"Global Status: Success",
		"Computed 50 digits",
		"Memory Stats:",
		"Peak heap:",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestRun_OutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "pi.txt")
	app := newTestApp(t, "", "-q", "-d", "50", "-o", path)
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d", code)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != pi50 {
		t.Errorf("file content = %q, want %q", data, pi50)
	}
	if out.String() != pi50+"\n" {
		t.Errorf("quiet stdout = %q, want only the digits", out.String())
	}
}

func TestRun_Prompt(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		app := newTestApp(t, "50\n", "-q")
		var out bytes.Buffer
		if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
			t.Fatalf("Run() = %d", code)
		}
		got := out.String()
		if !strings.HasPrefix(got, "Enter number of digits to calculate for Pi: ") {
			t.Errorf("output %q does not start with the prompt", got)
		}
		if !strings.HasSuffix(got, pi50+"\n") {
			t.Errorf("output %q does not end with the digits", got)
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		app := newTestApp(t, "-3\n")
		var errBuf bytes.Buffer
		app.ErrWriter = &errBuf
		if code := app.Run(context.Background(), &bytes.Buffer{}); code != apperrors.ExitErrorConfig {
			t.Errorf("Run() = %d, want %d", code, apperrors.ExitErrorConfig)
		}
		if !strings.Contains(errBuf.String(), "must be at least 1") {
			t.Errorf("stderr = %q", errBuf.String())
		}
	})
}

func TestRun_MemoryLimit(t *testing.T) {
	tests := []struct {
		name  string
		limit string
		want  int
	}{
		{"Fits", "1G", apperrors.ExitSuccess},
		{"TooSmall", "1K", apperrors.ExitErrorConfig},
		{"Invalid", "lots", apperrors.ExitErrorConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(t, "", "-q", "-d", "1000", "--memory-limit", tt.limit)
			app.ErrWriter = &bytes.Buffer{}
			if code := app.Run(context.Background(), &bytes.Buffer{}); code != tt.want {
				t.Errorf("Run() = %d, want %d", code, tt.want)
			}
		})
	}
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	app := newTestApp(t, "", "-q", "-d", "20000", "--algo", "sequential")
	var errBuf bytes.Buffer
	app.ErrWriter = &errBuf
	code := app.Run(ctx, &bytes.Buffer{})
	if code != apperrors.ExitErrorCanceled {
		t.Errorf("Run() = %d, want %d (stderr: %s)", code, apperrors.ExitErrorCanceled, errBuf.String())
	}
}

func TestRun_Version(t *testing.T) {
	app := newTestApp(t, "", "--version")
	var out bytes.Buffer
	if code := app.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("Run() = %d", code)
	}
	if !strings.HasPrefix(out.String(), "picalc ") {
		t.Errorf("version output = %q", out.String())
	}
}

func TestHasVersionFlag(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-d", "10", "-V"}, true},
		{[]string{"-d", "10"}, false},
		{[]string{"--", "--version"}, false},
		{nil, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]string{
		"":         "info",
		"debug":    "debug",
		"WARN":     "warn",
		"disabled": "disabled",
		"bogus":    "info",
	}
	for in, want := range tests {
		if got := parseLogLevel(in).String(); got != want {
			t.Errorf("parseLogLevel(%q) = %q, want %q", in, got, want)
		}
	}
}
