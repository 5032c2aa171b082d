package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/agbru/picalc/internal/calibration"
	"github.com/agbru/picalc/internal/cli"
	"github.com/agbru/picalc/internal/config"
	apperrors "github.com/agbru/picalc/internal/errors"
	"github.com/agbru/picalc/internal/logging"
	"github.com/agbru/picalc/internal/orchestration"
	"github.com/agbru/picalc/internal/pi"
	"github.com/agbru/picalc/internal/server"
	"github.com/agbru/picalc/internal/tui"
	"github.com/agbru/picalc/internal/ui"
	"github.com/rs/zerolog"
)

// Application represents the picalc application instance.
type Application struct {
	Config    config.AppConfig
	Factory   pi.CalculatorFactory
	ErrWriter io.Writer
	// In feeds the interactive digit prompt.
	In io.Reader
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory sets a custom CalculatorFactory for the application.
func WithFactory(f pi.CalculatorFactory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithInput sets the reader used by the interactive digit prompt.
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args includes the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = pi.GlobalFactory()
	}

	programName := "picalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg, cfg.CalibrationProfile); loaded {
		cfg = cfgWithProfile
	} else {
		cfg = config.ApplyAdaptiveThresholds(cfg)
	}

	app.Config = cfg
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	if a.Config.Version {
		PrintVersion(out)
		return apperrors.ExitSuccess
	}

	zerolog.SetGlobalLevel(parseLogLevel(a.Config.LogLevel))
	ui.InitTheme(a.Config.NoColor)

	if a.Config.Calibrate {
		return a.runCalibration(ctx, out)
	}
	if a.Config.Serve {
		return a.runServer(ctx)
	}

	if a.Config.Digits == 0 {
		if code := a.promptDigits(out); code != apperrors.ExitSuccess {
			return code
		}
	}

	if a.Config.TUI {
		return a.runTUI(ctx, out)
	}
	return a.runCalculate(ctx, out)
}

func parseLogLevel(s string) zerolog.Level {
	if s == "" {
		return zerolog.InfoLevel
	}
	lvl, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// promptDigits asks for the digit count when none was given on the command
// line or in the environment.
func (a *Application) promptDigits(out io.Writer) int {
	digits, err := cli.PromptDigits(a.In, out, a.Config.MaxDigits)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	a.Config.Digits = digits
	if !a.Config.Quiet && !a.Config.TUI {
		fmt.Fprintln(out, "Calculating...")
	}
	return apperrors.ExitSuccess
}

// runCalibration runs the full calibration mode.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()
	return calibration.RunCalibration(ctx, a.Config, out)
}

// runServer serves the HTTP API until interrupted.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	logger := logging.NewLogger(a.ErrWriter, "server")
	srv := server.NewServer(a.Factory, a.Config, server.WithLogger(logger))
	if err := srv.Run(ctx); err != nil {
		logger.Error("server stopped", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive TUI dashboard.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	calculatorsToRun := orchestration.GetCalculatorsToRun(a.Config.Algo, a.Factory)
	return tui.Run(ctx, calculatorsToRun, a.Config, Version)
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
