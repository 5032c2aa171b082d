package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when rendering an error.
// A nil ColorProvider renders plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type plainColors struct{}

func (plainColors) Red() string    { return "" }
func (plainColors) Yellow() string { return "" }
func (plainColors) Reset() string  { return "" }

// HandleCalculationError prints a user-facing message for err and returns the
// exit code matching its class. A nil error yields ExitSuccess.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = plainColors{}
	}
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration)
	}

	var cfgErr ConfigError
	switch {
	case errors.Is(err, ErrInvalidInput), errors.As(err, &cfgErr):
		fmt.Fprintf(out, "%sInvalid input%s: %v\n", colors.Red(), colors.Reset(), err)
		return ExitErrorConfig
	case errors.Is(err, ErrInsufficientPrecision):
		fmt.Fprintf(out, "%sPrecision failure%s%s: %v\n", colors.Red(), colors.Reset(), suffix, err)
		return ExitErrorPrecision
	case errors.Is(err, ErrArithmeticInvariant):
		fmt.Fprintf(out, "%sInternal error%s%s: %v\n", colors.Red(), colors.Reset(), suffix, err)
		return ExitErrorGeneric
	case errors.Is(err, context.DeadlineExceeded):
		fmt.Fprintf(out, "%sTimeout%s%s: the calculation exceeded its time limit.\n", colors.Yellow(), colors.Reset(), suffix)
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		fmt.Fprintf(out, "%sCanceled%s%s.\n", colors.Yellow(), colors.Reset(), suffix)
		return ExitErrorCanceled
	default:
		fmt.Fprintf(out, "%sError%s%s: %v\n", colors.Red(), colors.Reset(), suffix, err)
		return ExitErrorGeneric
	}
}
