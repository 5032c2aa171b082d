package apperrors

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Application exit codes define the standard exit statuses for the application.
// These codes are used to signal the outcome of the program execution to the OS.
const (
	ExitSuccess        = 0   // Indicates successful execution.
	ExitErrorGeneric   = 1   // Indicates a generic error.
	ExitErrorTimeout   = 2   // Indicates the operation timed out.
	ExitErrorMismatch  = 3   // Indicates a result mismatch between algorithms.
	ExitErrorConfig    = 4   // Indicates a configuration error.
	ExitErrorPrecision = 5   // Indicates the working precision could not guarantee the digits.
	ExitErrorCanceled  = 130 // Indicates the operation was canceled (e.g., SIGINT).
)

// ConfigError reports an invalid flag, environment value or combination of them.
type ConfigError struct {
	// Message explains the specific configuration error.
	Message string
}

func (e ConfigError) Error() string { return e.Message }

// NewConfigError formats a ConfigError.
func NewConfigError(format string, a ...any) error {
	return ConfigError{Message: fmt.Sprintf(format, a...)}
}

// CalculationError wraps a failure of a calculator run.
type CalculationError struct {
	Cause error
}

func (e CalculationError) Error() string { return e.Cause.Error() }

func (e CalculationError) Unwrap() error { return e.Cause }

// TimeoutError reports an operation that ran past its limit.
type TimeoutError struct {
	Operation string
	Limit     time.Duration
}

func (e TimeoutError) Error() string {
	return fmt.Sprintf("operation %q timed out after %s", e.Operation, e.Limit)
}

// ValidationError reports a rejected input value, such as a digit count below 1.
type ValidationError struct {
	// Field is the name of the field that failed validation.
	Field string
	// Message explains the validation failure.
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation error for %q: %s", e.Field, e.Message)
}

// Is reports whether target is ErrInvalidInput.
func (e ValidationError) Is(target error) bool { return target == ErrInvalidInput }

// MemoryError reports a computation whose estimated footprint does not fit.
type MemoryError struct {
	// Requested is the number of bytes the operation needed.
	Requested uint64
	// Available is the number of bytes currently available.
	Available uint64
	// Limit is the configured memory limit in bytes.
	Limit uint64
}

func (e MemoryError) Error() string {
	return fmt.Sprintf("memory error: requested %d bytes, available %d bytes (limit: %d)", e.Requested, e.Available, e.Limit)
}

// WrapError prefixes err with a formatted context message, keeping it
// reachable by errors.Is and errors.As. A nil err stays nil.
func WrapError(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	message := fmt.Sprintf(format, args...)
	return fmt.Errorf("%s: %w", message, err)
}

// IsContextError reports whether err stems from context cancellation or a deadline.
func IsContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Sentinel errors for the three failure classes of a π computation.
var (
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")
	// ErrArithmeticInvariant is matched by every InvariantError.
	ErrArithmeticInvariant = errors.New("arithmetic invariant violation")
	// ErrInsufficientPrecision is matched by every PrecisionError.
	ErrInsufficientPrecision = errors.New("insufficient precision")
)

// InvariantError reports that an internal algebraic invariant failed. It
// signals an implementation defect and is never retried.
type InvariantError struct {
	// Invariant names the violated property (e.g. "T != 0").
	Invariant string
	// Detail carries optional diagnostic context.
	Detail string
}

// Error returns a formatted message describing the violated invariant.
func (e InvariantError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("arithmetic invariant violated: %s", e.Invariant)
	}
	return fmt.Sprintf("arithmetic invariant violated: %s (%s)", e.Invariant, e.Detail)
}

// Is reports whether target is ErrArithmeticInvariant.
func (e InvariantError) Is(target error) bool { return target == ErrArithmeticInvariant }

// PrecisionError reports that the working precision could not guarantee the
// requested number of correct digits.
type PrecisionError struct {
	// Digits is the number of fractional digits requested.
	Digits int
	// PrecisionBits is the working precision of the value being extracted.
	PrecisionBits uint
	// Reason describes which check failed.
	Reason string
}

// Error returns a formatted message describing the precision failure.
func (e PrecisionError) Error() string {
	return fmt.Sprintf("insufficient precision for %d digits at %d bits: %s", e.Digits, e.PrecisionBits, e.Reason)
}

// Is reports whether target is ErrInsufficientPrecision.
func (e PrecisionError) Is(target error) bool { return target == ErrInsufficientPrecision }
