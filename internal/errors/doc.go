// Package apperrors holds the error classes of picalc and their exit codes.
//
// A computation fails in one of three ways, each with a sentinel matched
// through errors.Is: ErrInvalidInput (ValidationError), ErrArithmeticInvariant
// (InvariantError) and ErrInsufficientPrecision (PrecisionError). Context
// errors are wrapped with %w along the way and map to the timeout and
// cancellation exit codes in HandleCalculationError.
package apperrors
