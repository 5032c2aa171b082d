package apperrors

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestSentinelMatching(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"ValidationError is ErrInvalidInput", ValidationError{Field: "digits", Message: "must be at least 1"}, ErrInvalidInput},
		{"InvariantError is ErrArithmeticInvariant", InvariantError{Invariant: "T != 0"}, ErrArithmeticInvariant},
		{"PrecisionError is ErrInsufficientPrecision", PrecisionError{Digits: 10, PrecisionBits: 8, Reason: "too few bits"}, ErrInsufficientPrecision},
		{"wrapped PrecisionError", WrapError(PrecisionError{Digits: 1}, "extract"), ErrInsufficientPrecision},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if !errors.Is(tt.err, tt.sentinel) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.sentinel)
			}
		})
	}

	if errors.Is(InvariantError{Invariant: "x"}, ErrInvalidInput) {
		t.Error("InvariantError must not match ErrInvalidInput")
	}
}

func TestInvariantError_Message(t *testing.T) {
	t.Parallel()
	if got := (InvariantError{Invariant: "T != 0"}).Error(); got != "arithmetic invariant violated: T != 0" {
		t.Errorf("unexpected message %q", got)
	}
	got := (InvariantError{Invariant: "pi > 0", Detail: "sign=-1"}).Error()
	if !strings.Contains(got, "sign=-1") {
		t.Errorf("message should carry detail, got %q", got)
	}
}

func TestHandleCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantText string
	}{
		{"nil", nil, ExitSuccess, ""},
		{"invalid input", ValidationError{Field: "digits", Message: "must be at least 1"}, ExitErrorConfig, "Invalid input"},
		{"config", NewConfigError("bad flag"), ExitErrorConfig, "bad flag"},
		{"precision", PrecisionError{Digits: 5, PrecisionBits: 4, Reason: "x"}, ExitErrorPrecision, "Precision failure"},
		{"invariant", InvariantError{Invariant: "T != 0"}, ExitErrorGeneric, "Internal error"},
		{"deadline", WrapError(context.DeadlineExceeded, "split"), ExitErrorTimeout, "Timeout"},
		{"canceled", context.Canceled, ExitErrorCanceled, "Canceled"},
		{"generic", errors.New("boom"), ExitErrorGeneric, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleCalculationError(tt.err, time.Second, &buf, nil)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if !strings.Contains(buf.String(), tt.wantText) {
				t.Errorf("output %q should contain %q", buf.String(), tt.wantText)
			}
		})
	}
}
