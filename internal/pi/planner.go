package pi

import (
	"fmt"
	"math"
	"math/big"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// Plan is the immutable sizing of one π computation.
type Plan struct {
	// Digits is the number of fractional digits requested.
	Digits int
	// Terms is the number of Chudnovsky terms to sum, always >= 1.
	Terms int
	// Precision is the working precision in bits for every big.Float value.
	Precision uint
	// SafetyFactor is the bits-per-digit multiplier used for Precision.
	SafetyFactor float64
}

// NewPlan derives the term count and working precision for digits.
// A zero safetyFactor selects SafetyFactor; values below it are rejected.
func NewPlan(digits int, safetyFactor float64) (Plan, error) {
	if digits <= 0 {
		return Plan{}, apperrors.ValidationError{
			Field:   "digits",
			Message: fmt.Sprintf("must be at least 1, got %d", digits),
		}
	}
	if safetyFactor == 0 {
		safetyFactor = SafetyFactor
	}
	if safetyFactor < SafetyFactor || math.IsNaN(safetyFactor) || math.IsInf(safetyFactor, 0) {
		return Plan{}, apperrors.ValidationError{
			Field:   "safety-factor",
			Message: fmt.Sprintf("must be a finite value >= %.1f, got %g", SafetyFactor, safetyFactor),
		}
	}

	bits := math.Ceil(float64(digits)*safetyFactor) + GuardBits
	if bits > big.MaxPrec {
		return Plan{}, apperrors.ValidationError{
			Field:   "digits",
			Message: fmt.Sprintf("%d digits exceed the maximum representable precision", digits),
		}
	}

	return Plan{
		Digits:       digits,
		Terms:        TermCount(digits),
		Precision:    uint(bits),
		SafetyFactor: safetyFactor,
	}, nil
}

// TermCount returns the number of series terms needed for digits correct
// digits, including GuardDigits of margin. It is at least 1.
func TermCount(digits int) int {
	if digits < 0 {
		digits = 0
	}
	return int(float64(digits+GuardDigits)/DigitsPerTerm) + 1
}
