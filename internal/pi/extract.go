package pi

import (
	"fmt"
	"math"
	"math/big"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// RequiredPrecision returns the minimum mantissa size, in bits, that
// ExtractDigits accepts for digits fractional digits.
func RequiredPrecision(digits int) uint {
	return uint(math.Ceil(float64(digits+ExtractGuardDigits)*log2Of10)) + 8
}

// ExtractDigits renders x as "3." followed by exactly digits fractional
// digits, truncating (never rounding) the expansion.
//
// x is trusted to within ±10^-(digits+ExtractGuardDigits). If the truncated
// digits differ anywhere in that interval, the digits cannot be decided at
// this precision and a PrecisionError is returned.
func ExtractDigits(x *big.Float, digits int) (string, error) {
	if digits <= 0 {
		return "", apperrors.ValidationError{
			Field:   "digits",
			Message: fmt.Sprintf("must be at least 1, got %d", digits),
		}
	}
	if x == nil || x.Sign() <= 0 || x.IsInf() {
		return "", apperrors.InvariantError{Invariant: "π > 0", Detail: "extractor received a non-positive value"}
	}
	if need := RequiredPrecision(digits); x.Prec() < need {
		return "", apperrors.PrecisionError{
			Digits:        digits,
			PrecisionBits: x.Prec(),
			Reason:        fmt.Sprintf("at least %d bits required", need),
		}
	}

	// n = floor(x · 10^(digits+guard)). The product is exact because the
	// result has room for both mantissas.
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits+ExtractGuardDigits)), nil)
	scaled := new(big.Float).SetPrec(x.Prec() + uint(scale.BitLen())).SetInt(scale)
	scaled.Mul(scaled, x)
	n, _ := scaled.Int(nil)

	// Over the interval the scaled value spans [n-1, n+2), so the truncated
	// digits range from floor((n-1)/10^guard) to floor((n+1)/10^guard).
	guard := new(big.Int).Exp(big.NewInt(10), big.NewInt(ExtractGuardDigits), nil)
	lo := new(big.Int).Sub(n, big.NewInt(1))
	lo.Quo(lo, guard)
	hi := new(big.Int).Add(n, big.NewInt(1))
	hi.Quo(hi, guard)
	if lo.Cmp(hi) != 0 {
		return "", apperrors.PrecisionError{
			Digits:        digits,
			PrecisionBits: x.Prec(),
			Reason:        "truncated digits are not stable within the error bound",
		}
	}

	s := n.Quo(n, guard).String()
	if len(s) != digits+1 {
		return "", apperrors.InvariantError{
			Invariant: "one integer digit",
			Detail:    fmt.Sprintf("got %d digits for %d requested", len(s), digits+1),
		}
	}
	return s[:1] + "." + s[1:], nil
}
