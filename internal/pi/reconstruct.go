package pi

import (
	"math/big"

	apperrors "github.com/agbru/picalc/internal/errors"
)

// Reconstruct turns the triple of the full series into π at prec bits:
//
//	π = 426880·√10005 · Q / T
func Reconstruct(t Triple, prec uint) (*big.Float, error) {
	if t.Q == nil || t.T == nil {
		return nil, apperrors.InvariantError{Invariant: "incomplete triple"}
	}
	if t.T.Sign() == 0 {
		return nil, apperrors.InvariantError{Invariant: "T = 0", Detail: "series sum vanished"}
	}

	radicand := new(big.Float).SetPrec(prec).SetInt64(sqrtRadicand)
	c := new(big.Float).SetPrec(prec).Sqrt(radicand)
	c.Mul(c, new(big.Float).SetPrec(prec).SetInt64(sqrtMultiplier))

	q := new(big.Float).SetPrec(prec).SetInt(t.Q)
	tf := new(big.Float).SetPrec(prec).SetInt(t.T)

	result := new(big.Float).SetPrec(prec).Mul(c, q)
	result.Quo(result, tf)

	if result.Sign() <= 0 {
		return nil, apperrors.InvariantError{
			Invariant: "π > 0",
			Detail:    "reconstruction produced a non-positive value",
		}
	}
	return result, nil
}
