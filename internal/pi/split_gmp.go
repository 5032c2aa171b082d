//go:build gmp

// GMP-backed series evaluation, compiled only with -tags=gmp. It needs
// libgmp (libgmp-dev on Debian, gmp on Homebrew) at build and run time.

package pi

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ncw/gmp"

	"github.com/agbru/picalc/internal/progress"
)

func init() {
	registerCalculator("gmp", func() coreCalculator { return &GMPSplitter{} })
}

// GMPSplitter evaluates the series with libgmp integers and converts the
// final triple to math/big for reconstruction.
type GMPSplitter struct{}

// Name implements coreCalculator.
func (*GMPSplitter) Name() string { return "Binary Splitting (GMP)" }

type gmpTriple struct {
	p, q, t *gmp.Int
}

// SplitCore implements coreCalculator.
func (*GMPSplitter) SplitCore(ctx context.Context, tracker *progress.Tracker, terms int, _ Options) (Triple, error) {
	if terms <= 0 {
		return Triple{}, fmt.Errorf("invalid split range [0, %d)", terms)
	}
	g, err := gmpSplit(ctx, tracker, 0, terms)
	if err != nil {
		return Triple{}, err
	}
	return Triple{P: gmpToBig(g.p), Q: gmpToBig(g.q), T: gmpToBig(g.t)}, nil
}

func gmpSplit(ctx context.Context, tracker *progress.Tracker, a, b int) (gmpTriple, error) {
	if b-a == 1 {
		base := baseTriple(a)
		tracker.Add(1)
		return gmpTriple{p: bigToGMP(base.P), q: bigToGMP(base.Q), t: bigToGMP(base.T)}, nil
	}
	if b-a >= cancelCheckWidth {
		if err := ctx.Err(); err != nil {
			return gmpTriple{}, fmt.Errorf("binary split [%d, %d) canceled: %w", a, b, err)
		}
	}
	m := (a + b) / 2
	left, err := gmpSplit(ctx, tracker, a, m)
	if err != nil {
		return gmpTriple{}, err
	}
	right, err := gmpSplit(ctx, tracker, m, b)
	if err != nil {
		return gmpTriple{}, err
	}

	left.t.Mul(left.t, right.q)
	right.t.Mul(right.t, left.p)
	left.t.Add(left.t, right.t)
	left.p.Mul(left.p, right.p)
	left.q.Mul(left.q, right.q)
	return left, nil
}

func bigToGMP(x *big.Int) *gmp.Int {
	z := new(gmp.Int).SetBytes(x.Bytes())
	if x.Sign() < 0 {
		z.Neg(z)
	}
	return z
}

func gmpToBig(x *gmp.Int) *big.Int {
	z := new(big.Int).SetBytes(x.Bytes())
	if x.Sign() < 0 {
		z.Neg(z)
	}
	return z
}
