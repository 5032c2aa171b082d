package pi

import (
	"context"
	"fmt"
	"math/big"

	"github.com/agbru/picalc/internal/progress"
)

// Triple is the binary-splitting accumulator (P, Q, T) for a range [a, b) of
// series indices. All three values are exact integers.
type Triple struct {
	P, Q, T *big.Int
}

// baseTriple returns the closed-form triple for the singleton range [a, a+1).
func baseTriple(a int) Triple {
	var p, q *big.Int
	if a == 0 {
		p = big.NewInt(1)
		q = big.NewInt(1)
	} else {
		ab := big.NewInt(int64(a))

		// P = (6a-5)(2a-1)(6a-1)
		p = big.NewInt(6*int64(a) - 5)
		p.Mul(p, big.NewInt(2*int64(a)-1))
		p.Mul(p, big.NewInt(6*int64(a)-1))

		// Q = a³ · 640320³/24
		q = new(big.Int).Mul(ab, ab)
		q.Mul(q, ab)
		q.Mul(q, big.NewInt(c3Over24))
	}

	// T = P · (13591409 + 545140134a), negated for odd a
	t := big.NewInt(chudnovskyB)
	t.Mul(t, big.NewInt(int64(a)))
	t.Add(t, big.NewInt(chudnovskyA))
	t.Mul(t, p)
	if a%2 == 1 {
		t.Neg(t)
	}
	return Triple{P: p, Q: q, T: t}
}

// combine merges the triples of [a, m) and [m, b):
//
//	P = P1·P2,  Q = Q1·Q2,  T = T1·Q2 + T2·P1
//
// Both operands are consumed; the result reuses left's storage.
func combine(left, right Triple) Triple {
	left.T.Mul(left.T, right.Q)
	right.T.Mul(right.T, left.P)
	left.T.Add(left.T, right.T)
	left.P.Mul(left.P, right.P)
	left.Q.Mul(left.Q, right.Q)
	return left
}

// splitter evaluates the series over a range by recursive bisection. A zero
// parallelThreshold gives a purely sequential depth-first evaluation.
type splitter struct {
	ctx               context.Context
	tracker           *progress.Tracker
	parallelThreshold int
}

func (s *splitter) split(a, b int) (Triple, error) {
	if b-a == 1 {
		t := baseTriple(a)
		s.tracker.Add(1)
		return t, nil
	}
	if b-a >= cancelCheckWidth {
		if err := s.ctx.Err(); err != nil {
			return Triple{}, fmt.Errorf("binary split [%d, %d) canceled: %w", a, b, err)
		}
	}

	m := (a + b) / 2
	if s.parallelThreshold > 0 && b-a >= s.parallelThreshold {
		return s.forkJoin(a, m, b)
	}

	left, err := s.split(a, m)
	if err != nil {
		return Triple{}, err
	}
	right, err := s.split(m, b)
	if err != nil {
		return Triple{}, err
	}
	return combine(left, right), nil
}

// SplitSequential computes the triple for [a, b) with a depth-first
// recursion on the calling goroutine.
func SplitSequential(ctx context.Context, a, b int) (Triple, error) {
	return splitRange(ctx, a, b, 0, nil)
}

// SplitParallel computes the triple for [a, b), evaluating both halves of
// every range at least threshold terms wide concurrently. The result is
// identical to SplitSequential.
func SplitParallel(ctx context.Context, a, b, threshold int) (Triple, error) {
	if threshold <= 0 {
		threshold = DefaultParallelThreshold
	}
	return splitRange(ctx, a, b, threshold, nil)
}

func splitRange(ctx context.Context, a, b, threshold int, tracker *progress.Tracker) (Triple, error) {
	if a < 0 || b <= a {
		return Triple{}, fmt.Errorf("invalid split range [%d, %d)", a, b)
	}
	s := &splitter{ctx: ctx, tracker: tracker, parallelThreshold: threshold}
	return s.split(a, b)
}
