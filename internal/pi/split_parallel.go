package pi

import (
	"math/big"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

var (
	taskSemaphore     chan struct{}
	taskSemaphoreOnce sync.Once
)

// getTaskSemaphore returns the process-wide semaphore bounding the number of
// extra goroutines spawned by the fork-join splitter.
func getTaskSemaphore() chan struct{} {
	taskSemaphoreOnce.Do(func() {
		taskSemaphore = make(chan struct{}, runtime.NumCPU()*2)
	})
	return taskSemaphore
}

// tryAcquire takes a semaphore slot without blocking. Blocking here could
// deadlock, since parents hold slots while waiting for their children.
func tryAcquire() bool {
	select {
	case getTaskSemaphore() <- struct{}{}:
		return true
	default:
		return false
	}
}

func release() {
	<-getTaskSemaphore()
}

// forkJoin evaluates [a, m) on a new goroutine when a slot is free and
// [m, b) on the current one, then merges.
func (s *splitter) forkJoin(a, m, b int) (Triple, error) {
	if !tryAcquire() {
		left, err := s.split(a, m)
		if err != nil {
			return Triple{}, err
		}
		right, err := s.split(m, b)
		if err != nil {
			return Triple{}, err
		}
		return s.merge(left, right)
	}

	var left Triple
	var g errgroup.Group
	g.Go(func() error {
		defer release()
		var err error
		left, err = s.split(a, m)
		return err
	})

	right, rightErr := s.split(m, b)
	if err := g.Wait(); err != nil {
		return Triple{}, err
	}
	if rightErr != nil {
		return Triple{}, rightErr
	}
	return s.merge(left, right)
}

// merge combines two triples, running the four products concurrently when
// the operands are large enough to amortize the goroutines.
func (s *splitter) merge(left, right Triple) (Triple, error) {
	if left.Q.BitLen() < ParallelCombineThresholdBits || right.Q.BitLen() < ParallelCombineThresholdBits {
		return combine(left, right), nil
	}

	p := new(big.Int)
	q := new(big.Int)
	t1 := new(big.Int)
	t2 := new(big.Int)

	var g errgroup.Group
	g.Go(func() error { p.Mul(left.P, right.P); return nil })
	g.Go(func() error { q.Mul(left.Q, right.Q); return nil })
	g.Go(func() error { t1.Mul(left.T, right.Q); return nil })
	t2.Mul(right.T, left.P)
	if err := g.Wait(); err != nil {
		return Triple{}, err
	}
	return Triple{P: p, Q: q, T: t1.Add(t1, t2)}, nil
}
