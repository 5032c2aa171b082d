package pi

import "context"

// Compute returns π as "3." followed by exactly digits fractional digits,
// truncated. It uses the fork-join splitter; the result is identical to a
// sequential evaluation.
func Compute(ctx context.Context, digits int, opts Options) (string, error) {
	calc := &PiCalculator{core: &ParallelSplitter{}}
	return calc.CalculateWithCallback(ctx, nil, digits, opts)
}

// ComputePi is Compute with a background context and default options.
func ComputePi(digits int) (string, error) {
	return Compute(context.Background(), digits, Options{})
}
