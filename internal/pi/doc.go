// Package pi computes the decimal expansion of π to an arbitrary number of
// digits with the Chudnovsky series.
//
// The computation is a one-way pipeline:
//
//	NewPlan -> Split* -> Reconstruct -> ExtractDigits
//
// The planner derives the number of series terms and the working precision
// from the requested digit count. The binary-splitting engine evaluates the
// series over [0, terms) using exact integer arithmetic only, producing the
// triple (P, Q, T). The reconstructor performs the single square root and the
// single division at the working precision, and the extractor truncates the
// result to "3." followed by exactly the requested number of digits.
//
// Every invocation is self-contained: no state is shared between calls other
// than the bounded task semaphore used by the fork-join splitter.
package pi
