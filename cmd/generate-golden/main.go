// Command generate-golden writes the reference digits of π used by the pi
// package tests. The digits come from Machin's formula,
//
//	π = 16·arctan(1/5) − 4·arctan(1/239),
//
// evaluated in fixed-point integer arithmetic, so the oracle shares no code
// with the Chudnovsky implementation it checks.
package main

import (
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// guardDigits are the extra fixed-point digits carried to absorb the
// truncation error of each series term.
const guardDigits = 10

func main() {
	digits := flag.Int("digits", 1100, "number of fractional digits to generate")
	out := flag.String("out", filepath.Join("internal", "pi", "testdata", "pi_1100.txt"), "output file")
	flag.Parse()

	if *digits <= 0 {
		fmt.Fprintf(os.Stderr, "digits must be positive, got %d\n", *digits)
		os.Exit(1)
	}
	if err := writeGolden(*out, machinPi(*digits)); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %d digits of pi to %s\n", *digits, *out)
}

// writeGolden writes value to path without a trailing newline.
func writeGolden(path, value string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}
	return os.WriteFile(path, []byte(value), 0o644)
}

// machinPi returns "3." followed by the first digits fractional digits of π,
// truncated.
func machinPi(digits int) string {
	unity := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits+guardDigits)), nil)

	a := arccot(5, unity)
	a.Lsh(a, 4)
	b := arccot(239, unity)
	b.Lsh(b, 2)
	p := a.Sub(a, b)

	// Drop the guard digits.
	p.Quo(p, new(big.Int).Exp(big.NewInt(10), big.NewInt(guardDigits), nil))
	s := p.String()
	return s[:1] + "." + s[1:]
}

// arccot returns unity·arctan(1/x) from the alternating Gregory series
// Σ (−1)^k / ((2k+1)·x^(2k+1)).
func arccot(x int64, unity *big.Int) *big.Int {
	sum := new(big.Int)
	xSq := big.NewInt(x * x)
	power := new(big.Int).Quo(unity, big.NewInt(x))
	term := new(big.Int)
	n := big.NewInt(1)
	two := big.NewInt(2)
	for k := 0; power.Sign() != 0; k++ {
		term.Quo(power, n)
		if k%2 == 0 {
			sum.Add(sum, term)
		} else {
			sum.Sub(sum, term)
		}
		power.Quo(power, xSq)
		n.Add(n, two)
	}
	return sum
}
