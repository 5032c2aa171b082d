package memory

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/agbru/picalc/internal/format"
	"github.com/agbru/picalc/internal/pi"
)

// MemoryEstimate breaks down the expected peak memory of a computation.
type MemoryEstimate struct {
	// TripleBytes is the size of the final P, Q and T integers.
	TripleBytes uint64
	// TempBytes covers the products of the last merge step.
	TempBytes uint64
	// FloatBytes covers the big.Float values of reconstruction.
	FloatBytes uint64
	// OutputBytes covers the decimal conversion and the digit string.
	OutputBytes uint64
	// TotalBytes is the sum of the above.
	TotalBytes uint64
}

// EstimateMemoryUsage estimates the peak heap usage for digits digits.
//
// Each series term multiplies Q by roughly 10939058860032000·a³ and P by
// roughly 72a³, so for n terms the final operands hold about
// n·(53.3 + 3·log2 n) and n·(6.2 + 3·log2 n) bits; T is the size of Q.
func EstimateMemoryUsage(digits int) MemoryEstimate {
	if digits <= 0 {
		return MemoryEstimate{}
	}
	n := float64(pi.TermCount(digits))
	logN := math.Log2(n)
	qBits := n * (53.3 + 3*logN)
	pBits := n * (6.2 + 3*logN)
	tripleBits := pBits + 2*qBits

	precBits := float64(digits)*pi.SafetyFactor + pi.GuardBits

	est := MemoryEstimate{
		TripleBytes: uint64(tripleBits / 8),
		TempBytes:   uint64(2 * (pBits + qBits) / 8),
		FloatBytes:  uint64(6 * precBits / 8),
		OutputBytes: uint64(3 * float64(digits)),
	}
	est.TotalBytes = est.TripleBytes + est.TempBytes + est.FloatBytes + est.OutputBytes
	return est
}

// ParseMemoryLimit parses a human-readable size such as "512M", "8G" or
// "1048576" into bytes. Suffixes are binary (K = 1024) and an optional
// trailing "B" or "iB" is accepted.
func ParseMemoryLimit(s string) (uint64, error) {
	v := strings.ToUpper(strings.TrimSpace(s))
	if v == "" {
		return 0, fmt.Errorf("empty memory limit")
	}
	v = strings.TrimSuffix(v, "IB")
	v = strings.TrimSuffix(v, "B")

	multiplier := uint64(1)
	if v != "" {
		switch v[len(v)-1] {
		case 'K':
			multiplier = 1 << 10
		case 'M':
			multiplier = 1 << 20
		case 'G':
			multiplier = 1 << 30
		case 'T':
			multiplier = 1 << 40
		}
		if multiplier != 1 {
			v = v[:len(v)-1]
		}
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || n <= 0 || math.IsInf(n, 0) {
		return 0, fmt.Errorf("invalid memory limit %q", s)
	}
	bytes := n * float64(multiplier)
	if bytes >= math.MaxUint64 {
		return 0, fmt.Errorf("memory limit %q is too large", s)
	}
	return uint64(bytes), nil
}

// FormatMemoryEstimate renders the total estimate in human-readable units.
func FormatMemoryEstimate(est MemoryEstimate) string {
	return format.FormatBytes(est.TotalBytes)
}
