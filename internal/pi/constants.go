package pi

// ─────────────────────────────────────────────────────────────────────────────
// Chudnovsky Series Constants
// ─────────────────────────────────────────────────────────────────────────────
//
//	1/π = 12 Σ (-1)^k (6k)! (13591409 + 545140134k) / ((3k)! (k!)^3 640320^(3k+3/2))

const (
	chudnovskyA = 13591409
	chudnovskyB = 545140134

	// c3Over24 is 640320³/24. The division is exact.
	c3Over24 = 10939058860032000

	sqrtRadicand   = 10005
	sqrtMultiplier = 426880
)

// ─────────────────────────────────────────────────────────────────────────────
// Precision Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DigitsPerTerm is log10(640320³/1728), the asymptotic number of decimal
	// digits each series term contributes.
	DigitsPerTerm = 14.181647462725477655525

	// SafetyFactor is the default and minimum working precision in bits per
	// requested decimal digit. log2(10) ≈ 3.32, so 3.5 leaves ~0.18 spare
	// bits per digit on top of GuardBits.
	SafetyFactor = 3.5

	// GuardBits is added to the working precision so that small digit counts
	// keep a fixed margin (≈19 decimal digits).
	GuardBits = 64

	// GuardDigits extends the term count beyond the requested digits. Without
	// it the series truncation error reaches the last requested digit at
	// multiples of DigitsPerTerm (14, 28, 42, ...).
	GuardDigits = 20

	// ExtractGuardDigits sizes the error interval used by ExtractDigits:
	// the value is trusted to ±10^-(digits+ExtractGuardDigits).
	ExtractGuardDigits = 10

	// log2Of10 converts decimal digits to bits.
	log2Of10 = 3.321928094887362347870319429489390175864831393
)

// ─────────────────────────────────────────────────────────────────────────────
// Parallelism Constants
// ─────────────────────────────────────────────────────────────────────────────

const (
	// DefaultParallelThreshold is the range width, in series terms, from which
	// the fork-join splitter evaluates the left half in its own goroutine.
	// Below it, goroutine overhead outweighs the multiplication work.
	DefaultParallelThreshold = 256

	// ParallelCombineThresholdBits is the operand size above which the four
	// products of a merge step run concurrently.
	ParallelCombineThresholdBits = 1 << 18

	// cancelCheckWidth is the smallest range width at which the splitter
	// polls the context.
	cancelCheckWidth = 64

	// progressSteps bounds the number of progress callbacks per split.
	progressSteps = 100

	// splitProgressShare is the fraction of the progress bar assigned to the
	// binary split; reconstruction and extraction share the rest.
	splitProgressShare = 0.9
)
