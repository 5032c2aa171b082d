package pi

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/agbru/picalc/internal/progress"
)

var tracer = otel.Tracer("github.com/agbru/picalc/internal/pi")

// Options configures a π computation.
type Options struct {
	// SafetyFactor is the working precision in bits per requested digit.
	// Zero selects SafetyFactor; smaller values are rejected.
	SafetyFactor float64
	// ParallelThreshold is the range width, in series terms, at which the
	// fork-join splitter spawns a goroutine. Zero selects
	// DefaultParallelThreshold. Ignored by sequential algorithms.
	ParallelThreshold int
	// Logger receives debug-level traces of each stage. Nil disables them.
	Logger *zerolog.Logger
}

func (o Options) logger() zerolog.Logger {
	if o.Logger == nil {
		return zerolog.Nop()
	}
	return *o.Logger
}

func (o Options) parallelThreshold() int {
	if o.ParallelThreshold <= 0 {
		return DefaultParallelThreshold
	}
	return o.ParallelThreshold
}

// Calculator is the public interface of a π digit algorithm.
type Calculator interface {
	// Calculate computes π to digits fractional digits and sends progress
	// updates, tagged with calcIndex, to progressChan. A nil channel
	// disables reporting; sends never block.
	Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, digits int, opts Options) (string, error)

	// Name returns a human-readable description of the algorithm.
	Name() string
}

// coreCalculator is the series-evaluation strategy behind a PiCalculator.
// Implementations only differ in how they produce the triple of [0, terms).
type coreCalculator interface {
	SplitCore(ctx context.Context, tracker *progress.Tracker, terms int, opts Options) (Triple, error)
	Name() string
}

// PiCalculator runs the full pipeline around a coreCalculator: planning,
// series evaluation, reconstruction and digit extraction.
type PiCalculator struct {
	core coreCalculator
}

// NewCalculator wraps core in a PiCalculator.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("pi: nil coreCalculator")
	}
	return &PiCalculator{core: core}
}

// Name returns the name of the underlying algorithm.
func (c *PiCalculator) Name() string {
	return c.core.Name()
}

// Calculate implements Calculator.
func (c *PiCalculator) Calculate(ctx context.Context, progressChan chan<- progress.ProgressUpdate, calcIndex int, digits int, opts Options) (string, error) {
	var report progress.ProgressCallback
	if progressChan != nil {
		report = func(v float64) {
			select {
			case progressChan <- progress.ProgressUpdate{CalculatorIndex: calcIndex, Value: v}:
			default:
			}
		}
	}
	return c.CalculateWithCallback(ctx, report, digits, opts)
}

// CalculateWithCallback is Calculate with a plain callback in place of the
// progress channel. A nil callback disables reporting.
func (c *PiCalculator) CalculateWithCallback(ctx context.Context, report progress.ProgressCallback, digits int, opts Options) (string, error) {
	ctx, span := tracer.Start(ctx, "pi.Calculate", trace.WithAttributes(
		attribute.String("pi.algorithm", c.core.Name()),
		attribute.Int("pi.digits", digits),
	))
	defer span.End()

	result, err := c.calculate(ctx, report, digits, opts)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}
	return result, nil
}

func (c *PiCalculator) calculate(ctx context.Context, report progress.ProgressCallback, digits int, opts Options) (string, error) {
	log := opts.logger().With().Str("algorithm", c.core.Name()).Int("digits", digits).Logger()

	plan, err := NewPlan(digits, opts.SafetyFactor)
	if err != nil {
		return "", err
	}
	trace.SpanFromContext(ctx).SetAttributes(
		attribute.Int("pi.terms", plan.Terms),
		attribute.Int64("pi.precision_bits", int64(plan.Precision)),
	)
	log.Debug().Int("terms", plan.Terms).Uint("precision", plan.Precision).Msg("plan ready")

	if report != nil {
		report(0)
	}
	tracker := progress.NewTracker(int64(plan.Terms), progressSteps, 0, splitProgressShare, report)

	_, splitSpan := tracer.Start(ctx, "pi.Split")
	triple, err := c.core.SplitCore(ctx, tracker, plan.Terms, opts)
	splitSpan.End()
	if err != nil {
		return "", err
	}
	log.Debug().Int("q_bits", triple.Q.BitLen()).Int("t_bits", triple.T.BitLen()).Msg("series evaluated")

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("canceled before reconstruction: %w", err)
	}

	_, recSpan := tracer.Start(ctx, "pi.Reconstruct")
	value, err := Reconstruct(triple, plan.Precision)
	recSpan.End()
	if err != nil {
		return "", err
	}
	if report != nil {
		report(0.95)
	}

	_, extSpan := tracer.Start(ctx, "pi.ExtractDigits")
	digitsStr, err := ExtractDigits(value, plan.Digits)
	extSpan.End()
	if err != nil {
		return "", err
	}
	log.Debug().Msg("digits extracted")

	if report != nil {
		report(1.0)
	}
	return digitsStr, nil
}

// SequentialSplitter evaluates the series depth-first on one goroutine.
type SequentialSplitter struct{}

// Name implements coreCalculator.
func (*SequentialSplitter) Name() string { return "Binary Splitting (sequential)" }

// SplitCore implements coreCalculator.
func (*SequentialSplitter) SplitCore(ctx context.Context, tracker *progress.Tracker, terms int, _ Options) (Triple, error) {
	return splitRange(ctx, 0, terms, 0, tracker)
}

// ParallelSplitter evaluates the series with a bounded fork-join recursion.
type ParallelSplitter struct{}

// Name implements coreCalculator.
func (*ParallelSplitter) Name() string { return "Binary Splitting (fork-join)" }

// SplitCore implements coreCalculator.
func (*ParallelSplitter) SplitCore(ctx context.Context, tracker *progress.Tracker, terms int, opts Options) (Triple, error) {
	return splitRange(ctx, 0, terms, opts.parallelThreshold(), tracker)
}
