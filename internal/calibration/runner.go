package calibration

import (
	"context"
	"time"

	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/multiply"
)

// calibrationResult holds the result of a single cutoff test.
type calibrationResult struct {
	MinSize  int
	Duration time.Duration
	Err      error
}

// calibrationRunner times one strategy on a fixed pair of operands.
type calibrationRunner struct {
	ctx     context.Context
	mult    multiply.Multiplier
	a, b    *matrix.Matrix[float64]
	base    matrix.StrassenOptions
	repeats int
}

// newCalibrationRunner creates a runner. base supplies the engine settings
// other than the cutoff; each trial keeps the fastest of repeats runs.
func newCalibrationRunner(ctx context.Context, mult multiply.Multiplier, a, b *matrix.Matrix[float64], base matrix.StrassenOptions, repeats int) *calibrationRunner {
	return &calibrationRunner{ctx: ctx, mult: mult, a: a, b: b, base: base, repeats: max(repeats, 1)}
}

// runTrial times the product with the given cutoff.
//
// Parameters:
//   - minSize: The Strassen cutoff to test.
//
// Returns:
//   - time.Duration: The fastest of the repeated runs.
//   - error: The first error returned by the strategy.
func (r *calibrationRunner) runTrial(minSize int) (time.Duration, error) {
	opts := r.base
	opts.MinSize = minSize
	best := time.Duration(1<<63 - 1)
	for i := 0; i < r.repeats; i++ {
		start := time.Now()
		if _, err := r.mult.Multiply(r.ctx, r.a, r.b, opts); err != nil {
			return 0, err
		}
		best = min(best, time.Since(start))
	}
	return best, nil
}

// findBestMinSize runs every candidate and returns all results with the
// fastest cutoff. onResult, if non-nil, is called after each trial. A
// context error stops the search and is returned.
func (r *calibrationRunner) findBestMinSize(candidates []int, onResult func(calibrationResult)) (results []calibrationResult, best int, bestDur time.Duration, err error) {
	bestDur = time.Duration(1<<63 - 1)
	for _, cand := range candidates {
		if err := r.ctx.Err(); err != nil {
			return results, best, bestDur, err
		}
		dur, trialErr := r.runTrial(cand)
		res := calibrationResult{MinSize: cand, Duration: dur, Err: trialErr}
		results = append(results, res)
		if onResult != nil {
			onResult(res)
		}
		if trialErr != nil {
			if r.ctx.Err() != nil {
				return results, best, bestDur, r.ctx.Err()
			}
			continue
		}
		if dur < bestDur {
			bestDur, best = dur, cand
		}
	}
	return results, best, bestDur, nil
}
