package calibration

import (
	"context"
	"errors"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/matnn/internal/matrix"
)

// ─────────────────────────────────────────────────────────────────────────────
// Micro-benchmark Configuration
// ─────────────────────────────────────────────────────────────────────────────

const (
	// MicroBenchIterations is the number of timed runs per test; the fastest
	// one is kept.
	MicroBenchIterations = 3

	// MicroBenchTimeout is the maximum time for the entire micro-benchmark suite.
	MicroBenchTimeout = 500 * time.Millisecond
)

// MicroBenchmark estimates the Strassen cutoff by timing, at a few
// dimensions, one sequential Strassen level against the naive product.
// The smallest dimension where the Strassen level wins is the estimate.
type MicroBenchmark struct {
	// TestSizes are the square dimensions to probe (default: GenerateQuickSizes()).
	TestSizes []int
	// Iterations is the number of timed runs per test.
	Iterations int
	// Timeout bounds the entire benchmark.
	Timeout time.Duration
	// Seed makes the operands reproducible (0 = fixed internal seed).
	Seed uint64
}

// ThresholdResults contains the estimate produced by a micro-benchmark.
type ThresholdResults struct {
	// MinSize is the estimated cutoff, or 0 when no crossover was observed.
	MinSize int
	// Confidence is a score from 0 to 1 indicating result reliability.
	Confidence float64
	// Duration is how long the micro-benchmark took.
	Duration time.Duration
}

// testResult holds the timings of one probed dimension.
type testResult struct {
	size     int
	naive    time.Duration
	strassen time.Duration
	err      error
}

// NewMicroBenchmark creates a new MicroBenchmark with default settings.
func NewMicroBenchmark() *MicroBenchmark {
	return &MicroBenchmark{
		TestSizes:  GenerateQuickSizes(),
		Iterations: MicroBenchIterations,
		Timeout:    MicroBenchTimeout,
	}
}

// RunQuick runs the probes concurrently (at most one per CPU) and analyses
// them. Probes cut short by the timeout are ignored.
func (mb *MicroBenchmark) RunQuick(ctx context.Context) (ThresholdResults, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, mb.Timeout)
	defer cancel()

	results, err := mb.runTests(ctx)
	if err != nil {
		return ThresholdResults{}, err
	}

	thresholds := mb.analyzeResults(results)
	thresholds.Duration = time.Since(start)
	return thresholds, nil
}

func (mb *MicroBenchmark) runTests(ctx context.Context) ([]testResult, error) {
	var (
		mu      sync.Mutex
		results []testResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())

	for i, size := range mb.TestSizes {
		seed := mb.Seed + uint64(i) + 1
		g.Go(func() error {
			r := mb.runSingleTest(gctx, size, seed)
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Reaching the benchmark timeout is expected; a canceled parent is not.
	if errors.Is(ctx.Err(), context.Canceled) {
		return nil, ctx.Err()
	}
	return results, nil
}

// runSingleTest times the naive product and one Strassen level at size.
func (mb *MicroBenchmark) runSingleTest(ctx context.Context, size int, seed uint64) testResult {
	rng := rand.New(rand.NewPCG(seed, seed^0x5deece66d))
	a := matrix.RandomWith(rng, size, size, -1.0, 1.0)
	b := matrix.RandomWith(rng, size, size, -1.0, 1.0)
	oneLevel := matrix.StrassenOptions{MinSize: size, Sequential: true}

	res := testResult{size: size}
	res.naive, res.err = bestOf(ctx, mb.Iterations, func() { matrix.NaiveMatMul(a, b) })
	if res.err != nil {
		return res
	}
	res.strassen, res.err = bestOf(ctx, mb.Iterations, func() { matrix.StrassenMatMulWithOptions(a, b, oneLevel) })
	return res
}

// bestOf runs fn n times after one warm-up run and returns the fastest
// timing. The context is checked between runs.
func bestOf(ctx context.Context, n int, fn func()) (time.Duration, error) {
	fn()
	best := time.Duration(1<<63 - 1)
	for i := 0; i < max(n, 1); i++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		start := time.Now()
		fn()
		best = min(best, time.Since(start))
	}
	return best, nil
}

// analyzeResults picks the smallest probed dimension at which one Strassen
// level beats the naive product by at least 5%.
func (mb *MicroBenchmark) analyzeResults(results []testResult) ThresholdResults {
	tr := ThresholdResults{Confidence: 0.5}

	valid := 0
	for _, r := range results {
		if r.err != nil {
			continue
		}
		valid++
		if r.strassen < r.naive*95/100 && (tr.MinSize == 0 || r.size < tr.MinSize) {
			tr.MinSize = r.size
		}
	}

	switch {
	case valid == 0:
		tr.Confidence = 0
	case tr.MinSize > 0:
		tr.Confidence += 0.2
	}
	if len(mb.TestSizes) > 0 {
		tr.Confidence += 0.3 * float64(valid) / float64(len(mb.TestSizes))
	}
	return tr
}

// ─────────────────────────────────────────────────────────────────────────────
// Quick Calibration Function
// ─────────────────────────────────────────────────────────────────────────────

// QuickCalibrate performs a fast estimate of the Strassen cutoff using
// micro-benchmarks.
//
// Parameters:
//   - ctx: The context for cancellation.
//
// Returns:
//   - ThresholdResults: The estimate.
//   - error: The context error if ctx was canceled.
func QuickCalibrate(ctx context.Context) (ThresholdResults, error) {
	return NewMicroBenchmark().RunQuick(ctx)
}
