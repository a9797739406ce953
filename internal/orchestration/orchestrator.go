// Package orchestration runs the selected product strategies concurrently
// on the same operands and compares their outcomes.
package orchestration

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"sync"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/matnn/internal/cli"
	"github.com/agbru/matnn/internal/config"
	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/multiply"
	"github.com/agbru/matnn/internal/ui"
)

// MultiplicationResult is the outcome of one strategy.
type MultiplicationResult struct {
	// Name is the strategy's display name (e.g. "Strassen").
	Name string
	// Product is nil if an error occurred.
	Product  *matrix.Matrix[float64]
	Duration time.Duration
	Err      error
}

// ExecuteMultiplications computes a·b with every multiplier concurrently
// and returns the results in input order. A failing strategy does not
// cancel the others; its error is recorded in its result.
//
// Parameters:
//   - ctx: The context for cancellation and deadlines.
//   - multipliers: The strategies to run.
//   - a, b: The shared operands. Strategies never modify them.
//   - cfg: The configuration supplying the engine options.
//   - out: Where the progress spinner is rendered.
//
// Returns:
//   - []MultiplicationResult: One result per multiplier.
func ExecuteMultiplications(ctx context.Context, multipliers []multiply.Multiplier, a, b *matrix.Matrix[float64], cfg config.AppConfig, out io.Writer) []MultiplicationResult {
	var g errgroup.Group
	results := make([]MultiplicationResult, len(multipliers))
	events := make(chan cli.StrategyEvent, len(multipliers))
	opts := cfg.ToStrassenOptions()

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go cli.DisplayProgress(&displayWg, events, len(multipliers), out)

	for i, m := range multipliers {
		g.Go(func() error {
			start := time.Now()
			product, err := m.Multiply(ctx, a, b, opts)
			results[i] = MultiplicationResult{
				Name: m.Name(), Product: product, Duration: time.Since(start), Err: err,
			}
			events <- cli.StrategyEvent{Index: i, Name: m.Name(), Duration: results[i].Duration, Err: err}
			return nil
		})
	}

	_ = g.Wait()
	close(events)
	displayWg.Wait()

	return results
}

// AnalyzeComparisonResults sorts the results by duration (successes
// first), prints a comparison table measuring every product against the
// fastest one, and reports the fastest product.
//
// Two products agree when they have the same shape and every element
// differs by at most cfg.Tolerance. In quiet or JSON mode the table is
// omitted and only the product is printed.
//
// Returns:
//   - int: ExitSuccess, ExitErrorMismatch when strategies disagree, or the
//     code derived from the first error when all of them failed.
func AnalyzeComparisonResults(results []MultiplicationResult, cfg config.AppConfig, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	report := out
	if cfg.Quiet || cfg.JSONOutput {
		report = io.Discard
	}

	var reference *MultiplicationResult
	var firstError error
	for i := range results {
		if results[i].Err == nil && reference == nil {
			reference = &results[i]
		}
		if results[i].Err != nil && firstError == nil {
			firstError = results[i].Err
		}
	}

	fmt.Fprintf(report, "\n--- Comparison Summary ---\n")
	tw := tabwriter.NewWriter(report, 0, 0, 3, ' ', 0)
	u, r := ui.ColorUnderline(), ui.ColorReset()
	fmt.Fprintf(tw, "%sAlgorithm%s\t%sDuration%s\t%sMax difference%s\t%sStatus%s\n", u, r, u, r, u, r, u, r)

	mismatch := false
	for _, res := range results {
		diff, status := "-", ""
		if res.Err != nil {
			status = fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, r)
		} else {
			d := maxAbsDiff(reference.Product, res.Product)
			diff = fmt.Sprintf("%.3g", d)
			if d > cfg.Tolerance {
				mismatch = true
				status = fmt.Sprintf("%s⚠ Mismatch%s", ui.ColorYellow(), r)
			} else {
				status = fmt.Sprintf("%s✅ Success%s", ui.ColorGreen(), r)
			}
		}
		duration := cli.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		fmt.Fprintf(tw, "%s%s%s\t%s%s%s\t%s\t%s\n",
			ui.ColorBlue(), res.Name, r,
			ui.ColorYellow(), duration, r,
			diff, status)
	}
	if err := tw.Flush(); err != nil {
		fmt.Fprintf(out, "Warning: failed to flush tabwriter: %v\n", err)
	}

	if reference == nil {
		fmt.Fprintf(report, "\nGlobal Status: Failure. No algorithm could complete the product.\n")
		return apperrors.HandleRunError(firstError, 0, out, cli.CLIColorProvider{})
	}
	if mismatch {
		fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! The products of the algorithms differ by more than %g.\n", cfg.Tolerance)
		return apperrors.ExitErrorMismatch
	}

	fmt.Fprintf(report, "\nGlobal Status: Success. All valid products agree within %g.\n", cfg.Tolerance)
	err := cli.DisplayResultWithConfig(out, cli.Result{
		Algorithm: reference.Name,
		Product:   reference.Product,
		Duration:  reference.Duration,
	}, cli.OutputConfig{
		OutputFile: cfg.OutputFile,
		Quiet:      cfg.Quiet,
		Verbose:    cfg.Verbose,
		JSON:       cfg.JSONOutput,
	})
	if err != nil {
		return apperrors.HandleRunError(err, 0, out, cli.CLIColorProvider{})
	}
	return apperrors.ExitSuccess
}

// maxAbsDiff returns the largest elementwise distance between two
// products, or +Inf when their shapes differ. NaN cells agree only with NaN.
func maxAbsDiff(a, b *matrix.Matrix[float64]) float64 {
	if a.Shape() != b.Shape() {
		return math.Inf(1)
	}
	worst := 0.0
	for r := 0; r < a.Rows(); r++ {
		ra, rb := a.Row(r), b.Row(r)
		for c := range ra {
			nanA, nanB := math.IsNaN(ra[c]), math.IsNaN(rb[c])
			if nanA || nanB {
				if nanA != nanB {
					return math.Inf(1)
				}
				continue
			}
			worst = math.Max(worst, math.Abs(ra[c]-rb[c]))
		}
	}
	return worst
}
