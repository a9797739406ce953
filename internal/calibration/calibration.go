package calibration

import (
	"context"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"sync"
	"time"

	"github.com/agbru/matnn/internal/cli"
	"github.com/agbru/matnn/internal/config"
	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/multiply"
	"github.com/agbru/matnn/internal/ui"
)

// DefaultRepeats is the number of timed runs per candidate cutoff.
const DefaultRepeats = 3

// CalibrationOptions configures the calibration process.
type CalibrationOptions struct {
	// ProfilePath is the path to save the calibration profile.
	// If empty, uses the default path.
	ProfilePath string
	// SaveProfile indicates whether to save the calibration results.
	SaveProfile bool
	// Size is the dimension of the square operands benchmarked.
	Size int
	// Seed makes the operands reproducible (0 = random).
	Seed uint64
	// Repeats is the number of timed runs per candidate (0 = DefaultRepeats).
	Repeats int
	// Engine carries the engine settings other than the cutoff.
	Engine matrix.StrassenOptions
	// SkipQuick disables the micro-benchmark estimate normally added to the
	// candidates.
	SkipQuick bool
}

// RunCalibration benchmarks Strassen cutoffs on random cfg.Size×cfg.Size
// operands, prints the timings and saves the fastest cutoff in the profile
// at cfg.CalibrationProfile.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - out: The io.Writer to which progress and results will be written.
//   - mult: The Strassen strategy to time.
//   - cfg: The application configuration.
//
// Returns:
//   - int: The exit code (0 for success, non-zero for errors).
func RunCalibration(ctx context.Context, out io.Writer, mult multiply.Multiplier, cfg config.AppConfig) int {
	return RunCalibrationWithOptions(ctx, out, mult, CalibrationOptions{
		ProfilePath: cfg.CalibrationProfile,
		SaveProfile: true,
		Size:        cfg.Size,
		Seed:        cfg.Seed,
		Engine:      cfg.ToStrassenOptions(),
	})
}

// RunCalibrationWithOptions executes calibration with the specified options.
func RunCalibrationWithOptions(ctx context.Context, out io.Writer, mult multiply.Multiplier, opts CalibrationOptions) int {
	fmt.Fprintf(out, "--- Calibration Mode: Finding the Optimal Strassen Cutoff ---\n")

	if mult == nil {
		fmt.Fprintf(out, "%sCritical error: the 'strassen' algorithm is required for calibration but was not found.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	if opts.Size < 2 {
		fmt.Fprintf(out, "%sCalibration needs operands of at least 2x2, got %d.%s\n", ui.ColorRed(), opts.Size, ui.ColorReset())
		return apperrors.ExitErrorConfig
	}
	if opts.Repeats <= 0 {
		opts.Repeats = DefaultRepeats
	}
	calibrationStart := time.Now()

	candidates := GenerateMinSizeCandidates(opts.Size)
	if !opts.SkipQuick {
		quick, err := QuickCalibrate(ctx)
		if err != nil {
			return apperrors.HandleRunError(err, time.Since(calibrationStart), out, cli.CLIColorProvider{})
		}
		if quick.MinSize > 0 && quick.Confidence >= 0.5 {
			fmt.Fprintf(out, "%sQuick estimate%s (%v): min-size=%s%d%s (confidence: %.0f%%)\n",
				ui.ColorGreen(), ui.ColorReset(), quick.Duration.Round(time.Millisecond),
				ui.ColorYellow(), quick.MinSize, ui.ColorReset(), quick.Confidence*100)
			candidates = mergeCandidates(candidates, opts.Size, quick.MinSize)
		}
	}
	fmt.Fprintf(out, "%sTesting %d cutoffs on %d CPU cores%s\n",
		ui.ColorCyan(), len(candidates), runtime.NumCPU(), ui.ColorReset())

	a, b := calibrationOperands(opts.Size, opts.Seed)
	runner := newCalibrationRunner(ctx, mult, a, b, opts.Engine, opts.Repeats)

	var wg sync.WaitGroup
	events := make(chan cli.StrategyEvent, len(candidates))
	wg.Add(1)
	go cli.DisplayProgress(&wg, events, len(candidates), out)

	index := 0
	results, best, bestDur, err := runner.findBestMinSize(candidates, func(r calibrationResult) {
		events <- cli.StrategyEvent{Index: index, Name: cutoffLabel(r.MinSize, opts.Size), Duration: r.Duration, Err: r.Err}
		index++
	})
	close(events)
	wg.Wait()

	if err != nil {
		fmt.Fprintf(out, "\n%sCalibration interrupted.%s\n", ui.ColorYellow(), ui.ColorReset())
		return apperrors.HandleRunError(err, time.Since(calibrationStart), out, cli.CLIColorProvider{})
	}
	if bestDur == time.Duration(1<<63-1) {
		fmt.Fprintf(out, "\n%sCalibration failed: no valid results obtained.%s\n", ui.ColorRed(), ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}

	printCalibrationResults(out, results, best, opts.Size)
	fmt.Fprintf(out, "\n%s✅ Recommendation for this machine: %s-min-size %d%s\n",
		ui.ColorGreen(), ui.ColorYellow(), best, ui.ColorReset())

	if opts.SaveProfile {
		profile := NewProfile()
		profile.OptimalMinSize = best
		profile.CalibrationSize = opts.Size
		profile.CalibrationTime = time.Since(calibrationStart).String()
		saveCalibrationProfile(profile, opts.ProfilePath, out)
	}
	return apperrors.ExitSuccess
}

// calibrationOperands returns two random size×size operands with
// elements in [-1, 1).
func calibrationOperands(size int, seed uint64) (a, b *matrix.Matrix[float64]) {
	if seed == 0 {
		seed = rand.Uint64()
	}
	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	return matrix.RandomWith(rng, size, size, -1.0, 1.0), matrix.RandomWith(rng, size, size, -1.0, 1.0)
}

// LoadCachedCalibration applies a cached calibration profile. When a valid
// profile exists at cfg.CalibrationProfile and no cutoff was given
// explicitly, the profile's cutoff becomes both cfg.MinSize and the
// process-wide Strassen default.
//
// Returns:
//   - config.AppConfig: The configuration, updated if the profile applied.
//   - bool: True if a valid cached profile was applied.
func LoadCachedCalibration(cfg config.AppConfig) (updated config.AppConfig, ok bool) {
	if cfg.MinSize != 0 {
		return cfg, false
	}
	profile, loaded := LoadOrCreateProfile(cfg.CalibrationProfile)
	if !loaded {
		return cfg, false
	}

	updated = cfg
	updated.MinSize = profile.OptimalMinSize
	matrix.SetDefaultMinSize(profile.OptimalMinSize)
	return updated, true
}

// saveCalibrationProfile saves profile and reports where it went.
func saveCalibrationProfile(profile *CalibrationProfile, profilePath string, out io.Writer) {
	if err := profile.SaveProfile(profilePath); err != nil {
		fmt.Fprintf(out, "%sWarning: failed to save profile: %v%s\n",
			ui.ColorYellow(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(out, "%sCalibration profile saved to %s%s\n",
		ui.ColorGreen(), resolveProfilePath(profilePath), ui.ColorReset())
}
