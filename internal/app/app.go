package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"runtime"
	"strings"

	"github.com/agbru/matnn/internal/calibration"
	"github.com/agbru/matnn/internal/cli"
	"github.com/agbru/matnn/internal/config"
	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/loader"
	"github.com/agbru/matnn/internal/logging"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/multiply"
	"github.com/agbru/matnn/internal/orchestration"
	"github.com/agbru/matnn/internal/server"
	"github.com/agbru/matnn/internal/ui"
)

// Application represents the matnn application instance.
// It encapsulates the configuration and provides methods to run
// the application in its four modes (multiply, train, calibrate, server).
type Application struct {
	// Config holds the parsed application configuration.
	Config config.AppConfig
	// Factory provides the registered product strategies.
	Factory *multiply.Factory
	// ErrWriter is the writer for error output (typically os.Stderr).
	ErrWriter io.Writer
}

// New creates a new Application instance by parsing command-line arguments.
// When no cutoff is given on the command line, a valid cached calibration
// profile supplies it.
//
// Parameters:
//   - args: The command-line arguments (typically os.Args).
//   - errWriter: The writer for error output.
//
// Returns:
//   - *Application: A new application instance.
//   - error: An error if configuration parsing or validation fails.
func New(args []string, errWriter io.Writer) (*Application, error) {
	factory := multiply.NewDefaultFactory()

	programName := "matnn"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, factory.List())
	if err != nil {
		return nil, err
	}

	if cfgWithProfile, loaded := calibration.LoadCachedCalibration(cfg); loaded {
		cfg = cfgWithProfile
	}

	return &Application{
		Config:    cfg,
		Factory:   factory,
		ErrWriter: errWriter,
	}, nil
}

// Run executes the application based on the configured mode.
//
// Parameters:
//   - ctx: The context for managing cancellation and timeouts.
//   - out: The writer for standard output.
//
// Returns:
//   - int: An exit code (0 for success, non-zero for errors).
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)
	a.setupLogging()

	switch a.Config.Mode() {
	case "server":
		return a.runServer()
	case "calibrate":
		return a.runCalibration(ctx, out)
	case "train":
		return a.runTrain(ctx, out)
	}
	return a.runMultiply(ctx, out)
}

// setupLogging routes the global logger to ErrWriter. The level was
// validated with the rest of the configuration.
func (a *Application) setupLogging() {
	level, err := logging.ParseLevel(a.Config.LogLevel)
	if err != nil {
		level, _ = logging.ParseLevel("")
	}
	logging.Setup(a.ErrWriter, level, !a.Config.JSONOutput)
}

// runServer starts the HTTP server mode.
func (a *Application) runServer() int {
	srv := server.NewServer(a.Factory, a.Config)
	if err := srv.Start(); err != nil {
		fmt.Fprintf(a.ErrWriter, "Server error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runCalibration times the Strassen strategy over a range of cutoffs.
func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, lc := SetupLifecycle(ctx, a.Config.Timeout)
	defer lc.Cleanup()

	mult, _ := a.Factory.Get("strassen")
	return calibration.RunCalibration(ctx, out, mult, a.Config)
}

// runMultiply computes the product with every selected strategy and
// compares the outcomes.
func (a *Application) runMultiply(ctx context.Context, out io.Writer) int {
	ctx, lc := SetupLifecycle(ctx, a.Config.Timeout)
	defer lc.Cleanup()

	lhs, rhs, err := loadOperands(a.Config)
	if err != nil {
		return apperrors.HandleRunError(err, 0, out, cli.CLIColorProvider{})
	}

	multipliers, err := a.Factory.Select(a.Config.Algo)
	if err != nil {
		return apperrors.HandleRunError(apperrors.NewConfigError("%v", err), 0, out, cli.CLIColorProvider{})
	}

	progressOut := out
	if a.Config.Quiet || a.Config.JSONOutput {
		progressOut = io.Discard
	} else {
		printExecutionConfig(out, a.Config, lhs, rhs, multipliers)
	}

	results := orchestration.ExecuteMultiplications(ctx, multipliers, lhs, rhs, a.Config, progressOut)
	return orchestration.AnalyzeComparisonResults(results, a.Config, out)
}

// loadOperands reads both operands from their files, or generates random
// Size×Size operands with elements in [-1, 1) when no file is given.
func loadOperands(cfg config.AppConfig) (lhs, rhs *matrix.Matrix[float64], err error) {
	if cfg.APath == "" && cfg.BPath == "" {
		seed := cfg.Seed
		if seed == 0 {
			seed = rand.Uint64()
		}
		rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		return matrix.RandomWith(rng, cfg.Size, cfg.Size, -1.0, 1.0), matrix.RandomWith(rng, cfg.Size, cfg.Size, -1.0, 1.0), nil
	}
	if lhs, err = loader.MatrixFromFile[float64](cfg.APath); err != nil {
		return nil, nil, err
	}
	if rhs, err = loader.MatrixFromFile[float64](cfg.BPath); err != nil {
		return nil, nil, err
	}
	return lhs, rhs, nil
}

// printExecutionConfig prints the operands and engine settings of a run.
func printExecutionConfig(out io.Writer, cfg config.AppConfig, lhs, rhs *matrix.Matrix[float64], multipliers []multiply.Multiplier) {
	names := make([]string, len(multipliers))
	for i, m := range multipliers {
		names[i] = m.Name()
	}
	minSize := cfg.MinSize
	if minSize == 0 {
		minSize = matrix.GetDefaultMinSize()
	}

	fmt.Fprintf(out, "%s--- Execution Configuration ---%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(out, "Operands   : %s%s × %s%s\n", ui.ColorMagenta(), lhs.Shape(), rhs.Shape(), ui.ColorReset())
	fmt.Fprintf(out, "Strategies : %s%s%s\n", ui.ColorCyan(), strings.Join(names, ", "), ui.ColorReset())
	fmt.Fprintf(out, "Min size   : %s%d%s", ui.ColorCyan(), minSize, ui.ColorReset())
	if cfg.Sequential {
		fmt.Fprintf(out, " (sequential)")
	}
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Timeout    : %s%s%s on %s%d%s logical cores\n",
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset(), ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset())
}

// IsHelpError checks if the error is a help flag error (--help was used).
// This is useful for determining if the application should exit with success
// after displaying help text.
//
// Parameters:
//   - err: The error to check.
//
// Returns:
//   - bool: True if the error indicates help was requested.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
