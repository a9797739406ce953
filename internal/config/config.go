// Package config provides the configuration management for the matnn
// application. It defines the configuration structure, parses command-line
// flags, applies environment overrides and validates the result.
package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"time"

	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/logging"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/nn"
)

// EnvPrefix is the prefix of every environment variable read by matnn.
const EnvPrefix = "MATNN_"

// Default configuration values.
const (
	// DefaultSize is the dimension of the random square operands generated
	// when no operand files are given.
	DefaultSize = 256
	// DefaultTimeout bounds a whole run.
	DefaultTimeout = 5 * time.Minute
	// DefaultPort is the server port.
	DefaultPort = "8080"
	// DefaultAlgo runs every registered strategy and compares them.
	DefaultAlgo = "all"
	// DefaultTolerance is the largest elementwise difference tolerated
	// between two strategies' float products.
	DefaultTolerance = 1e-9
	// DefaultEpochs, DefaultBatchSize and DefaultLearningRate configure
	// training mode.
	DefaultEpochs       = 10
	DefaultBatchSize    = 32
	DefaultLearningRate = 0.1
	// DefaultHidden is the width of the hidden layer (0 = none).
	DefaultHidden = 32
	// DefaultClasses is the number of target classes in training mode.
	DefaultClasses = 2
)

// AppConfig aggregates the parsed configuration. Exactly one run mode is
// active: multiply (the default), train, calibrate or server.
type AppConfig struct {
	// APath and BPath are text grid files holding the operands. When both
	// are empty, random Size×Size operands are generated.
	APath string
	BPath string
	// Size is the dimension of generated operands.
	Size int
	// Seed seeds operand generation and training shuffles (0 = random).
	Seed uint64
	// Algo selects a strategy by name, or "all".
	Algo string

	// MinSize, ParallelDepth and Workers tune the Strassen engine; zero
	// values select the engine defaults.
	MinSize       int
	ParallelDepth int
	Workers       int
	// Sequential disables the concurrent top level.
	Sequential bool
	// Tolerance is the agreement threshold used when comparing strategies.
	Tolerance float64

	// Timeout bounds the whole run.
	Timeout time.Duration

	// OutputFile, if set, receives the product as a text grid.
	OutputFile string
	// Verbose prints the full product instead of a preview.
	Verbose    bool
	JSONOutput bool
	// Quiet suppresses banners and progress; only results are printed.
	Quiet    bool
	NoColor  bool
	LogLevel string

	// Train switches to training mode: TrainX holds the features, TrainY
	// the labels (one integer column, or one-hot rows).
	Train        bool
	TrainX       string
	TrainY       string
	Classes      int
	Hidden       int
	Epochs       int
	BatchSize    int
	LearningRate float64

	// Calibrate runs the MinSize benchmark and saves a profile.
	Calibrate bool
	// CalibrationProfile overrides the profile path
	// (default ~/.matnn_calibration.json).
	CalibrationProfile string

	ServerMode bool
	Port       string
}

// ToStrassenOptions converts the engine flags into matrix options.
func (c AppConfig) ToStrassenOptions() matrix.StrassenOptions {
	return matrix.StrassenOptions{
		MinSize:       c.MinSize,
		ParallelDepth: c.ParallelDepth,
		MaxWorkers:    c.Workers,
		Sequential:    c.Sequential,
	}
}

// ToTrainOptions converts the training flags into nn options. A non-zero
// seed makes the shuffles reproducible.
func (c AppConfig) ToTrainOptions() nn.TrainOptions {
	opts := nn.DefaultTrainOptions().WithEpochs(c.Epochs).WithBatchSize(c.BatchSize)
	if c.Seed != 0 {
		opts.Rand = rand.New(rand.NewPCG(c.Seed, c.Seed^0x9e3779b97f4a7c15))
	}
	return opts
}

// Mode names the active run mode.
func (c AppConfig) Mode() string {
	switch {
	case c.ServerMode:
		return "server"
	case c.Calibrate:
		return "calibrate"
	case c.Train:
		return "train"
	default:
		return "multiply"
	}
}

// Validate checks the semantic consistency of the configuration.
//
// Parameters:
//   - availableAlgos: The registered strategy names (e.g. ["naive", "strassen"]).
//
// Returns:
//   - error: A ConfigError describing the first problem found, nil otherwise.
func (c AppConfig) Validate(availableAlgos []string) error {
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout value must be strictly positive")
	}
	if c.Size <= 0 {
		return apperrors.NewConfigError("operand size must be strictly positive: %d", c.Size)
	}
	if (c.APath == "") != (c.BPath == "") {
		return apperrors.NewConfigError("operand files must be given together (-a and -b)")
	}
	if c.MinSize < 0 || c.ParallelDepth < 0 || c.Workers < 0 {
		return apperrors.NewConfigError("engine settings cannot be negative: min-size=%d, parallel-depth=%d, workers=%d",
			c.MinSize, c.ParallelDepth, c.Workers)
	}
	if c.MinSize == 1 {
		return apperrors.NewConfigError("min-size must be 0 (default) or at least 2")
	}
	if c.Tolerance < 0 {
		return apperrors.NewConfigError("tolerance cannot be negative: %g", c.Tolerance)
	}
	if c.Algo != "all" && !contains(availableAlgos, c.Algo) {
		return apperrors.NewConfigError("unrecognized algorithm: '%s'. Valid algorithms are: 'all' or [%s]", c.Algo, strings.Join(availableAlgos, ", "))
	}
	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	modes := 0
	for _, on := range []bool{c.Train, c.Calibrate, c.ServerMode} {
		if on {
			modes++
		}
	}
	if modes > 1 {
		return apperrors.NewConfigError("-train, -calibrate and -server are mutually exclusive")
	}
	if c.Train {
		return c.validateTraining()
	}
	return nil
}

func (c AppConfig) validateTraining() error {
	if c.TrainX == "" || c.TrainY == "" {
		return apperrors.NewConfigError("training mode requires -train-x and -train-y")
	}
	if c.Classes < 1 {
		return apperrors.NewConfigError("classes must be at least 1: %d", c.Classes)
	}
	if c.Hidden < 0 {
		return apperrors.NewConfigError("hidden width cannot be negative: %d", c.Hidden)
	}
	if c.Epochs <= 0 || c.BatchSize <= 0 {
		return apperrors.NewConfigError("epochs and batch size must be strictly positive")
	}
	if c.LearningRate <= 0 {
		return apperrors.NewConfigError("learning rate must be strictly positive: %g", c.LearningRate)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ParseConfig parses the command-line arguments into an AppConfig, applies
// the MATNN_* environment overrides for flags not given explicitly, and
// validates the result.
//
// Parameters:
//   - programName: The name shown in the usage message.
//   - args: The arguments (typically os.Args[1:]).
//   - errorWriter: Where parsing errors and usage are printed.
//   - availableAlgos: The registered strategy names.
//
// Returns:
//   - AppConfig: The populated configuration.
//   - error: flag.ErrHelp, a parsing error, or an invalid configuration error.
func ParseConfig(programName string, args []string, errorWriter io.Writer, availableAlgos []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	algoHelp := fmt.Sprintf("Algorithm to use: 'all' (default) or one of [%s].", strings.Join(availableAlgos, ", "))

	config := AppConfig{}
	fs.StringVar(&config.APath, "a", "", "Text grid file holding the left operand.")
	fs.StringVar(&config.BPath, "b", "", "Text grid file holding the right operand.")
	fs.IntVar(&config.Size, "size", DefaultSize, "Dimension of the random square operands used when no files are given.")
	fs.Uint64Var(&config.Seed, "seed", 0, "Seed for random operands and training shuffles (0 = random).")
	fs.StringVar(&config.Algo, "algo", DefaultAlgo, algoHelp)
	fs.IntVar(&config.MinSize, "min-size", 0, fmt.Sprintf("Smallest dimension for which Strassen recurses (0 = %d or calibrated).", matrix.DefaultMinSize))
	fs.IntVar(&config.ParallelDepth, "parallel-depth", 0, fmt.Sprintf("Deepest Strassen level computed concurrently (0 = %d).", matrix.DefaultParallelDepth))
	fs.IntVar(&config.Workers, "workers", 0, fmt.Sprintf("Maximum concurrent Strassen products (0 = %d).", matrix.DefaultMaxWorkers))
	fs.BoolVar(&config.Sequential, "sequential", false, "Run every Strassen level sequentially.")
	fs.Float64Var(&config.Tolerance, "tolerance", DefaultTolerance, "Largest elementwise difference accepted between strategies.")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum execution time.")
	fs.StringVar(&config.OutputFile, "output", "", "Write the product to this file as a text grid.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file path (shorthand).")
	fs.BoolVar(&config.Verbose, "v", false, "Display the full product instead of a preview.")
	fs.BoolVar(&config.JSONOutput, "json", false, "Output results in JSON format.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode - minimal output for scripts.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output (also respects NO_COLOR env var).")
	fs.StringVar(&config.LogLevel, "log-level", "info", "Log level: trace, debug, info, warn, error.")

	fs.BoolVar(&config.Train, "train", false, "Train a feed-forward classifier instead of multiplying.")
	fs.StringVar(&config.TrainX, "train-x", "", "Text grid file holding the training features.")
	fs.StringVar(&config.TrainY, "train-y", "", "Text grid file holding the training labels.")
	fs.IntVar(&config.Classes, "classes", DefaultClasses, "Number of classes (1 = binary sigmoid output).")
	fs.IntVar(&config.Hidden, "hidden", DefaultHidden, "Width of the hidden ReLU layer (0 = none).")
	fs.IntVar(&config.Epochs, "epochs", DefaultEpochs, "Number of training epochs.")
	fs.IntVar(&config.BatchSize, "batch-size", DefaultBatchSize, "Mini-batch size.")
	fs.Float64Var(&config.LearningRate, "lr", DefaultLearningRate, "SGD learning rate.")

	fs.BoolVar(&config.Calibrate, "calibrate", false, "Benchmark Strassen cutoffs and save a calibration profile.")
	fs.StringVar(&config.CalibrationProfile, "calibration-profile", "", "Path to the calibration profile (default: ~/.matnn_calibration.json).")
	fs.BoolVar(&config.ServerMode, "server", false, "Start in HTTP server mode.")
	fs.StringVar(&config.Port, "port", DefaultPort, "Port to listen on in server mode.")

	setCustomUsage(fs)

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	config.Algo = strings.ToLower(config.Algo)
	if err := config.Validate(availableAlgos); err != nil {
		fmt.Fprintln(errorWriter, "Configuration error:", err)
		fs.Usage()
		return AppConfig{}, errors.New("invalid configuration")
	}
	return config, nil
}
