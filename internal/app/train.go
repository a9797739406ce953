package app

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/agbru/matnn/internal/cli"
	"github.com/agbru/matnn/internal/config"
	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/loader"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/nn"
)

// trainingUpdateBuffer is the capacity of the channel feeding the training
// display. Updates beyond it are dropped, never blocking the training loop.
const trainingUpdateBuffer = 64

// trainingReport is the JSON form of a finished training run.
type trainingReport struct {
	Epochs   int     `json:"epochs"`
	Duration string  `json:"duration"`
	Accuracy float64 `json:"accuracy"`
	Loss     float64 `json:"loss"`
}

// runTrain fits a feed-forward classifier on the -train-x/-train-y files
// and prints the final measures.
func (a *Application) runTrain(ctx context.Context, out io.Writer) int {
	ctx, lc := SetupLifecycle(ctx, a.Config.Timeout)
	defer lc.Cleanup()
	colors := cli.CLIColorProvider{}

	x, y, err := loadTrainingSet(a.Config)
	if err != nil {
		return apperrors.HandleRunError(err, 0, out, colors)
	}

	formatter := nn.DefaultFormatter()
	network, err := buildNetwork(x.Columns(), a.Config, formatter)
	if err != nil {
		return apperrors.HandleRunError(apperrors.NewConfigError("%v", err), 0, out, colors)
	}

	var wg sync.WaitGroup
	var updates chan nn.ProgressUpdate
	if !a.Config.Quiet && !a.Config.JSONOutput {
		updates = make(chan nn.ProgressUpdate, trainingUpdateBuffer)
		network.Observers().Register(nn.NewChannelObserver(updates))
		wg.Add(1)
		go cli.DisplayTraining(&wg, updates, out)
	}
	network.Observers().Register(nn.NewLoggingObserver(log.Logger, 0.25))
	network.Observers().Register(nn.NewMetricsObserver())

	start := time.Now()
	history, err := fit(ctx, network, x, y, a.Config.ToTrainOptions())
	duration := time.Since(start)
	if updates != nil {
		close(updates)
		wg.Wait()
	}
	if err != nil {
		return apperrors.HandleRunError(err, duration, out, colors)
	}

	if a.Config.JSONOutput {
		return printTrainingJSON(out, history, duration)
	}
	cli.DisplayTrainingSummary(out, history, formatter, duration)
	return apperrors.ExitSuccess
}

// fit trains network, turning matrix contract panics into errors.
func fit(ctx context.Context, network *nn.Network, x, y *matrix.Matrix[float64], opts nn.TrainOptions) (history []nn.TrainingResults, err error) {
	defer matrix.Recover(&err)
	return network.Fit(ctx, x, y, opts)
}

// loadTrainingSet reads the features and labels. A single label column is
// expanded to one-hot rows when there are several classes.
//
// Returns:
//   - x, y: The features and the targets, one row per sample.
//   - error: An apperrors.InputError for unreadable files, bad labels or
//     mismatched sample counts.
func loadTrainingSet(cfg config.AppConfig) (x, y *matrix.Matrix[float64], err error) {
	if x, err = loader.MatrixFromFile[float64](cfg.TrainX); err != nil {
		return nil, nil, err
	}
	if y, err = loader.MatrixFromFile[float64](cfg.TrainY); err != nil {
		return nil, nil, err
	}
	if y, err = prepareTargets(y, cfg.Classes); err != nil {
		return nil, nil, apperrors.NewInputError(cfg.TrainY, err)
	}
	if x.Rows() != y.Rows() {
		return nil, nil, apperrors.NewInputError(cfg.TrainY,
			fmt.Errorf("%d label rows for %d samples", y.Rows(), x.Rows()))
	}
	return x, y, nil
}

// prepareTargets checks that y has one column per class, expanding a
// column of class indices first.
func prepareTargets(y *matrix.Matrix[float64], classes int) (targets *matrix.Matrix[float64], err error) {
	defer matrix.Recover(&err)
	if classes > 1 && y.Columns() == 1 {
		for r := 0; r < y.Rows(); r++ {
			label := y.At(r, 0)
			if label != float64(int(label)) || label < 0 || int(label) >= classes {
				return nil, fmt.Errorf("row %d: label %v is not a class index in [0, %d)", r+1, label, classes)
			}
		}
		y = matrix.ToOneHot(y, classes)
	}
	if y.Columns() != classes {
		return nil, fmt.Errorf("expected %d label columns, got %d", classes, y.Columns())
	}
	return y, nil
}

// buildNetwork assembles the classifier: an optional ReLU hidden layer,
// then softmax with cross-entropy, or a sigmoid with binary cross-entropy
// when there is a single class. A non-zero seed makes the initial
// weights reproducible.
func buildNetwork(inputs int, cfg config.AppConfig, formatter nn.Formatter) (*nn.Network, error) {
	newDense := nn.NewDense
	if cfg.Seed != 0 {
		rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed+1))
		newDense = func(in, out int) *nn.Dense { return nn.NewDenseWithRand(rng, in, out) }
	}

	b := nn.NewBuilder()
	width := inputs
	if cfg.Hidden > 0 {
		b.Add(newDense(inputs, cfg.Hidden)).Add(nn.NewReLU())
		width = cfg.Hidden
	}
	b.Add(newDense(width, cfg.Classes))

	if cfg.Classes == 1 {
		b.Output(nn.NewSigmoid()).Minimize(nn.NewBinaryCrossEntropy())
	} else {
		b.Output(nn.NewSoftmax()).Minimize(nn.NewCrossEntropy())
	}
	return b.With(nn.NewSGD(cfg.LearningRate)).FormatWith(formatter).Build()
}

// printTrainingJSON writes the measures of the last epoch as JSON.
func printTrainingJSON(out io.Writer, history []nn.TrainingResults, duration time.Duration) int {
	report := trainingReport{Epochs: len(history), Duration: duration.String()}
	if len(history) > 0 {
		last := history[len(history)-1]
		report.Accuracy = nn.Accuracy{}.Compute(last)
		report.Loss = nn.MeanLoss{}.Compute(last)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
