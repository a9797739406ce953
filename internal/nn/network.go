package nn

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/agbru/matnn/internal/matrix"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// ─────────────────────────────────────────────────────────────────────────────
// Builder
// ─────────────────────────────────────────────────────────────────────────────

// Builder assembles a Network step by step:
//
//	net, err := nn.NewBuilder().
//		Add(nn.NewDense(784, 100)).
//		Add(nn.NewReLU()).
//		Add(nn.NewDense(100, 10)).
//		Output(nn.NewSoftmax()).
//		Minimize(nn.NewCrossEntropy()).
//		With(nn.NewSGD(0.01)).
//		Build()
type Builder struct {
	layers    []Layer
	output    Layer
	objective Objective
	optimizer Optimizer
	formatter Formatter
}

// NewBuilder starts an empty network.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends a hidden layer.
func (b *Builder) Add(layer Layer) *Builder {
	b.layers = append(b.layers, layer)
	return b
}

// Output sets the output layer.
func (b *Builder) Output(layer Layer) *Builder {
	b.output = layer
	return b
}

// Minimize sets the objective.
func (b *Builder) Minimize(objective Objective) *Builder {
	b.objective = objective
	return b
}

// With sets the optimizer.
func (b *Builder) With(optimizer Optimizer) *Builder {
	b.optimizer = optimizer
	return b
}

// FormatWith replaces the default progress formatter.
func (b *Builder) FormatWith(formatter Formatter) *Builder {
	b.formatter = formatter
	return b
}

// ErrIncompleteNetwork is returned by Build when the output layer, the
// objective or the optimizer is missing.
var ErrIncompleteNetwork = errors.New("nn: network needs an output layer, an objective and an optimizer")

// Build validates the configuration and returns the network. The objective
// must pair with the output layer (CrossEntropy with Softmax,
// BinaryCrossEntropy with Sigmoid); a mismatch yields a *PairingError.
func (b *Builder) Build() (*Network, error) {
	if b.output == nil || b.objective == nil || b.optimizer == nil {
		return nil, ErrIncompleteNetwork
	}
	if !b.objective.Pairs(b.output) {
		return nil, &PairingError{Objective: b.objective.Name(), Output: b.output.Name()}
	}
	formatter := b.formatter
	if formatter == nil {
		formatter = DefaultFormatter()
	}
	return &Network{
		layers:    append([]Layer(nil), b.layers...),
		output:    b.output,
		objective: b.objective,
		optimizer: b.optimizer,
		formatter: formatter,
		subject:   NewProgressSubject(),
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Network
// ─────────────────────────────────────────────────────────────────────────────

// Network is a feed-forward stack of hidden layers followed by an output
// layer. It is not safe for concurrent training.
type Network struct {
	layers    []Layer
	output    Layer
	objective Objective
	optimizer Optimizer
	formatter Formatter
	subject   *ProgressSubject
}

// Gradient is the weight gradient of one trainable hidden layer.
type Gradient struct {
	Layer   int
	Weights *Mat
}

// LayersCount returns the number of hidden layers.
func (n *Network) LayersCount() int { return len(n.layers) }

// Layer returns hidden layer i.
func (n *Network) Layer(i int) Layer { return n.layers[i] }

// Observers exposes the progress subject notified by Fit.
func (n *Network) Observers() *ProgressSubject { return n.subject }

// Forward runs x through every layer and returns all intermediate results:
// x itself first, then the output of each hidden layer, then the output
// layer's result.
func (n *Network) Forward(x *Mat) []*Mat {
	results := make([]*Mat, 0, len(n.layers)+2)
	results = append(results, x)
	current := x
	for _, layer := range n.layers {
		current = layer.Forward(current)
		results = append(results, current)
	}
	return append(results, n.output.Forward(current))
}

// Predict returns the output layer's result for x.
func (n *Network) Predict(x *Mat) *Mat {
	results := n.Forward(x)
	return results[len(results)-1]
}

// Backward back-propagates the objective's delta through the hidden layers
// and returns the weight gradients of the trainable ones, deepest first.
// results must come from Forward.
func (n *Network) Backward(results []*Mat, y *Mat) []Gradient {
	delta := n.objective.Delta(results[len(results)-1], y)
	var grads []Gradient
	for i := len(n.layers) - 1; i >= 0; i-- {
		in, out := results[i], results[i+1]
		if tl, ok := n.layers[i].(TrainableLayer); ok {
			grads = append(grads, Gradient{Layer: i, Weights: tl.WeightGradient(in, delta)})
		}
		if i > 0 {
			delta = n.layers[i].Backward(in, out, delta)
		}
	}
	return grads
}

// Score returns the mean loss of the network on (x, y).
func (n *Network) Score(x, y *Mat) float64 {
	if x.Rows() == 0 {
		return 0
	}
	loss := n.objective.Loss(n.Predict(x), y)
	return sumColumn(loss) / float64(x.Rows())
}

func sumColumn(m *Mat) float64 {
	return matrix.Reduce(m, 0.0, func(acc, v float64) float64 { return acc + v })
}

// ─────────────────────────────────────────────────────────────────────────────
// Training
// ─────────────────────────────────────────────────────────────────────────────

// TrainOptions configures Fit.
type TrainOptions struct {
	Epochs    int
	BatchSize int
	// Rand drives the per-epoch shuffle. Nil uses the process-wide source.
	Rand *rand.Rand
}

// DefaultTrainOptions trains for one epoch with batches of 32.
func DefaultTrainOptions() TrainOptions {
	return TrainOptions{Epochs: 1, BatchSize: 32}
}

// WithEpochs returns a copy with Epochs set.
func (o TrainOptions) WithEpochs(epochs int) TrainOptions {
	o.Epochs = epochs
	return o
}

// WithBatchSize returns a copy with BatchSize set.
func (o TrainOptions) WithBatchSize(size int) TrainOptions {
	o.BatchSize = size
	return o
}

// Fit trains the network on features x and targets y. Every epoch the
// rows of x and y are shuffled together, then consumed in mini-batches of
// BatchSize rows; each batch runs forward, backward and one optimizer step
// per trainable layer. Observers are notified after every batch.
//
// It returns the results of each completed epoch. Cancellation is checked
// between batches; the results gathered so far are returned with the
// context error.
func (n *Network) Fit(ctx context.Context, x, y *Mat, opts TrainOptions) ([]TrainingResults, error) {
	if x.Rows() != y.Rows() {
		return nil, fmt.Errorf("nn: %d feature rows but %d target rows", x.Rows(), y.Rows())
	}
	if opts.Epochs <= 0 {
		opts.Epochs = 1
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultTrainOptions().BatchSize
	}

	tracer := otel.Tracer("matnn/nn")
	history := make([]TrainingResults, 0, opts.Epochs)
	for epoch := 1; epoch <= opts.Epochs; epoch++ {
		epochCtx, span := tracer.Start(ctx, "nn.Fit.epoch", trace.WithAttributes(
			attribute.Int("epoch", epoch),
			attribute.Int("samples", x.Rows()),
			attribute.Int("batch_size", opts.BatchSize),
		))
		results, err := n.trainEpoch(epochCtx, x, y, epoch, opts)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			span.End()
			return history, err
		}
		if results.CurrentCount > 0 {
			span.SetAttributes(attribute.Float64("mean_loss", MeanLoss{}.Compute(results)))
		}
		span.End()
		history = append(history, results)
	}
	return history, nil
}

func (n *Network) trainEpoch(ctx context.Context, x, y *Mat, epoch int, opts TrainOptions) (TrainingResults, error) {
	xs, ys := x.Clone(), y.Clone()
	var swaps []matrix.RowSwap
	if opts.Rand != nil {
		swaps = xs.ShuffleRowsWith(opts.Rand)
	} else {
		swaps = xs.ShuffleRows()
	}
	ys.ApplySwaps(swaps)

	results := TrainingResults{TotalCount: xs.Rows()}
	for start := 0; start < xs.Rows(); start += opts.BatchSize {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		end := min(start+opts.BatchSize, xs.Rows())
		bx, by := xs.SliceRows(start, end), ys.SliceRows(start, end)

		outputs := n.Forward(bx)
		pred := outputs[len(outputs)-1]
		for _, g := range n.Backward(outputs, by) {
			n.optimizer.Apply(n.layers[g.Layer].(TrainableLayer).Weights(), g.Weights)
		}

		hits := countHits(pred, by)
		results.CurrentCount += end - start
		results.TotalLoss += sumColumn(n.objective.Loss(pred, by))
		results.HitCount += hits
		results.MissCount += end - start - hits

		n.subject.Notify(ProgressUpdate{
			Epoch:   epoch,
			Epochs:  opts.Epochs,
			Results: results,
			Line:    n.formatter.Progress(results),
		})
	}
	return results, nil
}
