package nn

import (
	"fmt"
	"math/rand/v2"

	"github.com/agbru/matnn/internal/matrix"
)

// Layer is one stage of a feed-forward network. Inputs hold one sample per
// row.
type Layer interface {
	// Name identifies the layer kind in logs and summaries.
	Name() string
	// Forward computes the layer output for in.
	Forward(in *Mat) *Mat
	// Backward maps gradOut, the loss gradient with respect to the output
	// out = Forward(in), to the loss gradient with respect to in.
	Backward(in, out, gradOut *Mat) *Mat
}

// TrainableLayer is a Layer with a weight matrix updated by an Optimizer.
type TrainableLayer interface {
	Layer
	// Weights returns the live weight matrix. Optimizers mutate it in place.
	Weights() *Mat
	// WeightGradient returns the loss gradient with respect to the weights
	// given the layer input and gradOut.
	WeightGradient(in, gradOut *Mat) *Mat
}

// ─────────────────────────────────────────────────────────────────────────────
// Dense
// ─────────────────────────────────────────────────────────────────────────────

// Dense is a fully connected layer without bias: out = in · W, with W of
// shape inputDim×outputDim.
type Dense struct {
	weights *Mat
}

// NewDense creates a Dense layer with weights drawn uniformly from [-1, 1).
func NewDense(inputDim, outputDim int) *Dense {
	return &Dense{weights: matrix.Random(inputDim, outputDim, -1.0, 1.0)}
}

// NewDenseWithRand is NewDense drawing weights from rng.
func NewDenseWithRand(rng *rand.Rand, inputDim, outputDim int) *Dense {
	return &Dense{weights: matrix.RandomWith(rng, inputDim, outputDim, -1.0, 1.0)}
}

// NewDenseWithWeights creates a Dense layer owning a copy of weights.
func NewDenseWithWeights(weights *Mat) *Dense {
	return &Dense{weights: weights.Clone()}
}

func (d *Dense) Name() string { return fmt.Sprintf("dense(%d→%d)", d.InputDim(), d.OutputDim()) }

// InputDim is the number of input features.
func (d *Dense) InputDim() int { return d.weights.Rows() }

// OutputDim is the number of output features.
func (d *Dense) OutputDim() int { return d.weights.Columns() }

func (d *Dense) Weights() *Mat { return d.weights }

func (d *Dense) Forward(in *Mat) *Mat { return matrix.MatMul(in, d.weights) }

func (d *Dense) Backward(_, _, gradOut *Mat) *Mat {
	return matrix.MatMul(gradOut, d.weights.T())
}

func (d *Dense) WeightGradient(in, gradOut *Mat) *Mat {
	return matrix.MatMul(in.T(), gradOut)
}

// ─────────────────────────────────────────────────────────────────────────────
// Activations
// ─────────────────────────────────────────────────────────────────────────────

// ReLU passes positive values and zeroes the rest.
type ReLU struct{}

func NewReLU() *ReLU { return &ReLU{} }

func (*ReLU) Name() string { return "relu" }

func (*ReLU) Forward(in *Mat) *Mat {
	return matrix.Transform(in, func(v float64) float64 {
		if v > 0 {
			return v
		}
		return 0
	})
}

// Backward lets the gradient through where the input was positive.
func (*ReLU) Backward(in, _, gradOut *Mat) *Mat {
	return matrix.TransformWithIndex(in, func(v float64, row, col int) float64 {
		if v > 0 {
			return gradOut.At(row, col)
		}
		return 0
	})
}

// SigmoidLayer applies the logistic function elementwise. Paired with
// BinaryCrossEntropy it can serve as an output layer.
type SigmoidLayer struct{}

func NewSigmoid() *SigmoidLayer { return &SigmoidLayer{} }

func (*SigmoidLayer) Name() string { return "sigmoid" }

func (*SigmoidLayer) Forward(in *Mat) *Mat { return matrix.Transform(in, Logistic) }

func (*SigmoidLayer) Backward(_, out, gradOut *Mat) *Mat {
	return matrix.TransformWithIndex(out, func(s float64, row, col int) float64 {
		return gradOut.At(row, col) * s * (1 - s)
	})
}

// SoftmaxLayer normalises each row into a distribution. Paired with
// CrossEntropy it serves as an output layer.
type SoftmaxLayer struct{}

func NewSoftmax() *SoftmaxLayer { return &SoftmaxLayer{} }

func (*SoftmaxLayer) Name() string { return "softmax" }

func (*SoftmaxLayer) Forward(in *Mat) *Mat { return Softmax(in) }

// Backward applies the row-wise softmax Jacobian: g_i ← s_i (g_i − Σ_j g_j s_j).
func (*SoftmaxLayer) Backward(_, out, gradOut *Mat) *Mat {
	dots := matrix.ReduceRows(matrix.Mul(out, gradOut), 0.0, func(acc, v float64) float64 { return acc + v })
	return matrix.TransformWithIndex(out, func(s float64, row, col int) float64 {
		return s * (gradOut.At(row, col) - dots.At(row, 0))
	})
}
