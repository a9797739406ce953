package nn

import (
	"fmt"

	"github.com/agbru/matnn/internal/matrix"
)

// Objective is the loss minimised by a network. Each objective is paired
// with the output layer whose gradient it fuses into Delta.
type Objective interface {
	Name() string
	// Loss returns the per-sample loss as an N×1 column.
	Loss(out, expected *Mat) *Mat
	// Delta returns the gradient of the mean loss with respect to the
	// input of the output layer.
	Delta(out, expected *Mat) *Mat
	// Pairs reports whether output is the output layer Delta assumes.
	Pairs(output Layer) bool
}

// CrossEntropy is the categorical cross entropy over a SoftmaxLayer output
// with one-hot labels.
type CrossEntropy struct{}

func NewCrossEntropy() *CrossEntropy { return &CrossEntropy{} }

func (*CrossEntropy) Name() string { return "cross_entropy" }

func (*CrossEntropy) Loss(out, expected *Mat) *Mat { return CrossEntropyFromProbs(out, expected) }

func (*CrossEntropy) Delta(out, expected *Mat) *Mat { return meanDelta(out, expected) }

func (*CrossEntropy) Pairs(output Layer) bool {
	_, ok := output.(*SoftmaxLayer)
	return ok
}

// BinaryCrossEntropy is the per-column binary cross entropy over a
// SigmoidLayer output with 0/1 labels.
type BinaryCrossEntropy struct{}

func NewBinaryCrossEntropy() *BinaryCrossEntropy { return &BinaryCrossEntropy{} }

func (*BinaryCrossEntropy) Name() string { return "binary_cross_entropy" }

func (*BinaryCrossEntropy) Loss(out, expected *Mat) *Mat {
	return BinaryCrossEntropyFromProbs(out, expected)
}

func (*BinaryCrossEntropy) Delta(out, expected *Mat) *Mat { return meanDelta(out, expected) }

func (*BinaryCrossEntropy) Pairs(output Layer) bool {
	_, ok := output.(*SigmoidLayer)
	return ok
}

// meanDelta is (out − expected) / N. Both pairings above reduce to it.
func meanDelta(out, expected *Mat) *Mat {
	d := matrix.Sub(out, expected)
	if n := out.Rows(); n > 0 {
		d = matrix.Scale(d, 1/float64(n))
	}
	return d
}

// PairingError reports an objective combined with an output layer it
// cannot differentiate through.
type PairingError struct {
	Objective string
	Output    string
}

func (e *PairingError) Error() string {
	return fmt.Sprintf("nn: objective %s cannot be paired with output layer %s", e.Objective, e.Output)
}
