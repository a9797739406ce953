// Package nn assembles feed-forward networks on top of the matrix package:
// activation functions, layers, objectives, an SGD optimizer, a training
// loop with mini-batches, and progress reporting.
//
// All networks operate on float64 matrices with one sample per row.
package nn

import (
	"math"

	"github.com/agbru/matnn/internal/matrix"
)

// Mat is the matrix type networks operate on.
type Mat = matrix.Matrix[float64]

// probFloor keeps logarithms of probabilities finite.
const probFloor = 1e-15

// Softmax normalises each row into a probability distribution. The row
// maximum is subtracted before exponentiation.
func Softmax(m *Mat) *Mat {
	maxes := matrix.ReduceRows(m, math.Inf(-1), math.Max)
	shifted := matrix.TransformWithIndex(m, func(v float64, row, _ int) float64 {
		return math.Exp(v - maxes.At(row, 0))
	})
	sums := matrix.ReduceRows(shifted, 0.0, func(acc, v float64) float64 { return acc + v })
	return matrix.TransformWithIndex(shifted, func(v float64, row, _ int) float64 {
		return v / sums.At(row, 0)
	})
}

// LogSoftmax returns ln(Softmax(m)).
func LogSoftmax(m *Mat) *Mat {
	return matrix.Transform(Softmax(m), math.Log)
}

// SoftmaxCrossEntropy returns, for each row of logits, the cross entropy
// between Softmax(logits) and the one-hot labels, as an N×1 column.
func SoftmaxCrossEntropy(logits, labels *Mat) *Mat {
	logits.AssertSameSize(labels)
	return matrix.ReduceRowsWithIndex(LogSoftmax(logits), 0.0, func(acc, v float64, row, col int) float64 {
		return acc - v*labels.At(row, col)
	})
}

// CrossEntropyFromProbs returns -Σ label·ln(p) for each row as an N×1
// column. Probabilities are floored to keep the result finite.
func CrossEntropyFromProbs(probs, labels *Mat) *Mat {
	probs.AssertSameSize(labels)
	return matrix.ReduceRowsWithIndex(probs, 0.0, func(acc, p float64, row, col int) float64 {
		y := labels.At(row, col)
		if y == 0 {
			return acc
		}
		return acc - y*math.Log(math.Max(p, probFloor))
	})
}

// BinaryCrossEntropyFromProbs returns -Σ [y·ln(p) + (1-y)·ln(1-p)] for each
// row as an N×1 column.
func BinaryCrossEntropyFromProbs(probs, labels *Mat) *Mat {
	probs.AssertSameSize(labels)
	return matrix.ReduceRowsWithIndex(probs, 0.0, func(acc, p float64, row, col int) float64 {
		y := labels.At(row, col)
		p = math.Min(math.Max(p, probFloor), 1-probFloor)
		return acc - (y*math.Log(p) + (1-y)*math.Log(1-p))
	})
}

// Argmax returns the column index of the largest value of each row as an
// N×1 column. Ties resolve to the first column.
func Argmax(m *Mat) *matrix.Matrix[int] {
	type best struct {
		col int
		v   float64
	}
	winners := matrix.ReduceRowsWithIndex(m, best{col: -1}, func(acc best, v float64, _, col int) best {
		if acc.col < 0 || v > acc.v {
			return best{col: col, v: v}
		}
		return acc
	})
	return matrix.Transform(winners, func(b best) int { return b.col })
}

// AccuracyFromProbs returns the fraction of rows whose most probable class
// matches the one-hot label.
func AccuracyFromProbs(probs, labels *Mat) float64 {
	if probs.Rows() == 0 {
		return 0
	}
	return float64(countHits(probs, labels)) / float64(probs.Rows())
}

// countHits counts correct predictions. A single output column is read as
// a binary probability thresholded at 0.5; wider outputs compare argmax.
func countHits(pred, labels *Mat) int {
	if pred.Columns() == 1 {
		return matrix.ReduceWithIndex(pred, 0, func(acc int, p float64, row, _ int) int {
			if (p >= 0.5) == (labels.At(row, 0) >= 0.5) {
				return acc + 1
			}
			return acc
		})
	}
	got, want := Argmax(pred), Argmax(labels)
	return matrix.ReduceWithIndex(got, 0, func(acc, v, row, _ int) int {
		if v == want.At(row, 0) {
			return acc + 1
		}
		return acc
	})
}

// Logistic is the sigmoid function 1 / (1 + e^-v).
func Logistic(v float64) float64 {
	return 1 / (1 + math.Exp(-v))
}
