package nn

import "github.com/agbru/matnn/internal/matrix"

// Optimizer updates weights in place from their gradient.
type Optimizer interface {
	Apply(weights, gradient *Mat)
}

// SGD is plain stochastic gradient descent: w ← w − lr·g.
type SGD struct {
	LearningRate float64
}

func NewSGD(learningRate float64) *SGD { return &SGD{LearningRate: learningRate} }

func (o *SGD) Apply(weights, gradient *Mat) {
	matrix.SubInPlace(weights, matrix.Scale(gradient, o.LearningRate))
}
