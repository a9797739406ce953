package multiply

import "github.com/agbru/matnn/internal/matrix"

// coreMultiplier is a pure product algorithm without instrumentation.
type coreMultiplier interface {
	MultiplyCore(a, b *Mat, opts matrix.StrassenOptions) *Mat
	Name() string
}

// Naive is the triple-loop strategy.
type Naive struct{}

// Name returns "Naive".
func (Naive) Name() string { return "Naive" }

// MultiplyCore computes a·b with the naive engine.
func (Naive) MultiplyCore(a, b *Mat, _ matrix.StrassenOptions) *Mat {
	return matrix.NaiveMatMul(a, b)
}

// Strassen is the recursive strategy with a parallel top level.
type Strassen struct{}

// Name returns "Strassen".
func (Strassen) Name() string { return "Strassen" }

// MultiplyCore computes a·b with the Strassen engine.
func (Strassen) MultiplyCore(a, b *Mat, opts matrix.StrassenOptions) *Mat {
	return matrix.StrassenMatMulWithOptions(a, b, opts)
}
