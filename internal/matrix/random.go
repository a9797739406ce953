package matrix

import (
	"fmt"
	"math/rand/v2"
)

// Random returns a rows×columns matrix whose cells are sampled independently
// and uniformly from [low, high) using the process-wide random source.
func Random[T Real](rows, columns int, low, high T) *Matrix[T] {
	return random(rows, columns, low, high, rand.Float64)
}

// RandomWith is Random drawing from rng, for reproducible matrices.
func RandomWith[T Real](rng *rand.Rand, rows, columns int, low, high T) *Matrix[T] {
	return random(rows, columns, low, high, rng.Float64)
}

func random[T Real](rows, columns int, low, high T, float64Fn func() float64) *Matrix[T] {
	if !(low < high) {
		panic(&ShapeError{Message: fmt.Sprintf("empty sampling range [%v, %v)", low, high)})
	}
	m := New[T](rows, columns)
	span := float64(high) - float64(low)
	for i := range m.elements {
		v := low + T(float64Fn()*span)
		// Rounding can land exactly on high for floats.
		if v >= high {
			v = low
		}
		m.elements[i] = v
	}
	return m
}

// OneHot builds a len(labels)×classes matrix with a 1 at (i, labels[i]) and
// zeros elsewhere. It panics with an *IndexOutOfRangeError when a label is
// not in [0, classes).
func OneHot[T Real](classes int, labels []int) *Matrix[T] {
	m := New[T](len(labels), classes)
	for i, label := range labels {
		m.SetAt(i, label, 1)
	}
	return m
}

// ToOneHot expands an N×1 column of class indices into an N×classes one-hot
// matrix. It panics with a *ShapeError unless m has exactly one column.
func ToOneHot[T Real](m *Matrix[T], classes int) *Matrix[T] {
	if m.columns != 1 {
		panic(&ShapeError{Message: fmt.Sprintf("one-hot expansion needs an Nx1 matrix, got %s", m.Shape())})
	}
	labels := make([]int, m.rows)
	for i, v := range m.elements {
		labels[i] = int(v)
	}
	return OneHot[T](classes, labels)
}
