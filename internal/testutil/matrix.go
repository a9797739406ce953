package testutil

import (
	"math"
	"testing"

	"github.com/agbru/matnn/internal/matrix"
)

// FromRows builds a float matrix from literal rows. All rows must have the
// same length.
func FromRows(rows ...[]float64) *matrix.Matrix[float64] {
	if len(rows) == 0 {
		return matrix.New[float64](0, 0)
	}
	m := matrix.New[float64](len(rows), len(rows[0]))
	for r, row := range rows {
		for c, v := range row {
			m.SetAt(r, c, v)
		}
	}
	return m
}

// MaxAbsDiff returns the largest absolute elementwise difference between a
// and b, or +Inf when their shapes differ.
func MaxAbsDiff(a, b *matrix.Matrix[float64]) float64 {
	if a.Shape() != b.Shape() {
		return math.Inf(1)
	}
	ea, eb := a.Elements(), b.Elements()
	var worst float64
	for i := range ea {
		worst = math.Max(worst, math.Abs(ea[i]-eb[i]))
	}
	return worst
}

// AssertMatrixInDelta fails the test unless got has the shape of want and
// every element lies within delta of it.
func AssertMatrixInDelta(tb testing.TB, want, got *matrix.Matrix[float64], delta float64) {
	tb.Helper()
	if want.Shape() != got.Shape() {
		tb.Fatalf("shape = %s, want %s", got.Shape(), want.Shape())
	}
	if d := MaxAbsDiff(want, got); d > delta {
		tb.Errorf("max element difference %g exceeds %g\nwant %v\ngot  %v", d, delta, want, got)
	}
}
