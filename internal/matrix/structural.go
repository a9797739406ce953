package matrix

import (
	"fmt"
	"math/rand/v2"
)

// T returns the columns×rows transpose.
func (m *Matrix[T]) T() *Matrix[T] {
	out := make([]T, len(m.elements))
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.columns; c++ {
			out[c*m.rows+r] = m.elements[r*m.columns+c]
		}
	}
	return &Matrix[T]{rows: m.columns, columns: m.rows, elements: out}
}

// SliceRows returns an owned copy of rows [start, end).
// It panics with a *ShapeError unless 0 <= start <= end <= Rows().
func (m *Matrix[T]) SliceRows(start, end int) *Matrix[T] {
	if start < 0 || start > end || end > m.rows {
		panic(&ShapeError{Message: fmt.Sprintf(
			"row range [%d, %d) invalid for %s matrix", start, end, m.Shape())})
	}
	out := make([]T, (end-start)*m.columns)
	copy(out, m.elements[start*m.columns:end*m.columns])
	return &Matrix[T]{rows: end - start, columns: m.columns, elements: out}
}

// SwapRows exchanges rows r1 and r2 in place. Swapping a row with itself is
// a no-op.
func (m *Matrix[T]) SwapRows(r1, r2 int) {
	if r1 < 0 || r1 >= m.rows {
		panic(&IndexOutOfRangeError{Row: r1, Shape: m.Shape()})
	}
	if r2 < 0 || r2 >= m.rows {
		panic(&IndexOutOfRangeError{Row: r2, Shape: m.Shape()})
	}
	if r1 == r2 {
		return
	}
	a := m.elements[r1*m.columns : (r1+1)*m.columns]
	b := m.elements[r2*m.columns : (r2+1)*m.columns]
	for i := range a {
		a[i], b[i] = b[i], a[i]
	}
}

// RowSwap is one entry of a shuffle log: rows First and Second were swapped.
type RowSwap struct {
	First  int
	Second int
}

// ShuffleRows permutes rows in place using the process-wide random source
// and returns the ordered swap log. See ShuffleRowsWith.
func (m *Matrix[T]) ShuffleRows() []RowSwap {
	return m.shuffleRows(rand.IntN)
}

// ShuffleRowsWith performs exactly Rows()/2 swaps. Both indices of each swap
// are drawn uniformly and independently from [0, Rows()) using rng. The
// returned log, replayed with ApplySwaps on a co-indexed matrix (labels for
// features), applies the same permutation to it.
//
// The permutation is not uniform over all orderings.
func (m *Matrix[T]) ShuffleRowsWith(rng *rand.Rand) []RowSwap {
	return m.shuffleRows(rng.IntN)
}

func (m *Matrix[T]) shuffleRows(intN func(int) int) []RowSwap {
	swaps := make([]RowSwap, 0, m.rows/2)
	for i := 0; i < m.rows/2; i++ {
		s := RowSwap{First: intN(m.rows), Second: intN(m.rows)}
		m.SwapRows(s.First, s.Second)
		swaps = append(swaps, s)
	}
	return swaps
}

// ApplySwaps replays a shuffle log, in order.
func (m *Matrix[T]) ApplySwaps(swaps []RowSwap) {
	for _, s := range swaps {
		m.SwapRows(s.First, s.Second)
	}
}
