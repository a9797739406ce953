// Package matrix implements a dense, generic, row-major 2-D matrix together
// with the elementwise, reduction, structural and multiplication primitives
// needed to assemble feed-forward networks by hand.
//
// Shape and bounds violations are programmer errors and are raised with
// panic using the typed errors of this package (DimensionMismatchError,
// IndexOutOfRangeError, ShapeError). Text parsing is the only operation that
// returns an error value.
package matrix

import (
	"fmt"
	"math"
)

// Matrix is a dense rows×columns grid stored in a single row-major buffer.
// The element at (r, c) lives at index r*columns + c. A Matrix exclusively
// owns its buffer; every accessor that exposes elements hands out copies.
//
// A Matrix is not safe for concurrent mutation. Concurrent reads are safe.
type Matrix[T any] struct {
	rows     int
	columns  int
	elements []T
}

// New creates a rows×columns matrix filled with the zero value of T.
// It panics with a *ShapeError if either extent is negative or their
// product overflows int.
func New[T any](rows, columns int) *Matrix[T] {
	n := checkExtents(rows, columns)
	return &Matrix[T]{
		rows:     rows,
		columns:  columns,
		elements: make([]T, n),
	}
}

// NewFrom wraps a row-major element buffer. The matrix takes ownership of
// the slice: the caller must not retain or mutate it afterwards.
//
// Parameters:
//   - rows: The number of rows.
//   - columns: The number of columns.
//   - elements: The row-major buffer, of length rows*columns.
//
// Returns:
//   - *Matrix[T]: The wrapping matrix.
//
// It panics with a *ShapeError when len(elements) != rows*columns.
func NewFrom[T any](rows, columns int, elements []T) *Matrix[T] {
	if len(elements) != checkExtents(rows, columns) {
		panic(&ShapeError{Message: fmt.Sprintf(
			"element buffer of length %d does not fit a %dx%d matrix", len(elements), rows, columns)})
	}
	return &Matrix[T]{rows: rows, columns: columns, elements: elements}
}

// checkExtents returns rows*columns, panicking with a *ShapeError on a
// negative extent or an element count that does not fit in an int.
func checkExtents(rows, columns int) int {
	n, ok := ElementCount(rows, columns)
	if !ok {
		if rows < 0 || columns < 0 {
			panic(&ShapeError{Message: fmt.Sprintf("negative extents %dx%d", rows, columns)})
		}
		panic(&ShapeError{Message: fmt.Sprintf("extents %dx%d overflow the element count", rows, columns)})
	}
	return n
}

// ElementCount returns rows*columns. ok is false when an extent is negative
// or the product does not fit in an int.
func ElementCount(rows, columns int) (n int, ok bool) {
	if rows < 0 || columns < 0 {
		return 0, false
	}
	if columns != 0 && rows > math.MaxInt/columns {
		return 0, false
	}
	return rows * columns, true
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int { return m.rows }

// Columns returns the number of columns.
func (m *Matrix[T]) Columns() int { return m.columns }

// Shape returns the (rows, columns) pair.
func (m *Matrix[T]) Shape() Shape { return Shape{Rows: m.rows, Columns: m.columns} }

// Len returns rows*columns.
func (m *Matrix[T]) Len() int { return len(m.elements) }

// At returns the element at (row, column).
// It panics with an *IndexOutOfRangeError outside the bounds.
func (m *Matrix[T]) At(row, column int) T {
	return m.elements[m.index(row, column)]
}

// SetAt overwrites the element at (row, column).
// It panics with an *IndexOutOfRangeError outside the bounds.
func (m *Matrix[T]) SetAt(row, column int, value T) {
	m.elements[m.index(row, column)] = value
}

func (m *Matrix[T]) index(row, column int) int {
	if row < 0 || row >= m.rows || column < 0 || column >= m.columns {
		panic(&IndexOutOfRangeError{Row: row, Column: column, Shape: m.Shape()})
	}
	return row*m.columns + column
}

// Clone returns a deep copy.
func (m *Matrix[T]) Clone() *Matrix[T] {
	out := make([]T, len(m.elements))
	copy(out, m.elements)
	return &Matrix[T]{rows: m.rows, columns: m.columns, elements: out}
}

// Elements returns a copy of the row-major buffer.
func (m *Matrix[T]) Elements() []T {
	out := make([]T, len(m.elements))
	copy(out, m.elements)
	return out
}

// Row returns a copy of row r.
func (m *Matrix[T]) Row(r int) []T {
	if r < 0 || r >= m.rows {
		panic(&IndexOutOfRangeError{Row: r, Column: 0, Shape: m.Shape()})
	}
	out := make([]T, m.columns)
	copy(out, m.elements[r*m.columns:(r+1)*m.columns])
	return out
}

// AssertSameSize panics with a *DimensionMismatchError naming both shapes
// unless other has exactly the shape of m.
func (m *Matrix[T]) AssertSameSize(other *Matrix[T]) {
	assertSameSize("elementwise operation", m, other)
}

func assertSameSize[T any](op string, a, b *Matrix[T]) {
	if a.rows != b.rows || a.columns != b.columns {
		panic(&DimensionMismatchError{Op: op, Left: a.Shape(), Right: b.Shape()})
	}
}

// Equal reports whether a and b have the same shape and elements.
func Equal[T comparable](a, b *Matrix[T]) bool {
	if a.rows != b.rows || a.columns != b.columns {
		return false
	}
	for i, v := range a.elements {
		if b.elements[i] != v {
			return false
		}
	}
	return true
}

// String renders a human-oriented dump of the matrix:
//
//	Matrix 2x3
//	--------------
//	1 2 3
//	4 5 6
//	--------------
//
// Each value is followed by a single space. The dump is not meant to be
// parsed back; use MarshalText for that.
func (m *Matrix[T]) String() string {
	var sb []byte
	sb = fmt.Appendf(sb, "Matrix %dx%d\n%s\n", m.rows, m.columns, separator)
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.columns; c++ {
			sb = fmt.Appendf(sb, "%v ", m.elements[r*m.columns+c])
		}
		sb = append(sb, '\n')
	}
	sb = append(sb, separator...)
	return string(sb)
}

const separator = "--------------"
