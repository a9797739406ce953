package matrix

// Reduce folds every element in row-major order, starting from init.
func Reduce[T, A any](m *Matrix[T], init A, f func(acc A, v T) A) A {
	acc := init
	for _, v := range m.elements {
		acc = f(acc, v)
	}
	return acc
}

// ReduceWithIndex is Reduce with the (row, column) of each element.
func ReduceWithIndex[T, A any](m *Matrix[T], init A, f func(acc A, v T, row, column int) A) A {
	acc := init
	for i, v := range m.elements {
		acc = f(acc, v, i/m.columns, i%m.columns)
	}
	return acc
}

// ReduceRows folds each row independently, left to right, and returns the
// rows×1 column of results.
func ReduceRows[T, A any](m *Matrix[T], init A, f func(acc A, v T) A) *Matrix[A] {
	return ReduceRowsWithIndex(m, init, func(acc A, v T, _, _ int) A { return f(acc, v) })
}

// ReduceRowsWithIndex is ReduceRows with the (row, column) of each element.
func ReduceRowsWithIndex[T, A any](m *Matrix[T], init A, f func(acc A, v T, row, column int) A) *Matrix[A] {
	out := make([]A, m.rows)
	for r := 0; r < m.rows; r++ {
		acc := init
		base := r * m.columns
		for c := 0; c < m.columns; c++ {
			acc = f(acc, m.elements[base+c], r, c)
		}
		out[r] = acc
	}
	return NewFrom(m.rows, 1, out)
}

// ReduceColumns folds each column independently, top to bottom, and returns
// the 1×columns row of results.
func ReduceColumns[T, A any](m *Matrix[T], init A, f func(acc A, v T) A) *Matrix[A] {
	return ReduceColumnsWithIndex(m, init, func(acc A, v T, _, _ int) A { return f(acc, v) })
}

// ReduceColumnsWithIndex is ReduceColumns with the (row, column) of each
// element.
func ReduceColumnsWithIndex[T, A any](m *Matrix[T], init A, f func(acc A, v T, row, column int) A) *Matrix[A] {
	out := make([]A, m.columns)
	for c := range out {
		out[c] = init
	}
	for r := 0; r < m.rows; r++ {
		base := r * m.columns
		for c := 0; c < m.columns; c++ {
			out[c] = f(out[c], m.elements[base+c], r, c)
		}
	}
	return NewFrom(1, m.columns, out)
}

// Transform maps every element through f into a new matrix of the same
// shape, possibly of another element type.
func Transform[T, U any](m *Matrix[T], f func(v T) U) *Matrix[U] {
	out := make([]U, len(m.elements))
	for i, v := range m.elements {
		out[i] = f(v)
	}
	return NewFrom(m.rows, m.columns, out)
}

// TransformWithIndex is Transform with the (row, column) of each element.
func TransformWithIndex[T, U any](m *Matrix[T], f func(v T, row, column int) U) *Matrix[U] {
	out := make([]U, len(m.elements))
	for i, v := range m.elements {
		out[i] = f(v, i/m.columns, i%m.columns)
	}
	return NewFrom(m.rows, m.columns, out)
}
