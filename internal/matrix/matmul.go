package matrix

// NaiveMatMul returns the (a.Rows×b.Columns) product using the textbook
// triple loop. It panics with a *DimensionMismatchError unless
// a.Columns() == b.Rows().
func NaiveMatMul[T Numeric](a, b *Matrix[T]) *Matrix[T] {
	assertMultipliable(a, b)
	return naive(a, b)
}

// MatMul is the default product strategy: Strassen with default options.
func MatMul[T Numeric](a, b *Matrix[T]) *Matrix[T] {
	return StrassenMatMul(a, b)
}

func assertMultipliable[T any](a, b *Matrix[T]) {
	if a.columns != b.rows {
		panic(&DimensionMismatchError{Op: "matmul", Left: a.Shape(), Right: b.Shape()})
	}
}

func naive[T Numeric](a, b *Matrix[T]) *Matrix[T] {
	n, k, p := a.rows, a.columns, b.columns
	out := make([]T, n*p)
	for i := 0; i < n; i++ {
		row := out[i*p : (i+1)*p]
		for l := 0; l < k; l++ {
			av := a.elements[i*k+l]
			bRow := b.elements[l*p : (l+1)*p]
			for j, bv := range bRow {
				row[j] += av * bv
			}
		}
	}
	return &Matrix[T]{rows: n, columns: p, elements: out}
}
