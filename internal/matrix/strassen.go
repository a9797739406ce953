package matrix

import (
	"sync/atomic"

	"github.com/agbru/matnn/internal/parallel"
)

// joinSetObserver, when set, is told about every recursion step before its
// seven products run.
var joinSetObserver atomic.Pointer[func(depth int, inParallel bool)]

// StrassenMatMul multiplies a and b with Strassen's algorithm using the
// default options. See StrassenMatMulWithOptions.
func StrassenMatMul[T Numeric](a, b *Matrix[T]) *Matrix[T] {
	return StrassenMatMulWithOptions(a, b, StrassenOptions{})
}

// StrassenMatMulWithOptions multiplies a and b with Strassen's algorithm.
//
// The recursion only applies to square operands of the same even dimension
// n >= MinSize; anything else, including odd and rectangular operands, falls
// back to the naive product. Operands are never padded.
//
// At recursion depths up to ParallelDepth (the first call is depth 1) the
// seven sub-products run as independent units of a join-set, each on its
// own copies of the operand quadrants. The caller blocks until all seven
// finish. A panic raised by a unit is re-raised in the caller's goroutine.
//
// Parameters:
//   - a: The left operand.
//   - b: The right operand, with b.Rows() == a.Columns().
//   - opts: Tuning options; zero fields select the defaults.
//
// Returns:
//   - *Matrix[T]: The a.Rows()×b.Columns() product.
func StrassenMatMulWithOptions[T Numeric](a, b *Matrix[T], opts StrassenOptions) *Matrix[T] {
	assertMultipliable(a, b)
	return strassen(a, b, 1, normalizeOptions(opts))
}

// strassenEligible reports whether the recursive step applies.
func strassenEligible[T any](a, b *Matrix[T], minSize int) bool {
	n := a.rows
	return n == a.columns && n == b.rows && n == b.columns && n%2 == 0 && n >= minSize
}

// productTask computes one of the seven Strassen products.
type productTask[T Numeric] struct {
	out   *Matrix[T]
	a, b  *Matrix[T]
	depth int
	opts  StrassenOptions
}

// Execute performs the sub-product.
func (t *productTask[T]) Execute() error {
	t.out = strassen(t.a, t.b, t.depth, t.opts)
	return nil
}

func strassen[T Numeric](a, b *Matrix[T], depth int, opts StrassenOptions) *Matrix[T] {
	if !strassenEligible(a, b, opts.MinSize) {
		return naive(a, b)
	}

	h := a.rows / 2
	a11, a12, a21, a22 := a.block(0, 0, h), a.block(0, h, h), a.block(h, 0, h), a.block(h, h, h)
	b11, b12, b21, b22 := b.block(0, 0, h), b.block(0, h, h), b.block(h, 0, h), b.block(h, h, h)

	next := depth + 1
	tasks := []productTask[T]{
		{a: Add(a11, a22), b: Add(b11, b22)}, // P1 = (A11 + A22)(B11 + B22)
		{a: Add(a21, a22), b: b11.Clone()},   // P2 = (A21 + A22)B11
		{a: a11.Clone(), b: Sub(b12, b22)},   // P3 = A11(B12 - B22)
		{a: a22.Clone(), b: Sub(b21, b11)},   // P4 = A22(B21 - B11)
		{a: Add(a11, a12), b: b22.Clone()},   // P5 = (A11 + A12)B22
		{a: Sub(a21, a11), b: Add(b11, b12)}, // P6 = (A21 - A11)(B11 + B12)
		{a: Sub(a12, a22), b: Add(b21, b22)}, // P7 = (A12 - A22)(B21 + B22)
	}
	for i := range tasks {
		tasks[i].depth = next
		tasks[i].opts = opts
	}

	inParallel := !opts.Sequential && depth <= opts.ParallelDepth
	if observe := joinSetObserver.Load(); observe != nil {
		(*observe)(depth, inParallel)
	}
	// Units never return errors; panics are re-raised by ExecuteTasks.
	_ = parallel.ExecuteTasks[productTask[T], *productTask[T]](tasks, inParallel, opts.MaxWorkers)

	p1, p2, p3, p4 := tasks[0].out, tasks[1].out, tasks[2].out, tasks[3].out
	p5, p6, p7 := tasks[4].out, tasks[5].out, tasks[6].out

	c11 := Add(p1, p4) // C11 = P1 + P4 - P5 + P7
	SubInPlace(c11, p5)
	AddInPlace(c11, p7)
	c12 := Add(p3, p5) // C12 = P3 + P5
	c21 := Add(p2, p4) // C21 = P2 + P4
	c22 := Sub(p1, p2) // C22 = P1 - P2 + P3 + P6
	AddInPlace(c22, p3)
	AddInPlace(c22, p6)

	out := New[T](a.rows, a.rows)
	out.setBlock(0, 0, c11)
	out.setBlock(0, h, c12)
	out.setBlock(h, 0, c21)
	out.setBlock(h, h, c22)
	return out
}

// block copies the size×size sub-matrix whose top-left corner is (r0, c0).
func (m *Matrix[T]) block(r0, c0, size int) *Matrix[T] {
	out := make([]T, size*size)
	for r := 0; r < size; r++ {
		src := (r0+r)*m.columns + c0
		copy(out[r*size:(r+1)*size], m.elements[src:src+size])
	}
	return &Matrix[T]{rows: size, columns: size, elements: out}
}

// setBlock copies src into m with its top-left corner at (r0, c0).
func (m *Matrix[T]) setBlock(r0, c0 int, src *Matrix[T]) {
	for r := 0; r < src.rows; r++ {
		dst := (r0+r)*m.columns + c0
		copy(m.elements[dst:dst+src.columns], src.elements[r*src.columns:(r+1)*src.columns])
	}
}
