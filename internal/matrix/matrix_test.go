package matrix

import (
	"fmt"
	"math"
	"math/bits"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────────────────────────────────────
// Construction
// ─────────────────────────────────────────────────────────────────────────────

func TestNew_ZeroFilled(t *testing.T) {
	t.Parallel()
	m := New[float64](10, 5)
	assert.Equal(t, 10, m.Rows())
	assert.Equal(t, 5, m.Columns())
	assert.Equal(t, Shape{Rows: 10, Columns: 5}, m.Shape())
	assert.Equal(t, 50, m.Len())
	for _, v := range m.Elements() {
		assert.Zero(t, v)
	}
}

func TestNew_NegativeExtentsPanic(t *testing.T) {
	t.Parallel()
	assert.PanicsWithError(t, "matrix: negative extents -1x3", func() { New[int](-1, 3) })
}

// wrapExtent squared wraps an int to exactly zero.
const wrapExtent = 1 << (bits.UintSize / 2)

func TestNew_OverflowingExtentsPanic(t *testing.T) {
	t.Parallel()
	assert.PanicsWithError(t,
		fmt.Sprintf("matrix: extents 2x%d overflow the element count", math.MaxInt/2+1),
		func() { New[int8](2, math.MaxInt/2+1) })
}

func TestNewFrom_WrappedElementCountPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		r := recover()
		_, ok := r.(*ShapeError)
		require.True(t, ok, "expected *ShapeError, got %#v", r)
	}()
	NewFrom[float64](wrapExtent, wrapExtent, nil)
}

func TestElementCount(t *testing.T) {
	t.Parallel()
	tests := []struct {
		rows, columns, want int
		ok                  bool
	}{
		{3, 4, 12, true},
		{0, math.MaxInt, 0, true},
		{math.MaxInt, 1, math.MaxInt, true},
		{-1, 2, 0, false},
		{wrapExtent, wrapExtent, 0, false},
		{math.MaxInt/3 + 1, 3, 0, false},
	}
	for _, tt := range tests {
		n, ok := ElementCount(tt.rows, tt.columns)
		assert.Equal(t, tt.ok, ok, "ElementCount(%d, %d)", tt.rows, tt.columns)
		assert.Equal(t, tt.want, n, "ElementCount(%d, %d)", tt.rows, tt.columns)
	}
}

func TestNewFrom(t *testing.T) {
	t.Parallel()
	m := NewFrom(2, 3, []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6})
	assert.Equal(t, 2, m.Rows())
	assert.Equal(t, 3, m.Columns())
	assert.Equal(t, 0.5, m.At(1, 1))
}

func TestNewFrom_LengthMismatchPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		r := recover()
		_, ok := r.(*ShapeError)
		require.True(t, ok, "expected *ShapeError, got %#v", r)
	}()
	NewFrom(2, 3, []int{1, 2, 3})
}

func TestNewFrom_EmptyMatrix(t *testing.T) {
	t.Parallel()
	m := NewFrom[int](0, 4, nil)
	assert.Equal(t, 0, m.Rows())
	assert.Equal(t, 4, m.Columns())
}

// ─────────────────────────────────────────────────────────────────────────────
// Element access
// ─────────────────────────────────────────────────────────────────────────────

func TestAtSetAt(t *testing.T) {
	t.Parallel()
	m := New[int](2, 3)
	m.SetAt(1, 2, 7)
	assert.Equal(t, 7, m.At(1, 2))
	assert.Equal(t, []int{0, 0, 0, 0, 0, 7}, m.Elements())
}

func TestAt_OutOfRangePanics(t *testing.T) {
	t.Parallel()
	m := New[int](2, 3)
	tests := []struct {
		name     string
		row, col int
	}{
		{"row too large", 2, 0},
		{"column too large", 0, 3},
		{"negative row", -1, 0},
		{"negative column", 0, -1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			defer func() {
				r := recover()
				e, ok := r.(*IndexOutOfRangeError)
				require.True(t, ok, "expected *IndexOutOfRangeError, got %#v", r)
				assert.Equal(t, tt.row, e.Row)
				assert.Equal(t, tt.col, e.Column)
				assert.Equal(t, Shape{2, 3}, e.Shape)
			}()
			m.At(tt.row, tt.col)
		})
	}
}

func TestSetAt_OutOfRangePanics(t *testing.T) {
	t.Parallel()
	m := New[int](2, 2)
	assert.Panics(t, func() { m.SetAt(0, 2, 1) })
}

// ─────────────────────────────────────────────────────────────────────────────
// Ownership
// ─────────────────────────────────────────────────────────────────────────────

func TestClone_IsIndependent(t *testing.T) {
	t.Parallel()
	m := NewFrom(1, 3, []int{1, 2, 3})
	c := m.Clone()
	c.SetAt(0, 0, 99)
	assert.Equal(t, 1, m.At(0, 0))
	assert.Equal(t, 99, c.At(0, 0))
}

func TestElementsAndRow_ReturnCopies(t *testing.T) {
	t.Parallel()
	m := NewFrom(2, 2, []int{1, 2, 3, 4})
	els := m.Elements()
	els[0] = 100
	row := m.Row(1)
	row[0] = 100
	assert.Equal(t, []int{1, 2, 3, 4}, m.Elements())
	assert.Equal(t, []int{3, 4}, m.Row(1))
	assert.Panics(t, func() { m.Row(2) })
}

func TestAssertSameSize(t *testing.T) {
	t.Parallel()
	a := New[int](2, 3)
	assert.NotPanics(t, func() { a.AssertSameSize(New[int](2, 3)) })
	assert.PanicsWithError(t,
		"matrix: dimension mismatch in elementwise operation, given 2x3 and 3x2",
		func() { a.AssertSameSize(New[int](3, 2)) })
}

func TestEqual(t *testing.T) {
	t.Parallel()
	a := NewFrom(1, 2, []int{1, 2})
	assert.True(t, Equal(a, NewFrom(1, 2, []int{1, 2})))
	assert.False(t, Equal(a, NewFrom(2, 1, []int{1, 2})))
	assert.False(t, Equal(a, NewFrom(1, 2, []int{1, 3})))
}

// ─────────────────────────────────────────────────────────────────────────────
// Display
// ─────────────────────────────────────────────────────────────────────────────

func TestString(t *testing.T) {
	t.Parallel()
	m := NewFrom(2, 3, []int{1, 2, 3, 4, 5, 6})
	want := "Matrix 2x3\n--------------\n1 2 3 \n4 5 6 \n--------------"
	assert.Equal(t, want, m.String())
}

func TestString_Empty(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "Matrix 0x0\n--------------\n--------------", New[int](0, 0).String())
}

// ─────────────────────────────────────────────────────────────────────────────
// Random & one-hot
// ─────────────────────────────────────────────────────────────────────────────

func TestRandom_WithinRange(t *testing.T) {
	t.Parallel()
	m := Random(20, 30, -1.0, 1.0)
	for _, v := range m.Elements() {
		assert.GreaterOrEqual(t, v, -1.0)
		assert.Less(t, v, 1.0)
	}
	ints := Random(10, 10, 3, 5)
	for _, v := range ints.Elements() {
		assert.Contains(t, []int{3, 4}, v)
	}
}

func TestRandom_EmptyRangePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { Random(2, 2, 1.0, 1.0) })
}

func TestOneHot(t *testing.T) {
	t.Parallel()
	m := OneHot[float64](3, []int{2, 0, 1})
	assert.Equal(t, []float64{0, 0, 1, 1, 0, 0, 0, 1, 0}, m.Elements())

	labels := NewFrom(2, 1, []float64{1, 3})
	hot := ToOneHot(labels, 4)
	assert.Equal(t, []float64{0, 1, 0, 0, 0, 0, 0, 1}, hot.Elements())
}

func TestToOneHot_RequiresColumn(t *testing.T) {
	t.Parallel()
	defer func() {
		_, ok := recover().(*ShapeError)
		assert.True(t, ok)
	}()
	ToOneHot(New[float64](2, 2), 3)
}

// ─────────────────────────────────────────────────────────────────────────────
// Contract errors at boundaries
// ─────────────────────────────────────────────────────────────────────────────

func TestRecover_ConvertsContractPanics(t *testing.T) {
	t.Parallel()
	run := func() (err error) {
		defer Recover(&err)
		Add(New[int](2, 3), New[int](2, 2))
		return nil
	}
	err := run()
	var dm *DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, Shape{2, 3}, dm.Left)
	assert.Equal(t, Shape{2, 2}, dm.Right)
}

func TestRecover_RepanicsForeignValues(t *testing.T) {
	t.Parallel()
	assert.PanicsWithValue(t, "other", func() {
		var err error
		defer Recover(&err)
		panic("other")
	})
}
