package matrix

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranspose(t *testing.T) {
	t.Parallel()
	m := NewFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	tr := m.T()
	assert.Equal(t, Shape{3, 2}, tr.Shape())
	assert.Equal(t, []float64{1, 4, 2, 5, 3, 6}, tr.Elements())
	assert.True(t, Equal(m, tr.T()))
}

func TestSliceRows(t *testing.T) {
	t.Parallel()
	m := NewFrom(4, 2, []int{1, 2, 3, 4, 5, 6, 7, 8})

	s := m.SliceRows(1, 3)
	assert.Equal(t, Shape{2, 2}, s.Shape())
	assert.Equal(t, []int{3, 4, 5, 6}, s.Elements())

	s.SetAt(0, 0, 99)
	assert.Equal(t, 3, m.At(1, 0), "slice must own its elements")

	assert.Equal(t, 0, m.SliceRows(2, 2).Rows())
	assert.True(t, Equal(m, m.SliceRows(0, 4)))
}

func TestSliceRows_InvalidRangePanics(t *testing.T) {
	t.Parallel()
	m := New[int](3, 1)
	for _, r := range [][2]int{{0, 4}, {2, 1}, {-1, 1}} {
		assert.Panics(t, func() { m.SliceRows(r[0], r[1]) }, "range %v", r)
	}
}

func TestSwapRows(t *testing.T) {
	t.Parallel()
	m := NewFrom(3, 2, []int{1, 2, 3, 4, 5, 6})
	m.SwapRows(0, 2)
	assert.Equal(t, []int{5, 6, 3, 4, 1, 2}, m.Elements())
	m.SwapRows(1, 1)
	assert.Equal(t, []int{5, 6, 3, 4, 1, 2}, m.Elements())
	assert.Panics(t, func() { m.SwapRows(0, 3) })
}

func TestShuffleRows_SwapCount(t *testing.T) {
	t.Parallel()
	for _, rows := range []int{0, 1, 2, 7, 10} {
		m := New[int](rows, 1)
		swaps := m.ShuffleRows()
		assert.Len(t, swaps, rows/2, "rows=%d", rows)
		for _, s := range swaps {
			assert.True(t, s.First >= 0 && s.First < rows)
			assert.True(t, s.Second >= 0 && s.Second < rows)
		}
	}
}

func TestShuffleRows_CoIndexedReplay(t *testing.T) {
	t.Parallel()
	const n = 50
	features := New[int](n, 3)
	labels := New[int](n, 1)
	for r := 0; r < n; r++ {
		for c := 0; c < 3; c++ {
			features.SetAt(r, c, r*3+c)
		}
		labels.SetAt(r, 0, r)
	}

	rng := rand.New(rand.NewPCG(7, 11))
	swaps := features.ShuffleRowsWith(rng)
	labels.ApplySwaps(swaps)

	for r := 0; r < n; r++ {
		orig := labels.At(r, 0)
		require.Equal(t, []int{orig * 3, orig*3 + 1, orig*3 + 2}, features.Row(r))
	}
}

func TestShuffleRowsWith_Reproducible(t *testing.T) {
	t.Parallel()
	a := New[int](20, 1)
	b := New[int](20, 1)
	assert.Equal(t,
		a.ShuffleRowsWith(rand.New(rand.NewPCG(1, 2))),
		b.ShuffleRowsWith(rand.New(rand.NewPCG(1, 2))))
}
