package matrix

import (
	"math/rand/v2"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// TestStrassenEqualsNaive_PropertyBased checks that Strassen and the naive
// product agree exactly on integer matrices of random even sizes, at every
// recursion cutoff.
func TestStrassenEqualsNaive_PropertyBased(t *testing.T) {
	t.Parallel()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 40
	properties := gopter.NewProperties(parameters)

	properties.Property("strassen(a, b) == naive(a, b)", prop.ForAll(
		func(half int, minSize int, seed uint64) bool {
			n := half * 2
			rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
			a := RandomWith(rng, n, n, -100, 100)
			b := RandomWith(rng, n, n, -100, 100)
			got := StrassenMatMulWithOptions(a, b, StrassenOptions{MinSize: minSize})
			return Equal(got, NaiveMatMul(a, b))
		},
		gen.IntRange(1, 24),
		gen.IntRange(2, 16),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// TestTransposeInvolution_PropertyBased checks (mᵀ)ᵀ == m for any shape.
func TestTransposeInvolution_PropertyBased(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("(mᵀ)ᵀ == m", prop.ForAll(
		func(rows, columns int, seed uint64) bool {
			m := RandomWith(rand.New(rand.NewPCG(seed, 1)), rows, columns, -1000, 1000)
			tr := m.T()
			return tr.Rows() == columns && tr.Columns() == rows && Equal(tr.T(), m)
		},
		gen.IntRange(0, 12),
		gen.IntRange(0, 12),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// TestAddInPlaceEquivalence_PropertyBased checks that AddInPlace yields the
// same matrix as Add and leaves the right operand untouched.
func TestAddInPlaceEquivalence_PropertyBased(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("AddInPlace(a, b) == Add(a, b)", prop.ForAll(
		func(rows, columns int, seed uint64) bool {
			rng := rand.New(rand.NewPCG(seed, 2))
			a := RandomWith(rng, rows, columns, -10.0, 10.0)
			b := RandomWith(rng, rows, columns, -10.0, 10.0)
			bBefore := b.Clone()
			want := Add(a, b)
			AddInPlace(a, b)
			return Equal(want, a) && Equal(b, bBefore)
		},
		gen.IntRange(1, 10),
		gen.IntRange(1, 10),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// TestShuffleCoIndexing_PropertyBased checks that replaying a shuffle log
// on a label column keeps every feature row paired with its label.
func TestShuffleCoIndexing_PropertyBased(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("features and labels stay paired", prop.ForAll(
		func(rows int, seed uint64) bool {
			x := New[int](rows, 2)
			y := New[int](rows, 1)
			for r := 0; r < rows; r++ {
				x.SetAt(r, 0, r)
				x.SetAt(r, 1, -r)
				y.SetAt(r, 0, r)
			}
			swaps := x.ShuffleRowsWith(rand.New(rand.NewPCG(seed, 3)))
			y.ApplySwaps(swaps)
			if len(swaps) != rows/2 {
				return false
			}
			for r := 0; r < rows; r++ {
				if x.At(r, 0) != y.At(r, 0) || x.At(r, 1) != -y.At(r, 0) {
					return false
				}
			}
			return true
		},
		gen.IntRange(0, 64),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}

// TestTextRoundTrip_PropertyBased checks Parse(WriteText(m)) == m.
func TestTextRoundTrip_PropertyBased(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(gopter.DefaultTestParameters())

	properties.Property("parse(marshal(m)) == m", prop.ForAll(
		func(rows, columns int, seed uint64) bool {
			m := RandomWith(rand.New(rand.NewPCG(seed, 4)), rows, columns, -1e6, 1e6)
			text, err := m.MarshalText()
			if err != nil {
				return false
			}
			back, err := Parse[float64](string(text))
			return err == nil && Equal(m, back)
		},
		gen.IntRange(1, 8),
		gen.IntRange(1, 8),
		gen.UInt64(),
	))

	properties.TestingRun(t)
}
