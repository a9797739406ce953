package multiply

import (
	"context"
	"errors"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
)

func operands() (*Mat, *Mat) {
	a := matrix.NewFrom(2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := matrix.NewFrom(3, 2, []float64{7, 8, 9, 10, 11, 12})
	return a, b
}

func TestStrategiesAgree(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	a, b := operands()

	for _, name := range f.List() {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			m, err := f.Get(name)
			require.NoError(t, err)
			got, err := m.Multiply(context.Background(), a, b, matrix.StrassenOptions{})
			require.NoError(t, err)
			assert.Equal(t, []float64{58, 64, 139, 154}, got.Elements())
		})
	}
}

func TestStrassenCoreRecursesWithOptions(t *testing.T) {
	t.Parallel()
	a := matrix.RandomWith(testRand(), 16, 16, -1.0, 1.0)
	b := matrix.RandomWith(testRand(), 16, 16, -1.0, 1.0)

	got, err := NewMultiplier(Strassen{}).Multiply(context.Background(), a, b, matrix.StrassenOptions{MinSize: 4})
	require.NoError(t, err)
	assert.InDeltaSlice(t, matrix.NaiveMatMul(a, b).Elements(), got.Elements(), 1e-9)
}

func TestMultiplyConvertsContractPanics(t *testing.T) {
	t.Parallel()
	a, _ := operands()
	m := NewMultiplier(Naive{})

	_, err := m.Multiply(context.Background(), a, a, matrix.StrassenOptions{})
	require.Error(t, err)

	var ce apperrors.ComputeError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "multiply/Naive", ce.Op)

	var dm *matrix.DimensionMismatchError
	require.ErrorAs(t, err, &dm)
	assert.Equal(t, matrix.Shape{Rows: 2, Columns: 3}, dm.Left)
}

func TestMultiplyHonoursCanceledContext(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	a, b := operands()

	_, err := NewMultiplier(Strassen{}).Multiply(ctx, a, b, matrix.StrassenOptions{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMultiplyRejectsNilOperand(t *testing.T) {
	t.Parallel()
	a, _ := operands()
	_, err := NewMultiplier(Naive{}).Multiply(context.Background(), a, nil, matrix.StrassenOptions{})
	assert.True(t, errors.Is(err, ErrNilOperand))
}

func TestNewMultiplierPanicsOnNilCore(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { NewMultiplier(nil) })
}

// probe is a core with a unique label so the metrics assertions are not
// disturbed by other tests.
type probe struct{ fail bool }

func (probe) Name() string { return "probe" }

func (p probe) MultiplyCore(a, b *Mat, _ matrix.StrassenOptions) *Mat {
	if p.fail {
		panic(&matrix.ShapeError{Message: "probe"})
	}
	return matrix.NaiveMatMul(a, b)
}

func counterValue(t *testing.T, algo, status string) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, multiplicationsTotal.WithLabelValues(algo, status).Write(&m))
	return m.GetCounter().GetValue()
}

func TestMultiplyRecordsMetrics(t *testing.T) {
	a, b := operands()
	okBefore := counterValue(t, "probe", "success")
	errBefore := counterValue(t, "probe", "error")

	_, err := NewMultiplier(probe{}).Multiply(context.Background(), a, b, matrix.StrassenOptions{})
	require.NoError(t, err)
	_, err = NewMultiplier(probe{fail: true}).Multiply(context.Background(), a, b, matrix.StrassenOptions{})
	require.Error(t, err)

	assert.Equal(t, okBefore+1, counterValue(t, "probe", "success"))
	assert.Equal(t, errBefore+1, counterValue(t, "probe", "error"))
}

func TestNonContractPanicPropagates(t *testing.T) {
	t.Parallel()
	a, b := operands()
	m := NewMultiplier(explosive{})
	assert.PanicsWithValue(t, "boom", func() {
		_, _ = m.Multiply(context.Background(), a, b, matrix.StrassenOptions{})
	})
}

type explosive struct{}

func (explosive) Name() string { return "explosive" }

func (explosive) MultiplyCore(*Mat, *Mat, matrix.StrassenOptions) *Mat { panic("boom") }
