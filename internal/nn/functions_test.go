package nn

import (
	"math"
	"testing"

	"github.com/agbru/matnn/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var logitsFixture = []float64{
	-1.74014, -1.22728, 0.14055, -0.590518, 0.234221,
	4.78415, -0.90424, -1.31733, 6.42867, 0.0813785,
	0.865385, -2.06612, -1.24789, -1.38634, -1.23427,
	2.53362, -1.325, -1.48494, 0.0346661, 1.28081,
}

func TestSoftmax(t *testing.T) {
	t.Parallel()
	in := matrix.NewFrom(2, 7, []float64{
		1, 2, 3, 4, 1, 2, 3,
		8, 3, 1, 6, 12, 1, 2,
	})
	want := []float64{
		2.36405430e-02, 6.42616585e-02, 1.74681299e-01, 4.74833000e-01,
		2.36405430e-02, 6.42616585e-02, 1.74681299e-01,
		1.79389812e-02, 1.20871905e-04, 1.63582334e-05,
		2.42777710e-03, 9.79435187e-01, 1.63582334e-05, 4.44662887e-05,
	}
	out := Softmax(in)
	assert.Equal(t, matrix.Shape{Rows: 2, Columns: 7}, out.Shape())
	assert.InDeltaSlice(t, want, out.Elements(), 1e-5)
}

func TestSoftmax_NegativeRowsStayFinite(t *testing.T) {
	t.Parallel()
	out := Softmax(matrix.NewFrom(1, 2, []float64{-1000, -1000}))
	assert.InDeltaSlice(t, []float64{0.5, 0.5}, out.Elements(), 1e-12)
}

func TestLogSoftmax(t *testing.T) {
	t.Parallel()
	want := []float64{
		-8.35237491, -7.83951491, -6.47168491, -7.20275291, -6.37801391,
		-1.82808491, -7.51647491, -7.92956491, -0.18356491, -6.53085641,
		-2.18184434, -5.11334934, -4.29511934, -4.43356934, -4.28149934,
		-0.51360934, -4.37222934, -4.53216934, -3.01256324, -1.76641934,
	}
	out := LogSoftmax(matrix.NewFrom(2, 10, logitsFixture))
	assert.InDeltaSlice(t, want, out.Elements(), 1e-5)
}

func TestSoftmaxCrossEntropy(t *testing.T) {
	t.Parallel()
	labels := matrix.ToOneHot(matrix.NewFrom(2, 1, []float64{8, 9}), 10)
	out := SoftmaxCrossEntropy(matrix.NewFrom(2, 10, logitsFixture), labels)
	assert.Equal(t, matrix.Shape{Rows: 2, Columns: 1}, out.Shape())
	assert.InDeltaSlice(t, []float64{0.183565, 1.76642}, out.Elements(), 1e-5)
}

func TestCrossEntropyFromProbs(t *testing.T) {
	t.Parallel()
	probs := matrix.NewFrom(1, 7, []float64{
		0.02364054, 0.06426166, 0.1746813, 0.474833, 0.02364054, 0.06426166, 0.1746813,
	})
	labels := matrix.OneHot[float64](7, []int{1})
	out := CrossEntropyFromProbs(probs, labels)
	assert.InDelta(t, 2.74479212, out.At(0, 0), 1e-5)
}

func TestCrossEntropyFromProbs_ZeroProbabilityIsFinite(t *testing.T) {
	t.Parallel()
	out := CrossEntropyFromProbs(matrix.NewFrom(1, 2, []float64{0, 1}), matrix.OneHot[float64](2, []int{0}))
	assert.False(t, math.IsInf(out.At(0, 0), 0))
}

func TestBinaryCrossEntropyFromProbs(t *testing.T) {
	t.Parallel()
	probs := matrix.NewFrom(2, 1, []float64{0.8, 0.3})
	labels := matrix.NewFrom(2, 1, []float64{1, 0})
	out := BinaryCrossEntropyFromProbs(probs, labels)
	assert.InDeltaSlice(t, []float64{-math.Log(0.8), -math.Log(0.7)}, out.Elements(), 1e-12)
}

func TestArgmax(t *testing.T) {
	t.Parallel()
	in := matrix.NewFrom(3, 4, []float64{
		1, 2, 3, 1,
		-1, 8, 2, 1,
		5, 5, 0, 0,
	})
	out := Argmax(in)
	assert.Equal(t, matrix.Shape{Rows: 3, Columns: 1}, out.Shape())
	assert.Equal(t, []int{2, 1, 0}, out.Elements())
}

func TestAccuracyFromProbs(t *testing.T) {
	t.Parallel()
	probs := matrix.NewFrom(2, 4, []float64{0.2, 0.3, 0.4, 0.1, 0.1, 0.7, 0.1, 0.1})
	labels := matrix.OneHot[float64](4, []int{1, 1})
	assert.InDelta(t, 0.5, AccuracyFromProbs(probs, labels), 1e-12)
	assert.Zero(t, AccuracyFromProbs(matrix.New[float64](0, 4), matrix.New[float64](0, 4)))
}

func TestCountHits_BinaryColumn(t *testing.T) {
	t.Parallel()
	pred := matrix.NewFrom(4, 1, []float64{0.9, 0.2, 0.51, 0.49})
	labels := matrix.NewFrom(4, 1, []float64{1, 0, 0, 0})
	assert.Equal(t, 3, countHits(pred, labels))
}

func TestLogistic(t *testing.T) {
	t.Parallel()
	assert.Equal(t, 0.5, Logistic(0))
	assert.InDelta(t, 1/(1+math.Exp(-2)), Logistic(2), 1e-15)
}

func TestCrossEntropy_ShapeMismatchPanics(t *testing.T) {
	t.Parallel()
	defer func() {
		_, ok := recover().(*matrix.DimensionMismatchError)
		require.True(t, ok)
	}()
	CrossEntropyFromProbs(matrix.New[float64](1, 7), matrix.New[float64](1, 10))
}
