package orchestration

import (
	"bytes"
	"context"
	"errors"
	"io"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"

	"github.com/agbru/matnn/internal/config"
	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/multiply"
	"github.com/agbru/matnn/internal/multiply/mocks"
	"github.com/agbru/matnn/internal/testutil"
)

func product(values ...float64) *matrix.Matrix[float64] {
	return matrix.NewFrom(1, len(values), values)
}

func TestExecuteMultiplications(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)

	a := matrix.NewFrom(1, 1, []float64{2})
	b := matrix.NewFrom(1, 1, []float64{3})
	cfg := config.AppConfig{MinSize: 16, Workers: 3, Sequential: true}
	wantOpts := matrix.StrassenOptions{MinSize: 16, MaxWorkers: 3, Sequential: true}

	ok := mocks.NewMockMultiplier(ctrl)
	ok.EXPECT().Name().Return("Good").AnyTimes()
	ok.EXPECT().Multiply(gomock.Any(), a, b, wantOpts).Return(product(6), nil)

	failing := mocks.NewMockMultiplier(ctrl)
	failing.EXPECT().Name().Return("Bad").AnyTimes()
	failing.EXPECT().Multiply(gomock.Any(), a, b, wantOpts).Return(nil, errors.New("mock error"))

	results := ExecuteMultiplications(context.Background(), []multiply.Multiplier{ok, failing}, a, b, cfg, io.Discard)
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Name != "Good" || results[0].Err != nil || results[0].Product.At(0, 0) != 6 {
		t.Errorf("unexpected first result: %+v", results[0])
	}
	if results[1].Name != "Bad" || results[1].Err == nil || results[1].Product != nil {
		t.Errorf("unexpected second result: %+v", results[1])
	}
}

func TestExecuteMultiplicationsWithRealStrategies(t *testing.T) {
	t.Parallel()
	multipliers, err := multiply.NewDefaultFactory().Select("all")
	if err != nil {
		t.Fatal(err)
	}
	a := testutil.FromRows([]float64{1, 2, 3}, []float64{4, 5, 6})
	b := testutil.FromRows([]float64{7, 8}, []float64{9, 10}, []float64{11, 12})

	results := ExecuteMultiplications(context.Background(), multipliers, a, b, config.AppConfig{}, io.Discard)
	want := testutil.FromRows([]float64{58, 64}, []float64{139, 154})
	for _, res := range results {
		if res.Err != nil {
			t.Fatalf("%s failed: %v", res.Name, res.Err)
		}
		testutil.AssertMatrixInDelta(t, want, res.Product, 0)
	}
}

func TestAnalyzeComparisonResults(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name           string
		results        []MultiplicationResult
		tolerance      float64
		expectedStatus int
	}{
		{
			name: "All success",
			results: []MultiplicationResult{
				{Name: "A", Product: product(5, 1), Duration: time.Millisecond},
				{Name: "B", Product: product(5, 1), Duration: 2 * time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "Within tolerance",
			results: []MultiplicationResult{
				{Name: "A", Product: product(0.3), Duration: time.Millisecond},
				{Name: "B", Product: product(0.1 + 0.2), Duration: time.Millisecond},
			},
			tolerance:      1e-12,
			expectedStatus: apperrors.ExitSuccess,
		},
		{
			name: "Mismatch",
			results: []MultiplicationResult{
				{Name: "A", Product: product(5), Duration: time.Millisecond},
				{Name: "B", Product: product(6), Duration: time.Millisecond},
			},
			tolerance:      0.5,
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "Shape mismatch",
			results: []MultiplicationResult{
				{Name: "A", Product: product(5), Duration: time.Millisecond},
				{Name: "B", Product: product(5, 5), Duration: time.Millisecond},
			},
			tolerance:      1,
			expectedStatus: apperrors.ExitErrorMismatch,
		},
		{
			name: "All failure",
			results: []MultiplicationResult{
				{Name: "A", Duration: time.Millisecond, Err: errors.New("fail")},
				{Name: "B", Duration: time.Millisecond, Err: errors.New("fail")},
			},
			expectedStatus: apperrors.ExitErrorGeneric,
		},
		{
			name: "Timeout",
			results: []MultiplicationResult{
				{Name: "A", Err: context.DeadlineExceeded},
			},
			expectedStatus: apperrors.ExitErrorTimeout,
		},
		{
			name: "Mixed success/failure",
			results: []MultiplicationResult{
				{Name: "A", Duration: time.Millisecond, Err: errors.New("fail")},
				{Name: "B", Product: product(5), Duration: time.Millisecond},
			},
			expectedStatus: apperrors.ExitSuccess,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			status := AnalyzeComparisonResults(tt.results, config.AppConfig{Tolerance: tt.tolerance}, io.Discard)
			if status != tt.expectedStatus {
				t.Errorf("expected status %d, got %d", tt.expectedStatus, status)
			}
		})
	}
}

func TestAnalyzeComparisonResultsReport(t *testing.T) {
	t.Parallel()
	results := []MultiplicationResult{
		{Name: "Slow", Product: product(1, 2), Duration: 5 * time.Millisecond},
		{Name: "Broken", Err: errors.New("boom")},
		{Name: "Fast", Product: product(1, 2), Duration: time.Millisecond},
	}
	var out bytes.Buffer
	if code := AnalyzeComparisonResults(results, config.AppConfig{}, &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code %d", code)
	}
	got := testutil.StripAnsiCodes(out.String())

	fast, slow, broken := strings.Index(got, "Fast"), strings.Index(got, "Slow"), strings.Index(got, "Broken")
	if !(fast < slow && slow < broken) {
		t.Errorf("rows not sorted by success then duration:\n%s", got)
	}
	for _, want := range []string{"Max difference", "❌ Failure (boom)", "Global Status: Success", "Algorithm  : Fast"} {
		if !strings.Contains(got, want) {
			t.Errorf("report does not contain %q:\n%s", want, got)
		}
	}
}

func TestAnalyzeComparisonResultsQuiet(t *testing.T) {
	t.Parallel()
	results := []MultiplicationResult{{Name: "A", Product: product(1, 2)}}
	var out bytes.Buffer
	AnalyzeComparisonResults(results, config.AppConfig{Quiet: true}, &out)
	if out.String() != "1 2\n" {
		t.Errorf("quiet output = %q, want the bare grid", out.String())
	}
}

func TestMaxAbsDiff(t *testing.T) {
	t.Parallel()
	nan := math.NaN()
	tests := []struct {
		name string
		a, b *matrix.Matrix[float64]
		want float64
	}{
		{"equal", product(1, 2), product(1, 2), 0},
		{"largest wins", product(1, 2), product(1.5, 4), 2},
		{"shapes", product(1), product(1, 2), math.Inf(1)},
		{"both NaN", product(nan, 1), product(nan, 1), 0},
		{"one NaN", product(nan), product(1), math.Inf(1)},
	}
	for _, tt := range tests {
		if got := maxAbsDiff(tt.a, tt.b); got != tt.want {
			t.Errorf("%s: maxAbsDiff = %g, want %g", tt.name, got, tt.want)
		}
	}
}
