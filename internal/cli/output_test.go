package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/internal/nn"
	"github.com/agbru/matnn/internal/testutil"
	"github.com/agbru/matnn/pkg/models"
)

func smallResult() Result {
	return Result{
		Algorithm: "Strassen",
		Product:   matrix.NewFrom(2, 2, []float64{58, 64, 139, 154}),
		Duration:  3 * time.Millisecond,
	}
}

func TestDisplayResultSmall(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	DisplayResult(&out, smallResult(), false)
	got := testutil.StripAnsiCodes(out.String())

	assert.Contains(t, got, "Shape      : 2x2\n")
	assert.Contains(t, got, "Algorithm  : Strassen\n")
	assert.Contains(t, got, "Time       : 3ms\n")
	assert.True(t, strings.HasSuffix(got, "58 64\n139 154\n"), got)
}

func TestFormatPreview(t *testing.T) {
	t.Parallel()
	m := matrix.New[float64](10, 10)
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			m.SetAt(r, c, float64(r*10+c))
		}
	}
	lines := strings.Split(strings.TrimSuffix(FormatPreview(m, 3), "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, "0 1 2 … 7 8 9", lines[0])
	assert.Equal(t, "…", lines[3])
	assert.Equal(t, "90 91 92 … 97 98 99", lines[6])
}

func TestDisplayResultTruncatesLargeProducts(t *testing.T) {
	t.Parallel()
	res := Result{Algorithm: "Naive", Product: matrix.New[float64](20, 20)}
	var out bytes.Buffer
	DisplayResult(&out, res, false)
	assert.Contains(t, testutil.StripAnsiCodes(out.String()), "use the -v option")

	out.Reset()
	DisplayResult(&out, res, true)
	assert.NotContains(t, out.String(), "…")
}

func TestDisplayResultWithConfigQuiet(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, DisplayResultWithConfig(&out, smallResult(), OutputConfig{Quiet: true}))
	assert.Equal(t, "58 64\n139 154\n", out.String())
}

func TestDisplayResultWithConfigJSON(t *testing.T) {
	t.Parallel()
	var out bytes.Buffer
	require.NoError(t, DisplayResultWithConfig(&out, smallResult(), OutputConfig{JSON: true}))

	var resp models.MultiplyResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	assert.Equal(t, "Strassen", resp.Algorithm)
	assert.Equal(t, "3ms", resp.Duration)
	assert.Equal(t, models.MatrixPayload{Rows: 2, Columns: 2, Elements: []float64{58, 64, 139, 154}}, resp.Result)
}

func TestDisplayResultWithConfigFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "product.txt")
	var out bytes.Buffer
	require.NoError(t, DisplayResultWithConfig(&out, smallResult(), OutputConfig{OutputFile: path}))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "58 64\n139 154\n", string(data))
	assert.Contains(t, testutil.StripAnsiCodes(out.String()), "Product saved to: "+path)
}

func TestDisplayResultWithConfigFileError(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "missing", "product.txt")
	var out bytes.Buffer
	assert.Error(t, DisplayResultWithConfig(&out, smallResult(), OutputConfig{OutputFile: path, Quiet: true}))
}

func TestDisplayTrainingSummary(t *testing.T) {
	t.Parallel()
	history := []nn.TrainingResults{
		{TotalCount: 4, CurrentCount: 4, TotalLoss: 4, HitCount: 2, MissCount: 2},
		{TotalCount: 4, CurrentCount: 4, TotalLoss: 2, HitCount: 3, MissCount: 1},
	}
	var out bytes.Buffer
	DisplayTrainingSummary(&out, history, nn.DefaultFormatter(), 1500*time.Millisecond)
	got := testutil.StripAnsiCodes(out.String())
	assert.Contains(t, got, "Epochs     : 2\n")
	assert.Contains(t, got, "Final      : acc = 0.75000, loss = 0.50000\n")
}

func TestCLIColorProvider(t *testing.T) {
	t.Parallel()
	var p CLIColorProvider
	// The codes come from the active theme; only the reset is shared by
	// every coloured theme, and it is empty without colours.
	assert.Equal(t, p.Reset() == "", p.Red() == "")
}
