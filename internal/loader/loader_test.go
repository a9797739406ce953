package loader

import (
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrixFromFile(t *testing.T) {
	t.Parallel()
	m, err := MatrixFromFile[float64](filepath.Join("testdata", "small.txt"))
	require.NoError(t, err)
	assert.Equal(t, matrix.Shape{Rows: 2, Columns: 3}, m.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, m.Elements())
}

func TestMatrixFromFile_Missing(t *testing.T) {
	t.Parallel()
	_, err := MatrixFromFile[float64](filepath.Join("testdata", "nope.txt"))
	var inputErr apperrors.InputError
	require.ErrorAs(t, err, &inputErr)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestMatrixFromFile_Malformed(t *testing.T) {
	t.Parallel()
	_, err := MatrixFromFile[float64](filepath.Join("testdata", "malformed.txt"))
	var pe *matrix.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, 1, pe.Row)
	assert.Equal(t, 1, pe.Column)
	assert.Equal(t, "oops", pe.Token)
	assert.Contains(t, err.Error(), "malformed.txt")
}

func TestMatrixToFile_RoundTrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "out.txt")
	m := matrix.NewFrom(2, 2, []int{1, -2, 30, 4})
	require.NoError(t, MatrixToFile(path, m))

	back, err := MatrixFromFile[int](path)
	require.NoError(t, err)
	assert.True(t, matrix.Equal(m, back))
}
