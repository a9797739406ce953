package matrix

import (
	"bytes"
	"errors"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()
	m, err := Parse[float64]("1 2 3\n4 5.5 -6\n")
	require.NoError(t, err)
	assert.Equal(t, Shape{2, 3}, m.Shape())
	assert.Equal(t, []float64{1, 2, 3, 4, 5.5, -6}, m.Elements())
}

func TestParse_Integers(t *testing.T) {
	t.Parallel()
	m, err := Parse[int32]("  7 -8\r\n9 10  ")
	require.NoError(t, err)
	assert.Equal(t, []int32{7, -8, 9, 10}, m.Elements())

	u, err := Parse[uint8]("255 0")
	require.NoError(t, err)
	assert.Equal(t, []uint8{255, 0}, u.Elements())

	_, err = Parse[uint8]("256")
	assert.Error(t, err)
}

func TestParse_ExtraTokensIgnored(t *testing.T) {
	t.Parallel()
	m, err := Parse[int]("1 2\n3 4 5")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4}, m.Elements())
}

func TestParse_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		input  string
		row    int
		column int
		token  string
	}{
		{"bad token", "1 2\n3 x", 1, 1, "x"},
		{"double space", "1  2", 0, 1, ""},
		{"short row", "1 2 3\n4 5", 1, 2, ""},
		{"empty input", "", 0, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Parse[float64](tt.input)
			var pe *ParseError
			require.ErrorAs(t, err, &pe)
			assert.Equal(t, tt.row, pe.Row)
			assert.Equal(t, tt.column, pe.Column)
			assert.Equal(t, tt.token, pe.Token)
			assert.True(t, strings.HasPrefix(pe.Error(), "could not parse matrix"))
		})
	}
}

func TestParseError_UnwrapsStrconv(t *testing.T) {
	t.Parallel()
	_, err := Parse[int]("abc")
	assert.True(t, errors.Is(err, strconv.ErrSyntax))
}

func TestWriteText_RoundTrip(t *testing.T) {
	t.Parallel()
	m := NewFrom(2, 3, []float64{0.1, -2.5, 1e-300, 3, 1.0 / 3.0, 42})
	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, m))
	assert.Equal(t, "0.1 -2.5 1e-300\n3 0.3333333333333333 42\n", buf.String())

	back, err := ParseReader[float64](&buf)
	require.NoError(t, err)
	assert.True(t, Equal(m, back))
}

func TestMarshalText_Float32(t *testing.T) {
	t.Parallel()
	m := NewFrom(1, 2, []float32{0.1, 2})
	text, err := m.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "0.1 2\n", string(text))

	back, err := Parse[float32](string(text))
	require.NoError(t, err)
	assert.True(t, Equal(m, back))
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParseReader_ReadError(t *testing.T) {
	t.Parallel()
	_, err := ParseReader[int](failingReader{})
	assert.ErrorContains(t, err, "disk on fire")
}
