package matrix

import (
	"bytes"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
)

// Text grid format: one row per line, values separated by a single space.
//
//	1 2 3
//	4 5 6
//
// The input is trimmed of surrounding whitespace. The first row fixes the
// number of columns; extra tokens on later rows are ignored, missing ones
// are reported as a *ParseError.

// Parse reads a text grid into a matrix of T.
func Parse[T Real](s string) (*Matrix[T], error) {
	parse := tokenParser[T]()
	lines := strings.Split(strings.TrimSpace(s), "\n")
	grid := make([][]string, len(lines))
	for i, line := range lines {
		grid[i] = strings.Split(strings.TrimSuffix(line, "\r"), " ")
	}

	rows, columns := len(grid), len(grid[0])
	m := New[T](rows, columns)
	for r, tokens := range grid {
		if len(tokens) < columns {
			return nil, &ParseError{Row: r, Column: len(tokens), Err: errMissingToken}
		}
		for c := 0; c < columns; c++ {
			v, err := parse(tokens[c])
			if err != nil {
				return nil, &ParseError{Row: r, Column: c, Token: tokens[c], Err: err}
			}
			m.elements[r*columns+c] = v
		}
	}
	return m, nil
}

// ParseReader reads the whole of r and parses it as a text grid.
func ParseReader[T Real](r io.Reader) (*Matrix[T], error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading matrix: %w", err)
	}
	return Parse[T](string(data))
}

// WriteText writes m as a text grid that Parse reads back exactly.
func WriteText[T any](w io.Writer, m *Matrix[T]) error {
	format := tokenFormatter[T]()
	var buf bytes.Buffer
	for r := 0; r < m.rows; r++ {
		for c := 0; c < m.columns; c++ {
			if c > 0 {
				buf.WriteByte(' ')
			}
			buf.WriteString(format(m.elements[r*m.columns+c]))
		}
		buf.WriteByte('\n')
	}
	_, err := w.Write(buf.Bytes())
	return err
}

// MarshalText implements encoding.TextMarshaler with the text grid format.
func (m *Matrix[T]) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteText(&buf, m); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tokenParser selects the strconv routine matching the kind of T.
func tokenParser[T Real]() func(string) (T, error) {
	typ := reflect.TypeFor[T]()
	switch typ.Kind() {
	case reflect.Float32, reflect.Float64:
		return func(s string) (T, error) {
			v, err := strconv.ParseFloat(s, typ.Bits())
			return T(v), err
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(s string) (T, error) {
			v, err := strconv.ParseUint(s, 10, typ.Bits())
			return T(v), err
		}
	default:
		return func(s string) (T, error) {
			v, err := strconv.ParseInt(s, 10, typ.Bits())
			return T(v), err
		}
	}
}

// tokenFormatter selects the shortest exact representation for T.
func tokenFormatter[T any]() func(T) string {
	typ := reflect.TypeFor[T]()
	switch typ.Kind() {
	case reflect.Float32, reflect.Float64:
		return func(v T) string {
			return strconv.FormatFloat(reflect.ValueOf(v).Float(), 'g', -1, typ.Bits())
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return func(v T) string {
			return strconv.FormatInt(reflect.ValueOf(v).Int(), 10)
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return func(v T) string {
			return strconv.FormatUint(reflect.ValueOf(v).Uint(), 10)
		}
	default:
		return func(v T) string { return fmt.Sprint(v) }
	}
}
