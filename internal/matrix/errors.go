package matrix

import (
	"errors"
	"fmt"
)

// Shape is a (rows, columns) pair used in error reports.
type Shape struct {
	Rows    int
	Columns int
}

// String renders the shape as RxC.
func (s Shape) String() string {
	return fmt.Sprintf("%dx%d", s.Rows, s.Columns)
}

// DimensionMismatchError reports operands whose shapes are incompatible for
// an elementwise operation or a product. It is raised with panic: a caller
// mixing shapes has a bug, not a runtime condition to handle.
type DimensionMismatchError struct {
	// Op names the operation that rejected the operands.
	Op    string
	Left  Shape
	Right Shape
}

// Error returns the message naming both shapes.
func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf("matrix: dimension mismatch in %s, given %s and %s", e.Op, e.Left, e.Right)
}

// IndexOutOfRangeError reports an element access outside the matrix bounds.
// It is raised with panic.
type IndexOutOfRangeError struct {
	Row    int
	Column int
	Shape  Shape
}

// Error returns the message naming the offending index and the bounds.
func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("matrix: index (%d, %d) out of range for %s matrix", e.Row, e.Column, e.Shape)
}

// ShapeError reports a malformed construction: negative extents, an element
// buffer whose length disagrees with rows*columns, or an invalid row range.
// It is raised with panic.
type ShapeError struct {
	Message string
}

// Error returns the message.
func (e *ShapeError) Error() string {
	return "matrix: " + e.Message
}

// ParseError is returned by the text codec when a token cannot be read as
// the element type. It is the only recoverable error of the package.
type ParseError struct {
	// Row and Column locate the offending cell (zero based).
	Row    int
	Column int
	// Token is the raw text that failed to parse.
	Token string
	// Err is the underlying strconv failure, if any.
	Err error
}

// Error returns a message identifying the token and its position.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("could not parse matrix: row %d, column %d: token %q: %v", e.Row, e.Column, e.Token, e.Err)
	}
	return fmt.Sprintf("could not parse matrix: row %d, column %d: token %q", e.Row, e.Column, e.Token)
}

// Unwrap returns the underlying strconv error.
func (e *ParseError) Unwrap() error { return e.Err }

// errMissingToken is the cause recorded when a row is shorter than the first.
var errMissingToken = errors.New("missing token")

// Recover converts a panic raised by this package into an error. It is meant
// for service boundaries that must not crash on malformed input:
//
//	defer matrix.Recover(&err)
//
// Panics of any other type are re-raised.
func Recover(errp *error) {
	r := recover()
	if r == nil {
		return
	}
	if err, ok := AsContractError(r); ok {
		*errp = err
		return
	}
	panic(r)
}

// AsContractError reports whether a recovered panic value is one of the
// contract violations raised by this package, returning it as an error.
func AsContractError(r any) (error, bool) {
	switch e := r.(type) {
	case *DimensionMismatchError:
		return e, true
	case *IndexOutOfRangeError:
		return e, true
	case *ShapeError:
		return e, true
	}
	return nil, false
}
