package loader

import (
	"fmt"

	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/pkg/models"
)

// FromPayload validates p and copies it into a new matrix. A negative or
// overflowing extent, or an element count other than rows*columns, is reported as an
// apperrors.InputError naming field.
func FromPayload(field string, p models.MatrixPayload) (*matrix.Matrix[float64], error) {
	if p.Rows < 0 || p.Columns < 0 {
		return nil, apperrors.NewInputError("", apperrors.NewValidationError(field, "extents cannot be negative",
			fmt.Sprintf("%dx%d", p.Rows, p.Columns)))
	}
	n, ok := matrix.ElementCount(p.Rows, p.Columns)
	if !ok {
		return nil, apperrors.NewInputError("", apperrors.NewValidationError(field, "extents overflow the element count",
			fmt.Sprintf("%dx%d", p.Rows, p.Columns)))
	}
	if len(p.Elements) != n {
		return nil, apperrors.NewInputError("", apperrors.NewValidationError(field,
			fmt.Sprintf("expected %d elements for a %dx%d matrix", n, p.Rows, p.Columns),
			len(p.Elements)))
	}
	elements := make([]float64, len(p.Elements))
	copy(elements, p.Elements)
	return matrix.NewFrom(p.Rows, p.Columns, elements), nil
}

// ToPayload converts m to its wire form.
func ToPayload(m *matrix.Matrix[float64]) models.MatrixPayload {
	return models.MatrixPayload{Rows: m.Rows(), Columns: m.Columns(), Elements: m.Elements()}
}
