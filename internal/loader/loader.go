// Package loader moves matrices in and out of the process: text grid files
// and the JSON payloads of pkg/models.
package loader

import (
	"os"

	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
)

// MatrixFromFile reads the text grid stored at path. Open, read and parse
// failures are all reported as an apperrors.InputError carrying the path;
// parse failures keep their *matrix.ParseError in the chain.
func MatrixFromFile[T matrix.Real](path string) (*matrix.Matrix[T], error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewInputError(path, err)
	}
	defer f.Close()

	m, err := matrix.ParseReader[T](f)
	if err != nil {
		return nil, apperrors.NewInputError(path, err)
	}
	return m, nil
}

// MatrixToFile writes m to path as a text grid, creating or truncating the
// file.
func MatrixToFile[T any](path string, m *matrix.Matrix[T]) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.WrapError(err, "creating %s", path)
	}
	if err := matrix.WriteText(f, m); err != nil {
		f.Close()
		return apperrors.WrapError(err, "writing %s", path)
	}
	return f.Close()
}
