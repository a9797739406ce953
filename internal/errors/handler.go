package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the terminal escape codes used in status lines.
// cli implements it; the interface keeps this package free of that import.
type ColorProvider interface {
	Yellow() string
	Red() string
	Reset() string
}

// DefaultColorProvider emits no escape codes.
type DefaultColorProvider struct{}

func (DefaultColorProvider) Yellow() string { return "" }
func (DefaultColorProvider) Red() string    { return "" }
func (DefaultColorProvider) Reset() string  { return "" }

// ExitCode maps err to the process exit status, without printing anything.
func ExitCode(err error) int {
	var inputErr InputError
	var configErr ConfigError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	case errors.As(err, &inputErr):
		return ExitErrorInput
	case errors.As(err, &configErr):
		return ExitErrorConfig
	}
	return ExitErrorGeneric
}

// HandleRunError prints a one-line status for a failed run and returns its
// exit code. A positive duration is appended to timeout and cancellation
// messages. colors may be nil.
func HandleRunError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	code := ExitCode(err)
	if code == ExitSuccess {
		return code
	}
	if colors == nil {
		colors = DefaultColorProvider{}
	}

	after := ""
	if duration > 0 && IsContextError(err) {
		after = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "Status: Failure (Timeout). The execution limit was reached%s.\n", after)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s.%s\n", colors.Yellow(), after, colors.Reset())
	case ExitErrorInput:
		fmt.Fprintf(out, "%sStatus: Invalid input.%s %v\n", colors.Red(), colors.Reset(), err)
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sStatus: Configuration error.%s %v\n", colors.Red(), colors.Reset(), err)
	default:
		fmt.Fprintf(out, "Status: Failure. An unexpected error occurred: %v\n", err)
	}
	return code
}
