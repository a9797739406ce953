package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"
)

// Lifecycle holds the cancel functions of a run context. Cleanup must be
// called (typically via defer) once the run is over.
type Lifecycle struct {
	cancelTimeout context.CancelFunc
	stopSignals   context.CancelFunc
}

// SetupLifecycle derives the context of one run: it is canceled when the
// timeout expires or when SIGINT or SIGTERM is received, whichever happens
// first. A non-positive timeout disables the deadline.
//
// Parameters:
//   - ctx: The parent context.
//   - timeout: The maximum duration of the run.
//
// Returns:
//   - context.Context: The run context.
//   - *Lifecycle: The handle releasing the timer and the signal handler.
func SetupLifecycle(ctx context.Context, timeout time.Duration) (context.Context, *Lifecycle) {
	lc := &Lifecycle{}
	if timeout > 0 {
		ctx, lc.cancelTimeout = context.WithTimeout(ctx, timeout)
	}
	ctx, lc.stopSignals = signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, lc
}

// Cleanup stops listening for signals and releases the timer.
func (lc *Lifecycle) Cleanup() {
	if lc.stopSignals != nil {
		lc.stopSignals()
	}
	if lc.cancelTimeout != nil {
		lc.cancelTimeout()
	}
}
