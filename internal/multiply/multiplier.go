// Package multiply exposes the matrix product strategies behind a single
// Multiplier interface. Each strategy is a pure core wrapped by a decorator
// that adds cross-cutting concerns (metrics, tracing, debug logging) and
// converts contract panics raised by the matrix package into errors, so that
// service boundaries never crash on malformed operands.
package multiply

//go:generate mockgen -source=multiplier.go -destination=mocks/mock_multiplier.go -package=mocks

import (
	"context"
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	apperrors "github.com/agbru/matnn/internal/errors"
	"github.com/agbru/matnn/internal/matrix"
)

// Mat is the element type served by the strategies.
type Mat = matrix.Matrix[float64]

// ErrNilOperand is returned when either operand is missing.
var ErrNilOperand = errors.New("multiply: nil operand")

var (
	multiplicationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "matnn_multiplications_total",
			Help: "The total number of matrix products processed",
		},
		[]string{"algorithm", "status"},
	)
	multiplicationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "matnn_multiplication_duration_seconds",
			Help:    "The duration of matrix products in seconds",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
		},
		[]string{"algorithm"},
	)
)

// Multiplier is the public interface of a product strategy. It is the
// abstraction used by the orchestration layer and the HTTP server.
type Multiplier interface {
	// Multiply computes a·b. It is safe for concurrent use and checks the
	// context before starting; a product already running is not interrupted.
	//
	// Parameters:
	//   - ctx: The context for cancellation and tracing.
	//   - a, b: The operands; a.Columns() must equal b.Rows().
	//   - opts: Tuning for the Strassen engine (ignored by naive).
	//
	// Returns:
	//   - *matrix.Matrix[float64]: The product.
	//   - error: A ComputeError for incompatible operands, or the context error.
	Multiply(ctx context.Context, a, b *matrix.Matrix[float64], opts matrix.StrassenOptions) (*matrix.Matrix[float64], error)

	// Name returns the display name of the strategy (e.g. "Strassen").
	Name() string
}

// Instrumented decorates a core strategy with metrics, tracing, logging and
// panic-to-error conversion.
type Instrumented struct {
	core coreMultiplier
}

// NewMultiplier wraps core in an Instrumented decorator. It panics if core is
// nil.
func NewMultiplier(core coreMultiplier) Multiplier {
	if core == nil {
		panic("multiply: the core strategy cannot be nil")
	}
	return &Instrumented{core: core}
}

// Name delegates to the wrapped core.
func (m *Instrumented) Name() string {
	return m.core.Name()
}

// Multiply runs the wrapped core inside a span, records the outcome in the
// Prometheus collectors and logs it at debug level.
func (m *Instrumented) Multiply(ctx context.Context, a, b *Mat, opts matrix.StrassenOptions) (result *Mat, err error) {
	name := m.core.Name()
	_, span := otel.Tracer("matnn/multiply").Start(ctx, "Multiply")
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		multiplicationsTotal.WithLabelValues(name, status).Inc()
		multiplicationDuration.WithLabelValues(name).Observe(duration)

		log.Debug().
			Str("algo", name).
			Float64("duration", duration).
			Str("status", status).
			Msg("multiplication completed")
	}()

	if a == nil || b == nil {
		return nil, ErrNilOperand
	}
	span.SetAttributes(
		attribute.String("algorithm", name),
		attribute.String("shape.left", a.Shape().String()),
		attribute.String("shape.right", b.Shape().String()),
	)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.run(a, b, opts)
}

func (m *Instrumented) run(a, b *Mat, opts matrix.StrassenOptions) (result *Mat, err error) {
	defer func() {
		if err != nil {
			err = apperrors.ComputeError{Op: "multiply/" + m.core.Name(), Cause: err}
		}
	}()
	defer matrix.Recover(&err)
	return m.core.MultiplyCore(a, b, opts), nil
}
