package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/agbru/matnn/internal/loader"
	"github.com/agbru/matnn/internal/logging"
	"github.com/agbru/matnn/internal/matrix"
	"github.com/agbru/matnn/pkg/models"
)

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// handleAlgorithms returns the registered strategy names.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"algorithms": s.factory.List(),
	})
}

// handleMultiply computes A·B with the requested strategy.
//
// Status codes:
//   - 400: malformed body, inconsistent payload, unknown algorithm or bad min_size
//   - 413: body or matrices above the configured limits
//   - 422: operands whose shapes cannot be multiplied
//   - 504: the product did not start before the request timeout
func (s *Server) handleMultiply(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.MultiplyRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	a, ok := s.payloadMatrix(w, "a", req.A)
	if !ok {
		return
	}
	b, ok := s.payloadMatrix(w, "b", req.B)
	if !ok {
		return
	}
	if msg, ok := s.securityConfig.checkProduct(a.Rows(), b.Columns()); !ok {
		s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, msg)
		return
	}

	algo := req.Algorithm
	if algo == "" {
		algo = s.defaultAlgorithm()
	}
	mult, err := s.factory.Get(algo)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	opts := s.cfg.ToStrassenOptions()
	if req.MinSize != 0 {
		if req.MinSize < 2 {
			s.writeErrorResponse(w, http.StatusBadRequest, "min_size must be at least 2")
			return
		}
		opts.MinSize = req.MinSize
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	product, err := mult.Multiply(ctx, a, b, opts)
	duration := time.Since(start)
	if err != nil {
		s.writeErrorResponse(w, multiplyErrorStatus(err), err.Error())
		return
	}
	s.logger.Debug("product computed",
		logging.String("algo", mult.Name()),
		logging.Shape("a", a.Rows(), a.Columns()),
		logging.Shape("b", b.Rows(), b.Columns()),
		logging.Float64("ms", float64(duration.Microseconds())/1e3))

	s.writeJSONResponse(w, http.StatusOK, models.MultiplyResponse{
		Algorithm: mult.Name(),
		Result:    loader.ToPayload(product),
		Duration:  duration.String(),
	})
}

// handleTranspose returns Mᵀ.
func (s *Server) handleTranspose(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.TransposeRequest
	if !s.decodeJSON(w, r, &req) {
		return
	}
	m, ok := s.payloadMatrix(w, "matrix", req.Matrix)
	if !ok {
		return
	}
	s.writeJSONResponse(w, http.StatusOK, models.TransposeResponse{Result: loader.ToPayload(m.T())})
}

func (s *Server) defaultAlgorithm() string {
	if s.cfg.Algo != "" && s.cfg.Algo != "all" {
		return s.cfg.Algo
	}
	return DefaultAlgorithm
}

// multiplyErrorStatus maps a strategy error to an HTTP status.
func multiplyErrorStatus(err error) int {
	var mismatch *matrix.DimensionMismatchError
	switch {
	case errors.As(err, &mismatch):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// decodeJSON decodes the request body into dst, rejecting unknown fields
// and trailing data. On failure it writes the error response and returns
// false.
func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	err := dec.Decode(dst)
	if err == nil && dec.More() {
		err = errors.New("unexpected data after the JSON object")
	}
	if err == nil {
		return true
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		s.writeErrorResponse(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("Request body exceeds the limit of %d bytes", tooLarge.Limit))
		return false
	}
	s.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
	return false
}

// payloadMatrix converts a payload, enforcing the element limit. On
// failure it writes the error response and returns false.
func (s *Server) payloadMatrix(w http.ResponseWriter, field string, p models.MatrixPayload) (*matrix.Matrix[float64], bool) {
	if msg, ok := s.securityConfig.checkOperand(field, len(p.Elements)); !ok {
		s.writeErrorResponse(w, http.StatusRequestEntityTooLarge, msg)
		return nil, false
	}
	m, err := loader.FromPayload(field, p)
	if err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return nil, false
	}
	return m, true
}

// writeJSONResponse writes data as JSON with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", err)
	}
}

// writeErrorResponse writes a models.ErrorResponse.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, models.ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
