package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/agbru/matnn/internal/logging"
)

// loggingMiddleware logs the method, path, remote address and duration of
// each request.
func (s *Server) loggingMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next(w, r)
		s.logger.Info("request completed",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.String("remote", r.RemoteAddr),
			logging.Duration("duration", time.Since(start)))
	}
}

// recoverMiddleware turns a panic escaping a handler into a 500 response.
// http.ErrAbortHandler is re-raised so that net/http can abort the
// connection.
func (s *Server) recoverMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			s.logger.Error("handler panicked", fmt.Errorf("%v", rec), logging.String("path", r.URL.Path))
			s.writeErrorResponse(w, http.StatusInternalServerError, "Internal error")
		}()
		next(w, r)
	}
}
