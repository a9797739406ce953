package server

import (
	"fmt"
	"net/http"
	"slices"
	"strings"

	"github.com/agbru/matnn/internal/matrix"
)

// SecurityConfig holds the security headers and resource limits applied to
// every request.
type SecurityConfig struct {
	// EnableCORS enables Cross-Origin Resource Sharing headers.
	EnableCORS bool
	// AllowedOrigins lists the origins echoed back to browsers; "*" allows
	// any origin.
	AllowedOrigins []string
	AllowedMethods []string
	// MaxBodyBytes caps the size of a request body.
	MaxBodyBytes int64
	// MaxElements caps the element count of each operand and of the product.
	MaxElements int
}

// DefaultSecurityConfig returns the default security configuration: 32 MiB
// bodies and matrices of at most 1<<20 elements (1024×1024).
func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		EnableCORS:     true,
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		MaxBodyBytes:   32 << 20,
		MaxElements:    1 << 20,
	}
}

// securityHeaders are set on every response. The API only serves JSON, so
// nothing may be framed or loaded from it.
var securityHeaders = [][2]string{
	{"X-Content-Type-Options", "nosniff"},
	{"X-Frame-Options", "DENY"},
	{"Referrer-Policy", "strict-origin-when-cross-origin"},
	{"Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'"},
}

// checkOperand returns an error message when the matrix named field holds
// more than MaxElements elements.
func (c SecurityConfig) checkOperand(field string, elements int) (string, bool) {
	if elements <= c.MaxElements {
		return "", true
	}
	return fmt.Sprintf("Matrix '%s' has %d elements, above the limit of %d", field, elements, c.MaxElements), false
}

// checkProduct returns an error message when a rows×columns product would
// exceed MaxElements.
func (c SecurityConfig) checkProduct(rows, columns int) (string, bool) {
	if n, ok := matrix.ElementCount(rows, columns); ok && n <= c.MaxElements {
		return "", true
	}
	return fmt.Sprintf("Product of %dx%d elements exceeds the limit of %d", rows, columns, c.MaxElements), false
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin,
// or "" when it is not allowed.
func (c SecurityConfig) allowedOrigin(origin string) string {
	if slices.Contains(c.AllowedOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(c.AllowedOrigins, origin) {
		return origin
	}
	return ""
}

// SecurityMiddleware sets the security headers, answers CORS preflight
// requests with 204 and caps the request body at config.MaxBodyBytes.
func SecurityMiddleware(config SecurityConfig, next http.HandlerFunc) http.HandlerFunc {
	methods := strings.Join(config.AllowedMethods, ", ")
	return func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range securityHeaders {
			h.Set(kv[0], kv[1])
		}

		if config.EnableCORS {
			if origin := config.allowedOrigin(r.Header.Get("Origin")); origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", "Content-Type, Accept")
				h.Set("Access-Control-Max-Age", "86400")
			}
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
		}

		if config.MaxBodyBytes > 0 && r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, config.MaxBodyBytes)
		}
		next(w, r)
	}
}
