package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

var securityHeaders = chi.Chain(
	chimw.SetHeader("X-Content-Type-Options", "nosniff"),
	chimw.SetHeader("X-Frame-Options", "DENY"),
	chimw.SetHeader("Referrer-Policy", "strict-origin-when-cross-origin"),
)

// SecurityHeaders sets conservative browser hardening headers.
func SecurityHeaders(next http.Handler) http.Handler {
	return securityHeaders.Handler(next)
}
