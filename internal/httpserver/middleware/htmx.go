package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const (
	htmxContextKey   contextKey = "htmx.info"
	localeContextKey contextKey = "locale"
)

// HTMXInfo captures request metadata from HX-* headers.
type HTMXInfo struct {
	IsHTMX         bool
	IsBoosted      bool
	CurrentURL     string
	Target         string
	HistoryRestore bool
}

// HTMX returns middleware that inspects HX-* headers and annotates the context.
func HTMX() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			info := HTMXInfo{
				IsHTMX:         strings.EqualFold(r.Header.Get("HX-Request"), "true"),
				IsBoosted:      strings.EqualFold(r.Header.Get("HX-Boosted"), "true"),
				CurrentURL:     r.Header.Get("HX-Current-URL"),
				Target:         r.Header.Get("HX-Target"),
				HistoryRestore: strings.EqualFold(r.Header.Get("HX-History-Restore-Request"), "true"),
			}

			ctx := context.WithValue(r.Context(), htmxContextKey, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HTMXInfoFromContext retrieves HTMX metadata; returns zero value if absent.
func HTMXInfoFromContext(ctx context.Context) HTMXInfo {
	val, _ := ctx.Value(htmxContextKey).(HTMXInfo)
	return val
}

// IsHTMXRequest returns true when the current request was initiated by htmx.
func IsHTMXRequest(ctx context.Context) bool {
	return HTMXInfoFromContext(ctx).IsHTMX
}
