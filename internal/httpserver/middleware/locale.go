package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/wbunit/web/internal/i18n"
)

const localeCookieName = "hl"

// Locale resolves the preferred language from ?hl=, the hl cookie, or
// Accept-Language, in that order. An explicit ?hl= is persisted in the cookie.
func Locale(bundle *i18n.Bundle) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := ""
			if q := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("hl"))); q != "" && bundle.IsSupported(q) {
				lang = q
				http.SetCookie(w, &http.Cookie{
					Name:     localeCookieName,
					Value:    q,
					Path:     "/",
					MaxAge:   365 * 24 * 60 * 60,
					SameSite: http.SameSiteLaxMode,
				})
			} else if c, err := r.Cookie(localeCookieName); err == nil && bundle.IsSupported(c.Value) {
				lang = strings.ToLower(c.Value)
			} else {
				lang = bundle.Resolve(r.Header.Get("Accept-Language"))
			}

			w.Header().Set("Content-Language", lang)
			ctx := context.WithValue(r.Context(), localeContextKey, lang)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Lang returns the resolved language for the request, or fallback when the
// Locale middleware did not run.
func Lang(r *http.Request, fallback string) string {
	if v, ok := r.Context().Value(localeContextKey).(string); ok && v != "" {
		return v
	}
	return fallback
}

// VaryLocale sets Vary header for Accept-Language on dynamic responses.
func VaryLocale(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Accept-Language")
		w.Header().Add("Vary", "Cookie")
		next.ServeHTTP(w, r)
	})
}
