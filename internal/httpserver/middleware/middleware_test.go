package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"

	"github.com/wbunit/web/internal/i18n"
)

func newBundle(t *testing.T) *i18n.Bundle {
	t.Helper()
	b, err := i18n.LoadEmbedded("ru", []string{"ru", "en"})
	require.NoError(t, err)
	return b
}

func echoLang(w http.ResponseWriter, r *http.Request) {
	_, _ = io.WriteString(w, Lang(r, "none"))
}

func TestLocaleResolutionOrder(t *testing.T) {
	t.Parallel()

	h := Locale(newBundle(t))(http.HandlerFunc(echoLang))

	cases := []struct {
		name   string
		target string
		cookie string
		accept string
		want   string
	}{
		{name: "default", target: "/", want: "ru"},
		{name: "accept language", target: "/", accept: "en-US,en;q=0.9", want: "en"},
		{name: "cookie beats header", target: "/", cookie: "ru", accept: "en", want: "ru"},
		{name: "query beats cookie", target: "/?hl=EN", cookie: "ru", want: "en"},
		{name: "unsupported query ignored", target: "/?hl=de", accept: "en", want: "en"},
		{name: "unsupported cookie ignored", target: "/", cookie: "xx", want: "ru"},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tc.target, nil)
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "hl", Value: tc.cookie})
			}
			if tc.accept != "" {
				req.Header.Set("Accept-Language", tc.accept)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			require.Equal(t, tc.want, rec.Body.String())
			require.Equal(t, tc.want, rec.Header().Get("Content-Language"))
		})
	}
}

func TestLocaleQueryPersistsCookie(t *testing.T) {
	t.Parallel()

	h := Locale(newBundle(t))(http.HandlerFunc(echoLang))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/?hl=en", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Equal(t, "hl", cookies[0].Name)
	require.Equal(t, "en", cookies[0].Value)
}

func TestLangWithoutMiddlewareUsesFallback(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Equal(t, "ru", Lang(req, "ru"))
}

func TestHTMXAnnotatesContext(t *testing.T) {
	t.Parallel()

	var got HTMXInfo
	h := HTMX()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = HTMXInfoFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/calculator", nil)
	req.Header.Set("HX-Request", "true")
	req.Header.Set("HX-Boosted", "TRUE")
	req.Header.Set("HX-Current-URL", "http://localhost/")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.True(t, got.IsHTMX)
	require.True(t, got.IsBoosted)
	require.Equal(t, "http://localhost/", got.CurrentURL)
	require.False(t, IsHTMXRequest(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestVaryLocaleAndSecurityHeaders(t *testing.T) {
	t.Parallel()

	h := SecurityHeaders(VaryLocale(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, []string{"Accept-Language", "Cookie"}, rec.Header().Values("Vary"))
	require.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	require.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
}

func TestAssetsWithCacheServesETagAndNotModified(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"css/app.css": {Data: []byte("body{margin:0}")},
	}
	h := http.StripPrefix("/assets", AssetsWithCache(fsys))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/app.css", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "body{margin:0}", rec.Body.String())
	etag := rec.Header().Get("ETag")
	require.NotEmpty(t, etag)
	require.Contains(t, rec.Header().Get("Cache-Control"), "max-age=604800")

	req := httptest.NewRequest(http.MethodGet, "/assets/css/app.css", nil)
	req.Header.Set("If-None-Match", etag)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusNotModified, rec.Code)
	require.Empty(t, rec.Body.String())
}

func TestAssetsWithCacheHidesDirectories(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"css/app.css": {Data: []byte("x")},
	}
	h := http.StripPrefix("/assets", AssetsWithCache(fsys))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/css/", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/assets/missing.js", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}
