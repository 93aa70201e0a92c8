package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/wbunit/web/internal/content"
	"github.com/wbunit/web/internal/handlers"
	"github.com/wbunit/web/internal/i18n"
	"github.com/wbunit/web/internal/nav"
	"github.com/wbunit/web/internal/templates"
	"github.com/wbunit/web/internal/testutil"
)

func newHandlers(t *testing.T, site handlers.Site) *handlers.Handlers {
	t.Helper()

	bundle, err := i18n.LoadEmbedded("ru", []string{"ru", "en"})
	require.NoError(t, err)
	return handlers.New(handlers.Dependencies{
		Content: content.NewEmbeddedStore(content.WithFallbackLangs("ru", "en")),
		Bundle:  bundle,
		Site:    site,
	})
}

func TestBuildLandingData(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, handlers.Site{BaseURL: "https://unit.example.com/", Environment: "prod"})

	data, err := h.BuildLandingData("ru")
	require.NoError(t, err)
	require.Equal(t, "Юнит-калькулятор Wildberries", data.Heading)
	require.Contains(t, data.DescriptionHTML, "Рассчитайте юнит-экономику ваших товаров на маркетплейсе Wildberries быстро и удобно.")
	require.Equal(t, nav.Link{Href: nav.Calculator, Label: "Начать расчёт", Boost: true}, data.CTA)
	require.Equal(t, "https://unit.example.com/", data.Layout.Meta.Canonical)
	require.Equal(t, "index,follow", data.Layout.Meta.Robots)
	require.Len(t, data.Layout.Meta.JSONLD, 2)
	require.Equal(t, "/assets/css/app.css", data.Layout.StylesheetHref)

	en, err := h.BuildLandingData("en")
	require.NoError(t, err)
	require.Equal(t, "Wildberries Unit Calculator", en.Heading)
	require.Equal(t, "Start calculating", en.CTA.Label)
	require.Equal(t, nav.Calculator, en.CTA.Href)
}

func TestLandingViewRendersSingleCalculatorLink(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, handlers.Site{})
	data, err := h.BuildLandingData("ru")
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, templates.Landing(data).Render(context.Background(), &buf))

	doc := testutil.ParseHTML(t, buf.Bytes())
	require.Equal(t, "Юнит-калькулятор Wildberries", strings.TrimSpace(doc.Find("h1").Text()))
	require.Equal(t, 1, doc.Find("a").Length())
	require.Equal(t, "/calculator", doc.Find("a").AttrOr("href", ""))
}

func TestBuildNotFoundData(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, handlers.Site{BaseURL: "https://unit.example.com"})
	data := h.BuildNotFoundData("en", "/nope")

	require.Equal(t, "Page not found", data.Title)
	require.Equal(t, "noindex", data.Layout.Meta.Robots)
	require.Empty(t, data.Layout.Meta.Canonical)
	require.Empty(t, data.Layout.Meta.OG.URL)
	require.Equal(t, nav.Home, data.Home.Href)
	require.Equal(t, "Back to home", data.Home.Label)
}

func TestNotFoundWritesStatus(t *testing.T) {
	t.Parallel()

	h := newHandlers(t, handlers.Site{})
	rec := httptest.NewRecorder()
	h.NotFound(rec, httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, http.StatusNotFound, rec.Code)
	doc := testutil.ParseHTML(t, rec.Body.Bytes())
	require.Equal(t, "Страница не найдена", strings.TrimSpace(doc.Find("h1").Text()))
}

func TestHealth(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	rec := httptest.NewRecorder()
	handlers.Health(func() time.Time { return fixed })(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
	var payload map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Equal(t, map[string]string{"status": "healthy", "timestamp": "2026-01-02T03:04:05Z"}, payload)
}

func TestHealthz(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	handlers.Healthz(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, "ok", rec.Body.String())
}
