package httpserver

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/wbunit/web/internal/config"
	"github.com/wbunit/web/internal/content"
	"github.com/wbunit/web/internal/handlers"
	custommw "github.com/wbunit/web/internal/httpserver/middleware"
	"github.com/wbunit/web/internal/i18n"
	"github.com/wbunit/web/internal/nav"
	"github.com/wbunit/web/internal/observability"
	"github.com/wbunit/web/public"
)

// ContentSource returns localized page copy.
type ContentSource = handlers.ContentSource

// Dependencies collects collaborators the server can be given. Zero values
// are replaced with the embedded defaults.
type Dependencies struct {
	Logger  *zap.Logger
	Content ContentSource
	Bundle  *i18n.Bundle
	Now     func() time.Time
}

// New constructs the HTTP server with the middleware stack and embedded assets.
func New(cfg config.Config, deps Dependencies) (*http.Server, error) {
	router, err := NewRouter(cfg, deps)
	if err != nil {
		return nil, err
	}

	var handler http.Handler = router
	if cfg.Server.EnableH2C {
		handler = h2c.NewHandler(router, &http2.Server{IdleTimeout: cfg.Server.IdleTimeout})
	}

	return &http.Server{
		Addr:              cfg.ListenAddress(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.ReadTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	}, nil
}

// NewRouter builds the chi router serving the landing site.
func NewRouter(cfg config.Config, deps Dependencies) (chi.Router, error) {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	bundle := deps.Bundle
	if bundle == nil {
		b, err := i18n.LoadEmbedded(cfg.Site.DefaultLocale, []string{"ru", "en"})
		if err != nil {
			return nil, fmt.Errorf("load i18n: %w", err)
		}
		bundle = b
	}

	source := deps.Content
	if source == nil {
		source = content.NewEmbeddedStore(
			content.WithCacheTTL(cfg.Site.ContentCacheTTL),
			content.WithFallbackLangs(bundle.Fallback(), "en"),
		)
	}

	static, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}

	pages := handlers.New(handlers.Dependencies{
		Content: source,
		Bundle:  bundle,
		Site: handlers.Site{
			BaseURL:       cfg.Site.BaseURL,
			Environment:   cfg.Site.Environment,
			HTMXScriptURL: cfg.Site.HTMXScriptURL,
		},
	})

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	// RealIP trusts X-Forwarded-For; deploy only behind a proxy that sets it.
	router.Use(chimw.RealIP)
	router.Use(observability.Trace(cfg.Site.TraceProjectID))
	router.Use(observability.InjectLogger(logger))
	router.Use(observability.RequestLogger())
	router.Use(observability.Recovery(logger))
	router.Use(chimw.Compress(5))

	router.Get("/healthz", handlers.Healthz)
	router.Get("/health", handlers.Health(deps.Now))
	router.Handle("/assets/*", http.StripPrefix("/assets", custommw.AssetsWithCache(static)))

	if cfg.Site.CalculatorUpstream != "" {
		proxy, err := newCalculatorProxy(cfg.Site.CalculatorUpstream)
		if err != nil {
			return nil, err
		}
		router.Handle(nav.Calculator, proxy)
		router.Handle(nav.Calculator+"/*", proxy)
	}

	router.Group(func(r chi.Router) {
		r.Use(chimw.Timeout(cfg.Server.HandlerTimeout))
		r.Use(custommw.HTMX())
		r.Use(custommw.Locale(bundle))
		r.Use(custommw.VaryLocale)
		r.Use(custommw.SecurityHeaders)

		r.Get(nav.Home, pages.Landing)
		r.NotFound(pages.NotFound)
	})

	return router, nil
}
