package handlers

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/wbunit/web/internal/content"
	"github.com/wbunit/web/internal/httpserver/middleware"
	"github.com/wbunit/web/internal/i18n"
	"github.com/wbunit/web/internal/nav"
	"github.com/wbunit/web/internal/observability"
	"github.com/wbunit/web/internal/seo"
	"github.com/wbunit/web/internal/templates"
)

const (
	landingSlug    = "landing"
	stylesheetHref = "/assets/css/app.css"
)

// ContentSource returns localized page copy.
type ContentSource interface {
	Get(slug, lang string) (content.Page, error)
}

// Site carries deployment-specific settings surfaced to templates.
type Site struct {
	BaseURL       string
	Environment   string
	HTMXScriptURL string
}

// Dependencies collects what the page handlers need.
type Dependencies struct {
	Content ContentSource
	Bundle  *i18n.Bundle
	Site    Site
}

// Handlers exposes the HTML page handlers.
type Handlers struct {
	content ContentSource
	bundle  *i18n.Bundle
	site    Site
}

// New wires the handler set.
func New(deps Dependencies) *Handlers {
	return &Handlers{
		content: deps.Content,
		bundle:  deps.Bundle,
		site:    deps.Site,
	}
}

// BuildLandingData constructs the landing page view model for lang.
func (h *Handlers) BuildLandingData(lang string) (templates.LandingData, error) {
	page, err := h.content.Get(landingSlug, lang)
	if err != nil {
		return templates.LandingData{}, fmt.Errorf("load landing copy: %w", err)
	}

	siteName := h.bundle.T(lang, "site.name")
	meta := seo.Build(h.site.BaseURL, seo.PageInput{
		SiteName:    siteName,
		Title:       page.SEO.Title,
		Description: page.SEO.Description,
		Image:       page.SEO.OGImage,
		Path:        nav.Home,
		Lang:        lang,
		Indexable:   true,
	})
	meta.JSONLD = []string{
		seo.JSON(seo.WebSite(siteName, meta.Canonical, lang)),
		seo.JSON(seo.Organization(siteName, meta.Canonical, "")),
	}

	return templates.LandingData{
		Layout:          h.layout(lang, meta),
		Heading:         page.Title,
		DescriptionHTML: page.Body,
		CTA:             nav.CalculatorLink(page.CTALabel),
	}, nil
}

// Landing renders the landing page.
func (h *Handlers) Landing(w http.ResponseWriter, r *http.Request) {
	lang := middleware.Lang(r, h.bundle.Fallback())
	data, err := h.BuildLandingData(lang)
	if err != nil {
		observability.FromContext(r.Context()).Error("render landing", zap.String("lang", lang), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	templ.Handler(templates.Landing(data)).ServeHTTP(w, r)
}

// BuildNotFoundData constructs the 404 page view model for lang.
func (h *Handlers) BuildNotFoundData(lang, path string) templates.NotFoundData {
	title := h.bundle.T(lang, "notfound.title")
	meta := seo.Build(h.site.BaseURL, seo.PageInput{
		SiteName:    h.bundle.T(lang, "site.name"),
		Title:       title,
		Description: h.bundle.T(lang, "notfound.message"),
		Path:        path,
		Lang:        lang,
	})
	// Canonical of a missing page would point at nothing useful.
	meta.Canonical = ""
	meta.OG.URL = ""
	return templates.NotFoundData{
		Layout:  h.layout(lang, meta),
		Title:   title,
		Message: h.bundle.T(lang, "notfound.message"),
		Home:    nav.Link{Href: nav.Home, Label: h.bundle.T(lang, "notfound.back"), Boost: true},
	}
}

// NotFound renders the localized 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	lang := middleware.Lang(r, h.bundle.Fallback())
	if nav.IsCalculator(r.URL.Path) {
		observability.FromContext(r.Context()).Warn("calculator upstream not configured", zap.String("path", r.URL.Path))
	}
	// htmx does not swap 4xx responses; a boosted click would appear dead.
	if middleware.IsHTMXRequest(r.Context()) {
		w.Header().Set("HX-Redirect", r.URL.RequestURI())
	}
	data := h.BuildNotFoundData(lang, r.URL.Path)
	templ.Handler(templates.NotFound(data), templ.WithStatus(http.StatusNotFound)).ServeHTTP(w, r)
}

func (h *Handlers) layout(lang string, meta seo.Meta) templates.LayoutData {
	return templates.LayoutData{
		Lang:           lang,
		Meta:           meta,
		FooterText:     h.bundle.T(lang, "layout.footer"),
		StylesheetHref: stylesheetHref,
		HTMXScriptURL:  h.site.HTMXScriptURL,
		Environment:    h.site.Environment,
	}
}
