package templates

import (
	"github.com/wbunit/web/internal/nav"
	"github.com/wbunit/web/internal/seo"
)

// LayoutData is the payload shared by every full page.
type LayoutData struct {
	Lang           string
	Meta           seo.Meta
	FooterText     string
	StylesheetHref string
	HTMXScriptURL  string
	Environment    string
}

// LandingData is the payload of the landing page body.
type LandingData struct {
	Layout  LayoutData
	Heading string
	// DescriptionHTML is sanitized markup rendered from the landing copy.
	DescriptionHTML string
	CTA             nav.Link
}

// NotFoundData is the payload of the 404 page.
type NotFoundData struct {
	Layout  LayoutData
	Title   string
	Message string
	Home    nav.Link
}

func jsonLDScript(doc string) string {
	return `<script type="application/ld+json">` + doc + `</script>`
}

func showEnvironmentBadge(env string) bool {
	return env != "" && env != "prod"
}
