package seo

import "strings"

// OpenGraph carries og:* properties.
type OpenGraph struct {
	Title       string
	Description string
	Image       string
	Type        string
	URL         string
	SiteName    string
	Locale      string
}

// Twitter carries twitter:* card properties.
type Twitter struct {
	Card  string
	Image string
}

// Meta is the head metadata of a rendered page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Robots      string
	OG          OpenGraph
	Twitter     Twitter
	JSONLD      []string
}

// PageInput describes a page for Build.
type PageInput struct {
	SiteName    string
	Title       string
	Description string
	Image       string
	Path        string
	Lang        string
	Indexable   bool
}

// Build derives full page metadata. Canonical URLs are only emitted when
// baseURL is set, since relative canonicals are ignored by crawlers.
func Build(baseURL string, in PageInput) Meta {
	baseURL = strings.TrimRight(baseURL, "/")
	canonical := ""
	if baseURL != "" {
		canonical = baseURL + in.Path
	}
	robots := "index,follow"
	if !in.Indexable {
		robots = "noindex"
	}
	card := "summary"
	if in.Image != "" {
		card = "summary_large_image"
	}
	return Meta{
		Title:       in.Title,
		Description: in.Description,
		Canonical:   canonical,
		Robots:      robots,
		OG: OpenGraph{
			Title:       in.Title,
			Description: in.Description,
			Image:       in.Image,
			Type:        "website",
			URL:         canonical,
			SiteName:    in.SiteName,
			Locale:      ogLocale(in.Lang),
		},
		Twitter: Twitter{Card: card, Image: in.Image},
	}
}

func ogLocale(lang string) string {
	switch lang {
	case "ru":
		return "ru_RU"
	case "en":
		return "en_US"
	default:
		return lang
	}
}
