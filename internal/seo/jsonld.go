package seo

import "encoding/json"

// JSON marshals v to a compact JSON string. It returns an empty string on error.
// encoding/json escapes <, > and & so the result is safe inside a script tag.
func JSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(b)
}

// Organization returns a minimal Organization schema.
func Organization(name, url, logoURL string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "Organization",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if logoURL != "" {
		m["logo"] = logoURL
	}
	return m
}

// WebSite returns a minimal WebSite schema.
func WebSite(name, url, lang string) map[string]any {
	m := map[string]any{
		"@context": "https://schema.org",
		"@type":    "WebSite",
		"name":     name,
	}
	if url != "" {
		m["url"] = url
	}
	if lang != "" {
		m["inLanguage"] = lang
	}
	return m
}
