package i18n

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
)

//go:embed locales/*.json
var embedded embed.FS

// Bundle holds flat key/value catalogs per language.
type Bundle struct {
	dict      map[string]map[string]string
	fallback  string
	supported []string
	matcher   language.Matcher
}

// LoadEmbedded loads the catalogs compiled into the binary.
func LoadEmbedded(fallback string, supported []string) (*Bundle, error) {
	sub, err := fs.Sub(embedded, "locales")
	if err != nil {
		return nil, err
	}
	return Load(sub, fallback, supported)
}

// Load reads <lang>.json for every supported language from fsys. Only the
// fallback catalog is mandatory.
func Load(fsys fs.FS, fallback string, supported []string) (*Bundle, error) {
	fallback = strings.ToLower(strings.TrimSpace(fallback))
	if len(supported) == 0 {
		supported = []string{"ru", "en"}
	}
	b := &Bundle{
		dict:     map[string]map[string]string{},
		fallback: fallback,
	}
	seen := map[string]struct{}{}
	for _, l := range supported {
		l = strings.ToLower(strings.TrimSpace(l))
		if _, dup := seen[l]; dup || l == "" {
			continue
		}
		seen[l] = struct{}{}
		b.supported = append(b.supported, l)

		raw, err := fs.ReadFile(fsys, path.Join(".", l+".json"))
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) && l != fallback {
				continue
			}
			return nil, fmt.Errorf("load locale %s: %w", l, err)
		}
		var m map[string]string
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("unmarshal %s: %w", l, err)
		}
		b.dict[l] = m
	}
	if _, ok := b.dict[fallback]; !ok {
		return nil, fmt.Errorf("fallback locale %s not loaded", fallback)
	}

	// The matcher returns the first tag when nothing matches, so the
	// fallback goes first.
	tags := []language.Tag{language.Make(fallback)}
	for _, l := range b.supported {
		if l != fallback {
			tags = append(tags, language.Make(l))
		}
	}
	b.matcher = language.NewMatcher(tags)
	return b, nil
}

// Supported returns the configured languages in sorted order.
func (b *Bundle) Supported() []string {
	out := make([]string, len(b.supported))
	copy(out, b.supported)
	sort.Strings(out)
	return out
}

// Fallback returns the configured fallback language.
func (b *Bundle) Fallback() string { return b.fallback }

// IsSupported reports whether lang is one of the configured languages.
func (b *Bundle) IsSupported(lang string) bool {
	lang = strings.ToLower(strings.TrimSpace(lang))
	for _, l := range b.supported {
		if l == lang {
			return true
		}
	}
	return false
}

// T returns translation for key in lang, falling back to the default
// language and finally to the key itself.
func (b *Bundle) T(lang, key string) string {
	if m, ok := b.dict[lang]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	if m, ok := b.dict[b.fallback]; ok {
		if v, ok := m[key]; ok {
			return v
		}
	}
	return key
}

// Resolve chooses the best supported language from an Accept-Language header.
func (b *Bundle) Resolve(acceptLang string) string {
	prefs, _, err := language.ParseAcceptLanguage(acceptLang)
	if err != nil || len(prefs) == 0 {
		return b.fallback
	}
	_, index, confidence := b.matcher.Match(prefs...)
	if confidence == language.No {
		return b.fallback
	}
	return b.matcherLang(index)
}

func (b *Bundle) matcherLang(index int) string {
	if index == 0 {
		return b.fallback
	}
	i := 0
	for _, l := range b.supported {
		if l == b.fallback {
			continue
		}
		i++
		if i == index {
			return l
		}
	}
	return b.fallback
}
