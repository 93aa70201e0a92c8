package content

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"gopkg.in/yaml.v3"
)

//go:embed pages
var embedded embed.FS

// ErrNotFound is returned when no localized document exists for a slug.
var ErrNotFound = errors.New("content: not found")

const defaultCacheTTL = 5 * time.Minute

// Page is a localized document rendered from markdown with YAML front matter.
type Page struct {
	Slug     string
	Lang     string
	Title    string
	CTALabel string
	// Body is the sanitized HTML rendering of the markdown body.
	Body string
	// Text is the markdown body with surrounding whitespace removed.
	Text string
	SEO  SEO
}

// SEO holds optional metadata overrides for a page.
type SEO struct {
	Title       string
	Description string
	OGImage     string
}

type frontMatter struct {
	Title    string `yaml:"title"`
	CTALabel string `yaml:"cta_label"`
	SEO      struct {
		Title       string `yaml:"title"`
		Description string `yaml:"description"`
		OGImage     string `yaml:"og_image"`
	} `yaml:"seo"`
}

type cacheEntry struct {
	page    Page
	expires time.Time
}

// Store loads pages from <slug>/<lang>.md files and caches rendered results.
type Store struct {
	fsys     fs.FS
	fallback []string
	ttl      time.Duration
	markdown goldmark.Markdown
	policy   *bluemonday.Policy
	now      func() time.Time

	mu    sync.RWMutex
	cache map[string]cacheEntry
}

// Option customises a Store.
type Option func(*Store)

// WithCacheTTL overrides how long rendered pages are kept in memory.
func WithCacheTTL(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.ttl = d
		}
	}
}

// WithFallbackLangs sets the languages tried after the requested one.
func WithFallbackLangs(langs ...string) Option {
	return func(s *Store) {
		s.fallback = langs
	}
}

func withClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore builds a store over fsys.
func NewStore(fsys fs.FS, opts ...Option) *Store {
	s := &Store{
		fsys:     fsys,
		fallback: []string{"ru", "en"},
		ttl:      defaultCacheTTL,
		markdown: goldmark.New(),
		policy:   newContentPolicy(),
		now:      time.Now,
		cache:    map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewEmbeddedStore builds a store over the documents compiled into the binary.
func NewEmbeddedStore(opts ...Option) *Store {
	sub, err := fs.Sub(embedded, "pages")
	if err != nil {
		panic(fmt.Sprintf("content: embedded pages: %v", err))
	}
	return NewStore(sub, opts...)
}

// Get returns the page for slug in lang, trying the fallback languages when
// the requested translation does not exist.
func (s *Store) Get(slug, lang string) (Page, error) {
	slug = sanitizeSlug(slug)
	if slug == "" {
		return Page{}, ErrNotFound
	}
	lang = strings.ToLower(strings.TrimSpace(lang))

	key := slug + "|" + lang
	if page, ok := s.cached(key); ok {
		return page, nil
	}

	priority := append([]string{lang}, s.fallback...)
	for _, candidate := range priority {
		if candidate == "" {
			continue
		}
		page, err := s.read(slug, candidate)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return Page{}, err
		}
		s.store(key, page)
		return page, nil
	}
	return Page{}, ErrNotFound
}

func (s *Store) read(slug, lang string) (Page, error) {
	file := path.Join(slug, lang+".md")
	data, err := fs.ReadFile(s.fsys, file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Page{}, ErrNotFound
		}
		return Page{}, fmt.Errorf("content: read %s: %w", file, err)
	}

	fm, body := splitFrontMatter(string(data))
	var front frontMatter
	if strings.TrimSpace(fm) != "" {
		if err := yaml.Unmarshal([]byte(fm), &front); err != nil {
			return Page{}, fmt.Errorf("content: parse front matter %s: %w", file, err)
		}
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert([]byte(body), &buf); err != nil {
		return Page{}, fmt.Errorf("content: render %s: %w", file, err)
	}

	page := Page{
		Slug:     slug,
		Lang:     lang,
		Title:    strings.TrimSpace(front.Title),
		CTALabel: strings.TrimSpace(front.CTALabel),
		Body:     strings.TrimSpace(s.policy.Sanitize(buf.String())),
		Text:     strings.TrimSpace(body),
		SEO: SEO{
			Title:       strings.TrimSpace(front.SEO.Title),
			Description: strings.TrimSpace(front.SEO.Description),
			OGImage:     strings.TrimSpace(front.SEO.OGImage),
		},
	}
	if page.Title == "" {
		page.Title = prettifySlug(slug)
	}
	if page.SEO.Title == "" {
		page.SEO.Title = page.Title
	}
	return page, nil
}

func (s *Store) cached(key string) (Page, bool) {
	s.mu.RLock()
	entry, ok := s.cache[key]
	s.mu.RUnlock()
	if !ok || s.now().After(entry.expires) {
		return Page{}, false
	}
	return entry.page, true
}

func (s *Store) store(key string, page Page) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[key] = cacheEntry{page: page, expires: s.now().Add(s.ttl)}
}

func newContentPolicy() *bluemonday.Policy {
	policy := bluemonday.UGCPolicy()
	policy.AllowAttrs("class").OnElements("p", "span", "strong", "em")
	policy.RequireNoFollowOnLinks(true)
	return policy
}

func splitFrontMatter(input string) (string, string) {
	input = strings.TrimLeft(input, "\ufeff")
	lines := strings.Split(input, "\n")
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return "", input
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			fm := strings.Join(lines[1:i], "\n")
			body := strings.Join(lines[i+1:], "\n")
			return fm, strings.TrimLeft(body, "\n\r")
		}
	}
	return "", input
}

func sanitizeSlug(slug string) string {
	slug = strings.Trim(strings.TrimSpace(strings.ToLower(slug)), "/")
	if slug == "" || strings.Contains(slug, "..") || strings.ContainsAny(slug, `/\`) {
		return ""
	}
	return slug
}

func prettifySlug(slug string) string {
	parts := strings.Split(slug, "-")
	for i, part := range parts {
		if part == "" {
			continue
		}
		runes := []rune(part)
		if runes[0] >= 'a' && runes[0] <= 'z' {
			runes[0] -= 'a' - 'A'
		}
		parts[i] = string(runes)
	}
	return strings.Join(parts, " ")
}
