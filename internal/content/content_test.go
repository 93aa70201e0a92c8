package content

import (
	"errors"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
)

const (
	landingHeadingRU     = "Юнит-калькулятор Wildberries"
	landingDescriptionRU = "Рассчитайте юнит-экономику ваших товаров на маркетплейсе Wildberries быстро и удобно."
)

func TestEmbeddedLandingCopy(t *testing.T) {
	store := NewEmbeddedStore()

	page, err := store.Get("landing", "ru")
	require.NoError(t, err)
	require.Equal(t, "ru", page.Lang)
	require.Equal(t, landingHeadingRU, page.Title)
	require.Equal(t, "Начать расчёт", page.CTALabel)
	require.Equal(t, landingDescriptionRU, page.Text)
	require.Equal(t, "<p>"+landingDescriptionRU+"</p>", page.Body)
	require.Equal(t, landingDescriptionRU, page.SEO.Description)
}

func TestGetFallsBackToDefaultLanguage(t *testing.T) {
	store := NewEmbeddedStore()

	page, err := store.Get("landing", "de")
	require.NoError(t, err)
	require.Equal(t, "ru", page.Lang)
	require.Equal(t, landingHeadingRU, page.Title)
}

func TestGetRejectsTraversalAndUnknownSlugs(t *testing.T) {
	store := NewEmbeddedStore()

	for _, slug := range []string{"", "../landing", "landing/../landing", `a\b`, "pricing"} {
		_, err := store.Get(slug, "ru")
		require.Truef(t, errors.Is(err, ErrNotFound), "slug %q: %v", slug, err)
	}
}

func TestBodyIsSanitized(t *testing.T) {
	fsys := fstest.MapFS{
		"promo/ru.md": {Data: []byte("---\ntitle: Promo\n---\nHello <script>alert(1)</script> [link](https://example.com)\n")},
	}
	store := NewStore(fsys)

	page, err := store.Get("promo", "ru")
	require.NoError(t, err)
	require.NotContains(t, page.Body, "<script")
	require.Contains(t, page.Body, `rel="nofollow"`)
}

func TestMissingTitleFallsBackToSlug(t *testing.T) {
	fsys := fstest.MapFS{
		"price-list/en.md": {Data: []byte("Plain body without front matter.\n")},
	}
	store := NewStore(fsys, WithFallbackLangs("en"))

	page, err := store.Get("price-list", "fr")
	require.NoError(t, err)
	require.Equal(t, "Price List", page.Title)
	require.Equal(t, "Price List", page.SEO.Title)
	require.Equal(t, "<p>Plain body without front matter.</p>", page.Body)
}

func TestMalformedFrontMatterIsReported(t *testing.T) {
	fsys := fstest.MapFS{
		"broken/ru.md": {Data: []byte("---\ntitle: [unterminated\n---\nbody\n")},
	}
	store := NewStore(fsys)

	_, err := store.Get("broken", "ru")
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), "front matter")
}

func TestCacheExpiresAfterTTL(t *testing.T) {
	fsys := fstest.MapFS{
		"landing/ru.md": {Data: []byte("---\ntitle: First\n---\nbody\n")},
	}
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	store := NewStore(fsys, WithCacheTTL(time.Minute), withClock(func() time.Time { return now }))

	page, err := store.Get("landing", "ru")
	require.NoError(t, err)
	require.Equal(t, "First", page.Title)

	fsys["landing/ru.md"] = &fstest.MapFile{Data: []byte("---\ntitle: Second\n---\nbody\n")}

	page, err = store.Get("landing", "ru")
	require.NoError(t, err)
	require.Equal(t, "First", page.Title, "cached copy should be served within the TTL")

	now = now.Add(2 * time.Minute)
	page, err = store.Get("landing", "ru")
	require.NoError(t, err)
	require.Equal(t, "Second", page.Title)
}
