package i18n

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/require"
)

func TestResolveHonorsQValues(t *testing.T) {
	b, err := LoadEmbedded("ru", []string{"ru", "en"})
	require.NoError(t, err)

	require.Equal(t, "en", b.Resolve("ru;q=0.8, en;q=0.9"))
	require.Equal(t, "ru", b.Resolve("ru-RU,ru;q=0.9,en;q=0.5"))
	require.Equal(t, "en", b.Resolve("en-GB"))
}

func TestResolveFallsBackForUnknownOrEmptyHeaders(t *testing.T) {
	b, err := LoadEmbedded("ru", nil)
	require.NoError(t, err)

	require.Equal(t, "ru", b.Resolve(""))
	require.Equal(t, "ru", b.Resolve("de-DE"))
	require.Equal(t, "ru", b.Resolve(";;;garbage"))
}

func TestTranslateFallsBackToDefaultThenKey(t *testing.T) {
	fsys := fstest.MapFS{
		"ru.json": {Data: []byte(`{"greeting":"Привет","only.ru":"Только"}`)},
		"en.json": {Data: []byte(`{"greeting":"Hello"}`)},
	}
	b, err := Load(fsys, "ru", []string{"ru", "en"})
	require.NoError(t, err)

	require.Equal(t, "Hello", b.T("en", "greeting"))
	require.Equal(t, "Только", b.T("en", "only.ru"))
	require.Equal(t, "missing.key", b.T("en", "missing.key"))
	require.Equal(t, "Привет", b.T("", "greeting"))
}

func TestLoadRequiresFallbackCatalog(t *testing.T) {
	fsys := fstest.MapFS{
		"en.json": {Data: []byte(`{}`)},
	}
	_, err := Load(fsys, "ru", []string{"ru", "en"})
	require.Error(t, err)
}

func TestLoadSkipsMissingOptionalCatalogs(t *testing.T) {
	fsys := fstest.MapFS{
		"ru.json": {Data: []byte(`{"k":"v"}`)},
	}
	b, err := Load(fsys, "ru", []string{"ru", "kk"})
	require.NoError(t, err)
	require.True(t, b.IsSupported("kk"))
	require.Equal(t, "v", b.T("kk", "k"))
	require.Equal(t, []string{"kk", "ru"}, b.Supported())
}

func TestEmbeddedCatalogsShareKeys(t *testing.T) {
	b, err := LoadEmbedded("ru", []string{"ru", "en"})
	require.NoError(t, err)

	for key := range b.dict["ru"] {
		_, ok := b.dict["en"][key]
		require.Truef(t, ok, "en catalog missing %q", key)
	}
}
