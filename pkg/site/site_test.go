package site

import (
	"context"
	"io/fs"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cruderly/wallie/pkg/cache"
	"github.com/cruderly/wallie/pkg/errors"
	"github.com/cruderly/wallie/pkg/i18n"
)

func newSite(t *testing.T, c cache.Cache) *Site {
	t.Helper()
	catalog, err := i18n.Embedded()
	require.NoError(t, err)
	s, err := New(catalog, Options{BaseURL: "https://wallie.test/", Cache: c})
	require.NoError(t, err)
	return s
}

func TestParsePage(t *testing.T) {
	tests := []struct {
		in   string
		want Page
		ok   bool
	}{
		{"", Home, true},
		{"/", Home, true},
		{"faq", FAQ, true},
		{"/privacy/", Privacy, true},
		{"blog", "", false},
	}
	for _, tt := range tests {
		got, err := ParsePage(tt.in)
		if !tt.ok {
			assert.True(t, errors.Is(err, errors.ErrCodeNotFound), "ParsePage(%q) = %v", tt.in, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestPagePath(t *testing.T) {
	assert.Equal(t, "/en", Home.Path(i18n.English))
	assert.Equal(t, "/ru/contact", Contact.Path(i18n.Russian))
	assert.Equal(t, "home", Home.Name())
	assert.Equal(t, "faq", FAQ.Name())
}

func TestMeta(t *testing.T) {
	s := newSite(t, nil)

	m := s.Meta(i18n.English, Home)
	assert.Equal(t, "Wallie - Vertical Wall Printing | Belgrade, Serbia", m.Title)
	assert.Equal(t, "https://wallie.test/en", m.Canonical)
	assert.Equal(t, []Alternate{
		{Lang: "sr", Href: "https://wallie.test/sr"},
		{Lang: "en", Href: "https://wallie.test/en"},
		{Lang: "ru", Href: "https://wallie.test/ru"},
		{Lang: "x-default", Href: "https://wallie.test/sr"},
	}, m.Alternates)

	c := s.Meta(i18n.English, Contact)
	assert.Equal(t, "Contact | Wallie", c.Title)
	assert.Equal(t, "https://wallie.test/en/contact", c.Canonical)
	assert.Equal(t, "Contact us for project assessment. We respond within 8 hours.", c.Description)
	assert.Equal(t, "https://wallie.test/sr/contact", c.Alternates[len(c.Alternates)-1].Href)
}

func TestRenderEveryPage(t *testing.T) {
	s := newSite(t, nil)
	ctx := context.Background()

	for _, l := range i18n.Supported {
		for _, p := range Pages {
			html, err := s.Render(ctx, l, p)
			require.NoError(t, err, "%s/%s", l, p.Name())
			body := string(html)

			assert.Contains(t, body, `<html lang="`+l.Lang()+`">`)
			assert.Contains(t, body, `<link rel="canonical" href="https://wallie.test`+p.Path(l)+`">`)
			assert.Contains(t, body, `hreflang="x-default"`)
			assert.NotContains(t, body, "ZgotmplZ", "%s/%s has an escaping failure", l, p.Name())
			assert.NotContains(t, body, "meta.title", "%s/%s renders a raw key", l, p.Name())
		}
	}
}

func TestRenderHomeSlider(t *testing.T) {
	s := newSite(t, nil)
	html, err := s.Render(context.Background(), i18n.English, Home)
	require.NoError(t, err)
	body := string(html)

	assert.Contains(t, body, `data-reveal `)
	assert.Contains(t, body, `style="clip-path: inset(0 50% 0 0)"`)
	assert.Contains(t, body, `style="left: 50%"`)
	assert.Contains(t, body, "Drag to compare before and after")
	assert.Equal(t, 4, strings.Count(body, `class="faq-item"`))
	assert.Contains(t, body, `name="contact"`)
	assert.Contains(t, body, `<input type="hidden" name="locale" value="en">`)
}

func TestRenderUsesCache(t *testing.T) {
	c := cache.NewMemoryCache()
	s := newSite(t, c)
	ctx := context.Background()

	first, err := s.Render(ctx, i18n.Serbian, FAQ)
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())

	second, err := s.Render(ctx, i18n.Serbian, FAQ)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Len())

	_, err = s.Render(ctx, i18n.English, FAQ)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len(), "locales are cached separately")
}

func TestRenderErrors(t *testing.T) {
	s := newSite(t, nil)
	ctx := context.Background()

	_, err := s.Render(ctx, "de", Home)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidLocale))

	_, err = s.Render(ctx, i18n.English, "blog")
	assert.True(t, errors.Is(err, errors.ErrCodeNotFound))
}

func TestStaticAssets(t *testing.T) {
	for _, name := range []string{"css/site.css", "js/site.js", "js/wasm_exec.js", "img/before.svg", "img/after.svg"} {
		_, err := fs.Stat(Static(), name)
		assert.NoError(t, err, name)
	}
}

func TestMissingAssets(t *testing.T) {
	assert.Equal(t, []string{"js/wasm_exec.js", "js/reveal.wasm"}, MissingAssets(fstest.MapFS{
		"js/site.js": {Data: []byte("")},
	}))
	assert.Equal(t, []string{"js/reveal.wasm"}, MissingAssets(fstest.MapFS{
		"js/wasm_exec.js": {Data: []byte("")},
	}))
	assert.Empty(t, MissingAssets(fstest.MapFS{
		"js/wasm_exec.js": {Data: []byte("")},
		"js/reveal.wasm":  {Data: []byte("\x00asm")},
	}))
}
