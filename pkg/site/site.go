// Package site renders the marketing pages of Wallie.
//
// Every page exists once per locale at /{locale}/{page}. Pages are plain
// server-rendered HTML; the only client code is the reveal slider
// (cmd/revealwasm) and a small script that posts the quote form.
// Rendered pages are cached per build version, locale and page.
package site

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"io"
	"io/fs"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/cruderly/wallie/pkg/buildinfo"
	"github.com/cruderly/wallie/pkg/cache"
	"github.com/cruderly/wallie/pkg/errors"
	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/observability"
)

//go:embed templates
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// Page identifies one page of the site.
type Page string

// Site pages. The value is the path segment after the locale.
const (
	Home      Page = ""
	Portfolio Page = "portfolio"
	FAQ       Page = "faq"
	Contact   Page = "contact"
	Privacy   Page = "privacy"
)

// Pages lists every page in navigation order.
var Pages = []Page{Home, Portfolio, FAQ, Contact, Privacy}

// ParsePage resolves a path segment to a page.
func ParsePage(segment string) (Page, error) {
	segment = strings.Trim(segment, "/")
	for _, p := range Pages {
		if string(p) == segment {
			return p, nil
		}
	}
	return "", errors.New(errors.ErrCodeNotFound, "no page %q", segment)
}

// Path returns the page path for locale, e.g. "/en/faq".
func (p Page) Path(l i18n.Locale) string {
	if p == Home {
		return "/" + l.String()
	}
	return "/" + l.String() + "/" + string(p)
}

// Name returns the template name of the page.
func (p Page) Name() string {
	if p == Home {
		return "home"
	}
	return string(p)
}

// ContactInfo holds the public contact channels printed on the pages.
type ContactInfo struct {
	Email    string
	Phone    string
	WhatsApp string // wa.me number, digits only
}

// Options configures a Site.
type Options struct {
	BaseURL  string // absolute origin used in canonical links, no trailing slash
	Contact  ContactInfo
	Cache    cache.Cache   // nil disables caching
	CacheTTL time.Duration // 0 keeps pages until the next build
	Logger   *log.Logger
}

// DefaultContact is the contact data of the production site.
var DefaultContact = ContactInfo{
	Email:    "contact@wallie.rs",
	Phone:    "+381 60 503 0043",
	WhatsApp: "381605030043",
}

// Site renders pages from the embedded templates and translation catalog.
type Site struct {
	catalog   *i18n.Catalog
	templates map[Page]*template.Template
	opts      Options
}

// New parses the templates. It fails if any template is malformed.
func New(catalog *i18n.Catalog, opts Options) (*Site, error) {
	if opts.BaseURL == "" {
		opts.BaseURL = "https://wallie.rs"
	}
	opts.BaseURL = strings.TrimSuffix(opts.BaseURL, "/")
	if opts.Contact == (ContactInfo{}) {
		opts.Contact = DefaultContact
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewNullCache()
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Site{catalog: catalog, templates: make(map[Page]*template.Template, len(Pages)), opts: opts}
	for _, p := range Pages {
		t, err := template.New("layout.tmpl").Funcs(funcs).ParseFS(templateFS,
			"templates/layout.tmpl",
			"templates/partials/*.tmpl",
			"templates/"+p.Name()+".tmpl",
		)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "parse %s template", p.Name())
		}
		s.templates[p] = t
	}
	return s, nil
}

// Static returns the static assets, rooted so that "css/site.css" is a
// valid name. The server mounts it under /static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err) // the directory is embedded at build time
	}
	return sub
}

// Render returns the HTML of page in locale, from the cache when possible.
func (s *Site) Render(ctx context.Context, l i18n.Locale, p Page) ([]byte, error) {
	if !l.Valid() {
		return nil, errors.New(errors.ErrCodeInvalidLocale, "unsupported locale: %q", l)
	}
	t, ok := s.templates[p]
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "no page %q", p)
	}

	hooks := observability.Cache()
	key := cache.PageKey(buildinfo.Version, l.String(), p.Name())
	if data, hit, err := s.opts.Cache.Get(ctx, key); err != nil {
		s.opts.Logger.Warn("page cache read failed", "page", p.Name(), "locale", l, "error", err)
	} else if hit {
		hooks.OnCacheHit(ctx, "page")
		return data, nil
	}
	hooks.OnCacheMiss(ctx, "page")

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout.tmpl", s.view(l, p)); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s/%s", l, p.Name())
	}
	data := buf.Bytes()

	if err := s.opts.Cache.Set(ctx, key, data, s.opts.CacheTTL); err != nil {
		s.opts.Logger.Warn("page cache write failed", "page", p.Name(), "locale", l, "error", err)
	} else {
		hooks.OnCacheSet(ctx, "page", len(data))
	}
	return data, nil
}

// Meta returns the head metadata of page in locale.
func (s *Site) Meta(l i18n.Locale, p Page) Meta {
	d := s.catalog.For(l)
	m := Meta{
		Title:       d.T("meta.title"),
		Description: d.T("meta.description"),
		Canonical:   s.opts.BaseURL + p.Path(l),
	}
	if p != Home {
		m.Title = d.T(string(p)+".title") + " | Wallie"
		if intro := string(p) + ".intro"; d.Has(intro) {
			m.Description = d.T(intro)
		}
	}
	for _, alt := range i18n.Supported {
		m.Alternates = append(m.Alternates, Alternate{Lang: alt.Lang(), Href: s.opts.BaseURL + p.Path(alt)})
	}
	m.Alternates = append(m.Alternates, Alternate{Lang: "x-default", Href: s.opts.BaseURL + p.Path(i18n.Default)})
	return m
}

// Meta is the head metadata of a page.
type Meta struct {
	Title       string
	Description string
	Canonical   string
	Alternates  []Alternate // hreflang links, ending with x-default
}

// Alternate is one hreflang link.
type Alternate struct {
	Lang string
	Href string
}
