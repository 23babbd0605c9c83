// Package i18n holds the site copy as one lookup table indexed by locale.
//
// Copy lives in TOML dictionaries, one per locale, embedded in the binary.
// Nested tables flatten into dotted keys:
//
//	[hero]
//	title = "Vertical wall printing"    # key "hero.title"
//
// A page resolves its [Dict] once per render with [Catalog.For] and looks
// keys up with [Dict.T]. Missing keys fall back to the default locale and
// then to the key itself, so a gap in a translation shows up as a visible
// key instead of an empty string.
package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/cruderly/wallie/pkg/errors"
)

// Locale is a supported site locale.
type Locale string

// Supported locales.
const (
	Serbian Locale = "sr"
	English Locale = "en"
	Russian Locale = "ru"
)

// Default is the locale used when none is requested or negotiable.
const Default = Serbian

// Supported lists every locale in display order. Default comes first.
var Supported = []Locale{Serbian, English, Russian}

var supportedTags = []language.Tag{language.Serbian, language.English, language.Russian}

var matcher = language.NewMatcher(supportedTags)

// Parse validates a locale path segment such as "en".
func Parse(s string) (Locale, error) {
	l := Locale(strings.ToLower(s))
	if l.Valid() {
		return l, nil
	}
	return "", errors.New(errors.ErrCodeInvalidLocale, "unsupported locale: %q", s)
}

// Valid reports whether l is supported.
func (l Locale) Valid() bool {
	for _, s := range Supported {
		if l == s {
			return true
		}
	}
	return false
}

// String returns the locale code.
func (l Locale) String() string { return string(l) }

// Lang returns the value for the html lang attribute and hreflang links.
func (l Locale) Lang() string { return string(l) }

// Negotiate picks the best supported locale for an Accept-Language header.
// It returns Default when the header is empty, malformed, or matches
// nothing supported.
func Negotiate(acceptLanguage string) Locale {
	if strings.TrimSpace(acceptLanguage) == "" {
		return Default
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return Default
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return Default
	}
	return Supported[idx]
}
