package site

import (
	"html/template"
	"strings"

	"github.com/cruderly/wallie/pkg/buildinfo"
	"github.com/cruderly/wallie/pkg/i18n"
	"github.com/cruderly/wallie/pkg/leads"
	"github.com/cruderly/wallie/pkg/reveal"
)

// view is the data passed to every template.
type view struct {
	Locale  i18n.Locale
	Page    Page
	Meta    Meta
	Nav     []navLink
	Langs   []langLink
	Contact ContactInfo
	Slider  sliderView
	Form    formView
	Version string

	dict i18n.Dict
}

type navLink struct {
	Key    string // translation key of the label
	Href   string
	Active bool
}

type langLink struct {
	Code   string
	Href   string
	Active bool
}

// sliderView is the server-rendered initial state of a reveal slider, so
// the page shows a half-revealed wall before any script runs.
type sliderView struct {
	Clip     template.CSS // clip-path of the after layer
	Handle   template.CSS // left offset of the handle
	Position float64
}

type formField struct {
	Name     string
	Label    string // translation key
	Type     string
	Required bool
}

type formView struct {
	Fields []formField
	Errors map[string]string // reason -> localized message, for the script
}

var formFields = []formField{
	{leads.FieldSpaceType, "form.space_type", "text", true},
	{leads.FieldSurfaceType, "form.surface_type", "text", true},
	{leads.FieldSize, "form.size", "text", true},
	{leads.FieldLocation, "form.location", "text", true},
	{leads.FieldTimeline, "form.timeline", "text", true},
	{leads.FieldWallPhoto, "form.wall_photo", "url", false},
	{leads.FieldContact, "form.contact", "email", true},
}

func (s *Site) view(l i18n.Locale, p Page) view {
	d := s.catalog.For(l)
	st := reveal.NewSlider().State()

	v := view{
		Locale:  l,
		Page:    p,
		Meta:    s.Meta(l, p),
		Contact: s.opts.Contact,
		Slider:  sliderView{Clip: template.CSS(st.ClipInset()), Handle: template.CSS(st.PositionPercent()), Position: st.Position},
		Form:    formView{Fields: formFields, Errors: make(map[string]string)},
		Version: buildinfo.Version,
		dict:    d,
	}
	for _, np := range []Page{Home, Portfolio, FAQ, Contact} {
		key := "nav." + np.Name()
		v.Nav = append(v.Nav, navLink{Key: key, Href: np.Path(l), Active: np == p})
	}
	for _, alt := range i18n.Supported {
		v.Langs = append(v.Langs, langLink{Code: alt.String(), Href: p.Path(alt), Active: alt == l})
	}
	for _, reason := range []string{"required", "too_long", "invalid_email", "invalid_url", "invalid_chars", "rate_limited"} {
		v.Form.Errors[reason] = d.T("errors." + reason)
	}
	v.Form.Errors["failed"] = d.T("form.failed")
	v.Form.Errors["sent"] = d.T("form.sent")
	return v
}

// T returns the copy for key in the page locale.
func (v view) T(key string) string { return v.dict.T(key) }

// Seq lists numbered groups such as "faq.q1", "faq.q2".
func (v view) Seq(prefix, probe string) []string { return v.dict.Seq(prefix, probe) }

// Sec returns the copy of one section, e.g. {{$h := .Sec "hero"}}{{$h.T "title"}}.
func (v view) Sec(prefix string) i18n.Section { return v.dict.Section(prefix) }

var funcs = template.FuncMap{
	"upper": strings.ToUpper,
	"join":  func(parts ...string) string { return strings.Join(parts, "") },
	"tel":   func(phone string) string { return strings.NewReplacer(" ", "", "-", "").Replace(phone) },
}
