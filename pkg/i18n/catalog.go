package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/cruderly/wallie/pkg/errors"
)

//go:embed locales/*.toml
var embedded embed.FS

// Catalog maps every supported locale to its flattened dictionary.
// A Catalog is immutable after Load and safe for concurrent use.
type Catalog struct {
	dicts map[Locale]map[string]string
}

// Load reads "<locale>.toml" for every supported locale from fsys.
func Load(fsys fs.FS) (*Catalog, error) {
	c := &Catalog{dicts: make(map[Locale]map[string]string, len(Supported))}
	for _, l := range Supported {
		name := string(l) + ".toml"
		data, err := fs.ReadFile(fsys, name)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read dictionary %s", name)
		}
		var raw map[string]any
		if _, err := toml.Decode(string(data), &raw); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse dictionary %s", name)
		}
		entries := make(map[string]string)
		if err := flatten("", raw, entries); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "dictionary %s", name)
		}
		c.dicts[l] = entries
	}
	return c, nil
}

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
	defaultErr     error
)

// Embedded returns the catalog compiled into the binary.
func Embedded() (*Catalog, error) {
	defaultOnce.Do(func() {
		sub, err := fs.Sub(embedded, "locales")
		if err != nil {
			defaultErr = err
			return
		}
		defaultCatalog, defaultErr = Load(sub)
	})
	return defaultCatalog, defaultErr
}

func flatten(prefix string, v any, out map[string]string) error {
	switch val := v.(type) {
	case map[string]any:
		for k, child := range val {
			key := k
			if prefix != "" {
				key = prefix + "." + k
			}
			if err := flatten(key, child, out); err != nil {
				return err
			}
		}
	case string:
		out[prefix] = val
	case int64:
		out[prefix] = strconv.FormatInt(val, 10)
	case float64:
		out[prefix] = strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		out[prefix] = strconv.FormatBool(val)
	default:
		return fmt.Errorf("key %q: unsupported value type %T", prefix, v)
	}
	return nil
}

// For resolves the dictionary of l. Unsupported locales resolve to Default.
func (c *Catalog) For(l Locale) Dict {
	if !l.Valid() {
		l = Default
	}
	return Dict{locale: l, entries: c.dicts[l], fallback: c.dicts[Default]}
}

// Keys returns every key defined in any locale, sorted.
func (c *Catalog) Keys() []string {
	seen := make(map[string]struct{})
	for _, d := range c.dicts {
		for k := range d {
			seen[k] = struct{}{}
		}
	}
	keys := make([]string, 0, len(seen))
	for k := range seen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Missing returns, per locale, the sorted keys that some other locale
// defines but it does not. Locales with complete dictionaries are omitted.
func (c *Catalog) Missing() map[Locale][]string {
	all := c.Keys()
	missing := make(map[Locale][]string)
	for _, l := range Supported {
		for _, k := range all {
			if _, ok := c.dicts[l][k]; !ok {
				missing[l] = append(missing[l], k)
			}
		}
	}
	return missing
}

// Dict is the resolved dictionary of one locale.
type Dict struct {
	locale   Locale
	entries  map[string]string
	fallback map[string]string
}

// Locale returns the locale the dictionary was resolved for.
func (d Dict) Locale() Locale { return d.locale }

// T returns the copy for key.
func (d Dict) T(key string) string {
	if s, ok := d.entries[key]; ok {
		return s
	}
	if s, ok := d.fallback[key]; ok {
		return s
	}
	return key
}

// Has reports whether key exists in the locale or its fallback.
func (d Dict) Has(key string) bool {
	if _, ok := d.entries[key]; ok {
		return true
	}
	_, ok := d.fallback[key]
	return ok
}

// Tf formats the copy for key with args.
func (d Dict) Tf(key string, args ...any) string {
	return fmt.Sprintf(d.T(key), args...)
}

// Seq returns the keys of a numbered group: for prefix "faq.q" it yields
// "faq.q1", "faq.q2", ... for as long as "<prefix><n>.<probe>" exists.
func (d Dict) Seq(prefix, probe string) []string {
	var keys []string
	for n := 1; ; n++ {
		base := prefix + strconv.Itoa(n)
		if !d.Has(base + "." + probe) {
			return keys
		}
		keys = append(keys, base)
	}
}

// Section returns a view of d rooted at prefix, so templates can write
// {{$hero.T "title"}} instead of repeating "hero.".
func (d Dict) Section(prefix string) Section {
	return Section{dict: d, prefix: strings.TrimSuffix(prefix, ".") + "."}
}

// Section is a Dict restricted to one key prefix.
type Section struct {
	dict   Dict
	prefix string
}

// T returns the copy for prefix+key.
func (s Section) T(key string) string { return s.dict.T(s.prefix + key) }
