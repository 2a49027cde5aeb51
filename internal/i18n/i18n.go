// Package i18n loads the response message catalogs and picks a locale per request.
package i18n

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"path"
	"sort"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"sigs.k8s.io/yaml"
)

// LangParam is the query parameter that overrides Accept-Language.
const LangParam = "lang"

// DefaultLocale is used when nothing else matches.
const DefaultLocale = "en"

//go:embed locales/*.yaml
var embeddedFS embed.FS

type catalogFile struct {
	Locale   string            `json:"locale"`
	Messages map[string]string `json:"messages"`
}

// Catalog holds the registered messages for every supported locale.
type Catalog struct {
	tags    []language.Tag // tags[0] is the fallback
	matcher language.Matcher
	builder *catalog.Builder
}

var loadDefault = sync.OnceValues(func() (*Catalog, error) {
	return Load(DefaultLocale)
})

// Default returns the process-wide catalog built from the embedded locales.
// It is loaded on first use.
func Default() (*Catalog, error) {
	return loadDefault()
}

// Load builds a catalog from the embedded locale files.
func Load(defaultLocale string) (*Catalog, error) {
	return LoadFS(embeddedFS, defaultLocale)
}

// LoadFS builds a catalog from locales/*.yaml in fsys. defaultLocale must be
// one of the loaded locales.
func LoadFS(fsys fs.FS, defaultLocale string) (*Catalog, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no locale catalogs found")
	}
	sort.Strings(paths)

	fallback, err := language.Parse(strings.TrimSpace(defaultLocale))
	if err != nil {
		return nil, fmt.Errorf("parse default locale %q: %w", defaultLocale, err)
	}

	builder := catalog.NewBuilder(catalog.Fallback(fallback))
	var tags []language.Tag
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}

		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if want := strings.TrimSuffix(path.Base(p), ".yaml"); file.Locale != want {
			return nil, fmt.Errorf("catalog %s: locale %q must match file name", p, file.Locale)
		}
		if len(file.Messages) == 0 {
			return nil, fmt.Errorf("catalog %s: no messages", p)
		}

		tag, err := language.Parse(file.Locale)
		if err != nil {
			return nil, fmt.Errorf("catalog %s: %w", p, err)
		}
		for key, msg := range file.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("catalog %s: key %q: %w", p, key, err)
			}
		}
		tags = append(tags, tag)
	}

	ordered := []language.Tag{}
	for _, tag := range tags {
		if tag == fallback {
			ordered = append([]language.Tag{tag}, ordered...)
		} else {
			ordered = append(ordered, tag)
		}
	}
	if ordered[0] != fallback {
		return nil, fmt.Errorf("default locale %q has no catalog", defaultLocale)
	}

	return &Catalog{
		tags:    ordered,
		matcher: language.NewMatcher(ordered),
		builder: builder,
	}, nil
}

// Tags returns the supported locales, fallback first.
func (c *Catalog) Tags() []language.Tag {
	return append([]language.Tag(nil), c.tags...)
}

// Match picks the best supported locale for the given preferences.
func (c *Catalog) Match(prefs ...language.Tag) language.Tag {
	_, idx, _ := c.matcher.Match(prefs...)
	return c.tags[idx]
}

// Resolve determines the locale for r from the lang query parameter, then
// Accept-Language, then the fallback.
func (c *Catalog) Resolve(r *http.Request) language.Tag {
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return c.Match(tag)
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if prefs, _, err := language.ParseAcceptLanguage(accept); err == nil && len(prefs) > 0 {
			return c.Match(prefs...)
		}
	}
	return c.tags[0]
}

// Printer returns a printer bound to this catalog for tag.
func (c *Catalog) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(tag, message.Catalog(c.builder))
}

type contextKey struct{}

// Middleware stores a printer for the request's locale in its context.
func Middleware(c *Catalog) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tag := c.Resolve(r)
			w.Header().Set("Content-Language", tag.String())
			ctx := context.WithValue(r.Context(), contextKey{}, c.Printer(tag))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the request printer, or a fallback-locale printer from
// the default catalog when none was set. If the default catalog cannot be
// loaded the printer has no messages and renders keys as-is.
func FromContext(ctx context.Context) *message.Printer {
	if p, ok := ctx.Value(contextKey{}).(*message.Printer); ok {
		return p
	}
	c, err := Default()
	if err != nil {
		return message.NewPrinter(language.Make(DefaultLocale), message.Catalog(catalog.NewBuilder()))
	}
	return c.Printer(c.tags[0])
}

// T translates key with args for the locale stored in ctx.
func T(ctx context.Context, key string, args ...any) string {
	return FromContext(ctx).Sprintf(key, args...)
}
