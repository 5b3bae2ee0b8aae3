// Package prompt renders locale-specific prompt templates with {{name}}
// placeholders.
package prompt

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

// Kind names a template family.
type Kind string

const (
	KindEmail         Kind = "email"
	KindSMS           Kind = "sms"
	KindCallScript    Kind = "call_script"
	KindNegotiation   Kind = "negotiation"
	KindStrategy      Kind = "strategy"
	KindEmailAnalysis Kind = "email_analysis"
)

// DefaultLocale is used when a template has no variant for the requested locale.
const DefaultLocale = "en"

// Reserved variable names filled from generation options.
const (
	VarTone     = "tone"
	VarLanguage = "language"
)

var placeholder = regexp.MustCompile(`\{\{\s*([A-Za-z0-9_.-]+)\s*\}\}`)

// Interpolate replaces each {{name}} with vars[name]. Unknown names become
// empty strings; unused variables are ignored.
func Interpolate(tmpl string, vars map[string]string) string {
	return placeholder.ReplaceAllStringFunc(tmpl, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		return vars[name]
	})
}

// Placeholders lists the distinct names referenced by tmpl, sorted.
func Placeholders(tmpl string) []string {
	seen := map[string]struct{}{}
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		seen[m[1]] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Library holds templates by kind and locale.
type Library struct {
	mu        sync.RWMutex
	templates map[Kind]map[string]string
}

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{templates: make(map[Kind]map[string]string)}
}

// Default returns a library preloaded with the built-in templates.
func Default() *Library {
	l := NewLibrary()
	for kind, locales := range builtin {
		for locale, text := range locales {
			l.Register(kind, locale, text)
		}
	}
	return l
}

// Register adds or replaces a template.
func (l *Library) Register(kind Kind, locale, text string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	locale = normalizeLocale(locale)
	if l.templates[kind] == nil {
		l.templates[kind] = make(map[string]string)
	}
	l.templates[kind][locale] = text
}

// Template returns the raw template for kind in locale, falling back to
// DefaultLocale.
func (l *Library) Template(kind Kind, locale string) (string, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	locales, ok := l.templates[kind]
	if !ok {
		return "", fmt.Errorf("unknown template kind %q", kind)
	}
	if text, ok := locales[normalizeLocale(locale)]; ok {
		return text, nil
	}
	if text, ok := locales[DefaultLocale]; ok {
		return text, nil
	}
	return "", fmt.Errorf("template %q has no %q variant", kind, DefaultLocale)
}

// Render interpolates the template for kind and locale.
func (l *Library) Render(kind Kind, locale string, vars map[string]string) (string, error) {
	text, err := l.Template(kind, locale)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(Interpolate(text, vars)), nil
}

// Kinds lists registered kinds, sorted.
func (l *Library) Kinds() []Kind {
	l.mu.RLock()
	defer l.mu.RUnlock()
	kinds := make([]Kind, 0, len(l.templates))
	for k := range l.templates {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// WithOptions copies vars and sets tone and language unless the caller
// already provided them.
func WithOptions(vars map[string]string, tone, language string) map[string]string {
	out := make(map[string]string, len(vars)+2)
	for k, v := range vars {
		out[k] = v
	}
	if _, ok := out[VarTone]; !ok && tone != "" {
		out[VarTone] = tone
	}
	if _, ok := out[VarLanguage]; !ok && language != "" {
		out[VarLanguage] = language
	}
	return out
}

// normalizeLocale maps "es-MX" and "ES" to "es".
func normalizeLocale(locale string) string {
	locale = strings.ToLower(strings.TrimSpace(locale))
	if i := strings.IndexAny(locale, "-_"); i > 0 {
		locale = locale[:i]
	}
	if locale == "" {
		return DefaultLocale
	}
	return locale
}
