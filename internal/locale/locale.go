// Package locale carries the active locale through a context and resolves
// translated strings with a fallback chain.
package locale

import (
	"context"
	"sort"
	"strings"
)

// Default is used when neither the caller nor the object names a locale.
const Default = "en-US"

type ctxKey struct{}

// WithLocale returns a child context with lang activated. An empty lang
// leaves the current locale in place.
func WithLocale(ctx context.Context, lang string) context.Context {
	if lang == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, lang)
}

// FromContext returns the active locale, or Default.
func FromContext(ctx context.Context) string {
	if lang, ok := ctx.Value(ctxKey{}).(string); ok && lang != "" {
		return lang
	}
	return Default
}

// Resolve picks the string for locale from values, trying fallback and then
// Default. It returns the picked string and the locale it was stored under.
// An exact key wins over a case-insensitive match; among several of those
// the lowest key wins.
func Resolve(values map[string]string, locale, fallback string) (string, string, bool) {
	for _, want := range []string{locale, fallback, Default} {
		if want == "" {
			continue
		}
		if v, ok := values[want]; ok {
			return v, want, true
		}
		if l, ok := foldMatch(values, want); ok {
			return values[l], l, true
		}
	}
	return "", "", false
}

func foldMatch(values map[string]string, want string) (string, bool) {
	var matches []string
	for l := range values {
		if strings.EqualFold(l, want) {
			matches = append(matches, l)
		}
	}
	if len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}
