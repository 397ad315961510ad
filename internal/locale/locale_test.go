package locale

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithLocale(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, Default, FromContext(ctx))

	fr := WithLocale(ctx, "fr")
	assert.Equal(t, "fr", FromContext(fr))

	assert.Equal(t, "fr", FromContext(WithLocale(fr, "")), "empty lang keeps the active locale")
	assert.Equal(t, Default, FromContext(ctx), "parent is untouched")
}

func TestResolve(t *testing.T) {
	bio := map[string]string{"en-US": "my bio", "fr": "ma bio"}

	tests := []struct {
		name       string
		values     map[string]string
		locale     string
		fallback   string
		want       string
		wantLocale string
		ok         bool
	}{
		{"exact", bio, "en-US", "fr", "my bio", "en-US", true},
		{"case insensitive", bio, "en-us", "fr", "my bio", "en-US", true},
		{"falls back to object locale", bio, "de", "fr", "ma bio", "fr", true},
		{"falls back to default", bio, "de", "it", "my bio", "en-US", true},
		{"nothing", map[string]string{"pl": "bio"}, "de", "it", "", "", false},
		{"nil map", nil, "de", "", "", "", false},
		{"exact beats folded", map[string]string{"en-us": "lower", "en-US": "canonical"}, "en-US", "", "canonical", "en-US", true},
		{"folded picks lowest key", map[string]string{"en-us": "lower", "EN-US": "upper"}, "en-US", "", "upper", "EN-US", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, gotLocale, ok := Resolve(tt.values, tt.locale, tt.fallback)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantLocale, gotLocale)
		})
	}
}
