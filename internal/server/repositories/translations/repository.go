// Package translations stores localized strings keyed by translation id and
// locale.
package translations

import "context"

type Repository interface {
	// Get returns every localization of id keyed by locale.
	Get(ctx context.Context, id int64) (map[string]string, error)
	// Set stores value for locale. A zero id allocates a new translation id,
	// which is returned.
	Set(ctx context.Context, id int64, locale, value string) (int64, error)
	// DeleteLocale removes one localization. It reports false when there was
	// nothing to delete.
	DeleteLocale(ctx context.Context, id int64, locale string) (bool, error)
}
