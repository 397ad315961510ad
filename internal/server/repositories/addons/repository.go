// Package addons reads add-ons, their versions and author links.
package addons

import (
	"context"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type Repository interface {
	Get(ctx context.Context, id int64) (*models.Addon, error)
	// GetVersion looks the version up within addonID, deleted versions
	// included.
	GetVersion(ctx context.Context, addonID, versionID int64) (*models.Version, error)
	IsAuthor(ctx context.Context, addonID, userID int64) (bool, error)
	// ListedForUser returns the distinct add-ons userID is a listed author of.
	ListedForUser(ctx context.Context, userID int64) ([]models.Addon, error)
	// ForUser returns up to limit add-ons of userID, newest first. Add-ons on
	// which the user is an unlisted author are skipped unless withUnlisted.
	ForUser(ctx context.Context, userID int64, limit int, withUnlisted bool) ([]models.Addon, error)
}
