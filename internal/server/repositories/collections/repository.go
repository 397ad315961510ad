// Package collections stores add-on collections, their contents and
// watchers.
package collections

import (
	"context"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type Repository interface {
	// GetForAuthor returns the oldest collection of the given type owned by
	// authorID, or common.ErrorNotFound.
	GetForAuthor(ctx context.Context, authorID int64, typ models.CollectionType) (*models.Collection, error)
	Create(ctx context.Context, c *models.Collection) (*models.Collection, error)
	AddAddon(ctx context.Context, collectionID, addonID int64) error
	// AddonIDs lists the add-ons of a collection in the order they were added.
	AddonIDs(ctx context.Context, collectionID int64) ([]int64, error)
	// WatchedBy lists the collections userID watches.
	WatchedBy(ctx context.Context, userID int64) ([]int64, error)
	Watch(ctx context.Context, collectionID, userID int64) error
}
