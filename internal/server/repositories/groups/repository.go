// Package groups stores permission groups and their memberships.
package groups

import (
	"context"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type Repository interface {
	GetByName(ctx context.Context, name string) (*models.Group, error)
	Create(ctx context.Context, name, rules string) (*models.Group, error)
	AddMember(ctx context.Context, groupID, userID int64) error
	RemoveMember(ctx context.Context, groupID, userID int64) error
	// ForUser returns the groups userID belongs to, ordered by id.
	ForUser(ctx context.Context, userID int64) ([]models.Group, error)
}
