// Package users declares and implements the repository for user profiles
// and their email history.
package users

import (
	"context"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)

	// SwapPassword replaces the stored record only if it still equals
	// expected. It reports false when another writer got there first.
	SwapPassword(ctx context.Context, userID int64, expected, encoded string) (bool, error)
	// DisablePassword stores an unusable record regardless of the current one.
	DisablePassword(ctx context.Context, userID int64, encoded string) error
	// Save writes every mutable profile column. The password is left alone;
	// it only changes through SwapPassword or DisablePassword.
	Save(ctx context.Context, user *models.User) error

	// FindByEmail returns distinct users whose current or any previous
	// email equals email, ordered by id.
	FindByEmail(ctx context.Context, email string) ([]*models.User, error)
	// RecordEmail appends a previous email address to the user's history.
	RecordEmail(ctx context.Context, userID int64, email string) error
}
