// Package reviews reads add-on reviews written by users.
package reviews

import (
	"context"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type Repository interface {
	// ForUser returns the reviews written by userID, newest first.
	// Developer replies to other reviews are not included.
	ForUser(ctx context.Context, userID int64) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
}
