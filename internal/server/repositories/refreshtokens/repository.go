// Package refreshtokens declares the repository contract for the single-use
// refresh tokens issued at login.
package refreshtokens

import (
	"context"
	"time"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type Repository interface {
	// Create stores a new refresh token for userID that expires after validity.
	Create(ctx context.Context, userID int64, token string, validity time.Duration) error

	// Find returns common.ErrorNotFound when the token is absent.
	Find(ctx context.Context, token string) (*models.RefreshToken, error)

	// Delete consumes a token. It returns common.ErrorNotFound when the token
	// is already gone, so a token can be redeemed once.
	Delete(ctx context.Context, token string) error

	// DeleteForUser revokes every token of a user.
	DeleteForUser(ctx context.Context, userID int64) error
}
