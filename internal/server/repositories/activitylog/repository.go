// Package activitylog reads and writes moderation activity log entries
// linked to add-on versions.
package activitylog

import (
	"context"

	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type Repository interface {
	// ForVersion returns the entries linked to versionID whose action is one
	// of actions, newest first. An empty actions list yields no entries.
	ForVersion(ctx context.Context, versionID int64, actions []models.ActivityAction) ([]models.ActivityLog, error)
	// Create stores entry and links it to versionID.
	Create(ctx context.Context, entry *models.ActivityLog, versionID int64) (*models.ActivityLog, error)
}
