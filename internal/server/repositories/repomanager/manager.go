package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/activitylog"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/addons"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/blocklists"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/collections"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/groups"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/translations"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Addons(db dbx.DBTX) addons.Repository
	Reviews(db dbx.DBTX) reviews.Repository
	Collections(db dbx.DBTX) collections.Repository
	ActivityLog(db dbx.DBTX) activitylog.Repository
	Blocklists(db dbx.DBTX) blocklists.Repository
	Translations(db dbx.DBTX) translations.Repository
}
