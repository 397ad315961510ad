// Package repomanager vends the PostgreSQL repositories bound to a DB handle
// or transaction and runs the embedded goose migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/migrations"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/activitylog"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/addons"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/blocklists"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/collections"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/groups"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/reviews"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/translations"
	"github.com/dmitrijs2005/addonaccounts/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
)

type PostgresRepositoryManager struct{}

func (m *PostgresRepositoryManager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Groups(db dbx.DBTX) groups.Repository {
	return groups.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) RefreshTokens(db dbx.DBTX) refreshtokens.Repository {
	return refreshtokens.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Addons(db dbx.DBTX) addons.Repository {
	return addons.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Reviews(db dbx.DBTX) reviews.Repository {
	return reviews.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Collections(db dbx.DBTX) collections.Repository {
	return collections.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) ActivityLog(db dbx.DBTX) activitylog.Repository {
	return activitylog.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Blocklists(db dbx.DBTX) blocklists.Repository {
	return blocklists.NewPostgresRepository(db)
}

func (m *PostgresRepositoryManager) Translations(db dbx.DBTX) translations.Repository {
	return translations.NewPostgresRepository(db)
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations to db.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func NewPostgresRepositoryManager() RepositoryManager {
	return &PostgresRepositoryManager{}
}
