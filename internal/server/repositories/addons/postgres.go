package addons

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (*models.Addon, error) {
	query := `SELECT id, name, type, is_listed FROM addons WHERE id = $1`

	a := &models.Addon{}
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&a.ID, &a.Name, &a.Type, &a.IsListed); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return a, nil
}

func (r *PostgresRepository) GetVersion(ctx context.Context, addonID, versionID int64) (*models.Version, error) {
	query :=
		`SELECT id, addon_id, version, deleted
		 FROM versions
		 WHERE id = $1 AND addon_id = $2`

	v := &models.Version{}
	err := r.db.QueryRowContext(ctx, query, versionID, addonID).Scan(&v.ID, &v.AddonID, &v.Version, &v.Deleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}

func (r *PostgresRepository) IsAuthor(ctx context.Context, addonID, userID int64) (bool, error) {
	query := `SELECT EXISTS (SELECT 1 FROM addons_users WHERE addon_id = $1 AND user_id = $2)`

	var ok bool
	if err := r.db.QueryRowContext(ctx, query, addonID, userID).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) ListedForUser(ctx context.Context, userID int64) ([]models.Addon, error) {
	query :=
		`SELECT DISTINCT a.id, a.name, a.type, a.is_listed
		 FROM addons a
		 JOIN addons_users au ON au.addon_id = a.id
		 WHERE au.user_id = $1 AND au.listed
		 ORDER BY a.id`

	return r.list(ctx, query, userID)
}

func (r *PostgresRepository) ForUser(ctx context.Context, userID int64, limit int, withUnlisted bool) ([]models.Addon, error) {
	query :=
		`SELECT a.id, a.name, a.type, a.is_listed
		 FROM addons a
		 JOIN addons_users au ON au.addon_id = a.id
		 WHERE au.user_id = $1 AND (au.listed OR $2)
		 ORDER BY a.id DESC
		 LIMIT $3`

	return r.list(ctx, query, userID, withUnlisted, limit)
}

func (r *PostgresRepository) list(ctx context.Context, query string, args ...any) ([]models.Addon, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Addon
	for rows.Next() {
		var a models.Addon
		if err := rows.Scan(&a.ID, &a.Name, &a.Type, &a.IsListed); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
