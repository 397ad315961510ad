package collections

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

func (r *PostgresRepository) GetForAuthor(ctx context.Context, authorID int64, typ models.CollectionType) (*models.Collection, error) {
	query :=
		`SELECT id, author_id, name, slug, type
		 FROM collections
		 WHERE author_id = $1 AND type = $2
		 ORDER BY id
		 LIMIT 1`

	c := &models.Collection{}
	err := r.db.QueryRowContext(ctx, query, authorID, int(typ)).Scan(&c.ID, &c.AuthorID, &c.Name, &c.Slug, &c.Type)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Collection) (*models.Collection, error) {
	query :=
		`INSERT INTO collections (author_id, name, slug, type)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id`

	if err := r.db.QueryRowContext(ctx, query, c.AuthorID, c.Name, c.Slug, int(c.Type)).Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) AddAddon(ctx context.Context, collectionID, addonID int64) error {
	query :=
		`INSERT INTO collections_addons (collection_id, addon_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, collectionID, addonID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddonIDs(ctx context.Context, collectionID int64) ([]int64, error) {
	query :=
		`SELECT addon_id FROM collections_addons
		 WHERE collection_id = $1
		 ORDER BY created_at, addon_id`

	return r.ids(ctx, query, collectionID)
}

func (r *PostgresRepository) WatchedBy(ctx context.Context, userID int64) ([]int64, error) {
	query :=
		`SELECT collection_id FROM collection_watchers
		 WHERE user_id = $1
		 ORDER BY collection_id`

	return r.ids(ctx, query, userID)
}

func (r *PostgresRepository) Watch(ctx context.Context, collectionID, userID int64) error {
	query :=
		`INSERT INTO collection_watchers (collection_id, user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, collectionID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ids(ctx context.Context, query string, arg int64) ([]int64, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return ids, nil
}
