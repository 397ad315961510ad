package groups

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

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Group, error) {
	query := `SELECT id, name, rules FROM groups WHERE name = $1`

	g := &models.Group{}
	if err := r.db.QueryRowContext(ctx, query, name).Scan(&g.ID, &g.Name, &g.Rules); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

func (r *PostgresRepository) Create(ctx context.Context, name, rules string) (*models.Group, error) {
	query := `INSERT INTO groups (name, rules) VALUES ($1, $2) RETURNING id`

	g := &models.Group{Name: name, Rules: rules}
	if err := r.db.QueryRowContext(ctx, query, name, rules).Scan(&g.ID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return g, nil
}

// AddMember is idempotent.
func (r *PostgresRepository) AddMember(ctx context.Context, groupID, userID int64) error {
	query :=
		`INSERT INTO groups_users (group_id, user_id) VALUES ($1, $2)
		 ON CONFLICT DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) RemoveMember(ctx context.Context, groupID, userID int64) error {
	query := `DELETE FROM groups_users WHERE group_id = $1 AND user_id = $2`

	if _, err := r.db.ExecContext(ctx, query, groupID, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) ForUser(ctx context.Context, userID int64) ([]models.Group, error) {
	query :=
		`SELECT g.id, g.name, g.rules
		 FROM groups g
		 JOIN groups_users gu ON gu.group_id = g.id
		 WHERE gu.user_id = $1
		 ORDER BY g.id`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Group
	for rows.Next() {
		var g models.Group
		if err := rows.Scan(&g.ID, &g.Name, &g.Rules); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}
