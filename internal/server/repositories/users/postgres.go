package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/addonaccounts/internal/common"
	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a duplicate key.
const uniqueViolation = "23505"

const userColumns = `u.id, u.username, u.display_name, u.email, u.password, u.lang,
		u.fxa_id, u.picture_type, u.bio_id, u.deleted, u.modified_at, u.created_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanUser(s dbx.Scanner) (*models.User, error) {
	u := &models.User{}
	err := s.Scan(&u.ID, &u.Username, &u.DisplayName, &u.Email, &u.Password, &u.Lang,
		&u.FxaID, &u.PictureType, &u.BioID, &u.Deleted, &u.Modified, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (r *PostgresRepository) getOne(ctx context.Context, where string, arg any) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u WHERE ` + where

	user, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return user, nil
}

func (r *PostgresRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	query :=
		`INSERT INTO users (username, display_name, email, password, lang)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, modified_at, created_at`

	err := r.db.QueryRowContext(ctx, query,
		user.Username, user.DisplayName, user.Email, user.Password, user.Lang).
		Scan(&user.ID, &user.Modified, &user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrorAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return user, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.getOne(ctx, `u.id = $1`, id)
}

func (r *PostgresRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.getOne(ctx, `u.username = $1 AND NOT u.deleted`, username)
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.getOne(ctx, `u.email = $1 AND NOT u.deleted`, email)
}

func (r *PostgresRepository) SwapPassword(ctx context.Context, userID int64, expected, encoded string) (bool, error) {
	query :=
		`UPDATE users SET password = $1, modified_at = now()
		 WHERE id = $2 AND password = $3`

	swapped, err := dbx.ExecOne(ctx, r.db, query, encoded, userID, expected)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return swapped, nil
}

func (r *PostgresRepository) DisablePassword(ctx context.Context, userID int64, encoded string) error {
	query := `UPDATE users SET password = $1, modified_at = now() WHERE id = $2`

	if _, err := r.db.ExecContext(ctx, query, encoded, userID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) Save(ctx context.Context, user *models.User) error {
	query :=
		`UPDATE users SET username = $1, display_name = $2, email = $3, lang = $4,
		 fxa_id = $5, picture_type = $6, bio_id = $7, deleted = $8, modified_at = now()
		 WHERE id = $9`

	_, err := r.db.ExecContext(ctx, query,
		user.Username, user.DisplayName, user.Email, user.Lang,
		user.FxaID, user.PictureType, user.BioID, user.Deleted, user.ID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) ([]*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users u
		 WHERE u.email = $1
		    OR EXISTS (SELECT 1 FROM users_history h WHERE h.user_id = u.id AND h.email = $1)
		 ORDER BY u.id`

	rows, err := r.db.QueryContext(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []*models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) RecordEmail(ctx context.Context, userID int64, email string) error {
	query := `INSERT INTO users_history (user_id, email) VALUES ($1, $2)`

	if _, err := r.db.ExecContext(ctx, query, userID, email); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
