package reviews

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ForUser(ctx context.Context, userID int64) ([]models.Review, error) {
	query :=
		`SELECT id, addon_id, version_id, user_id, reply_to, rating, body, created_at
		 FROM reviews
		 WHERE user_id = $1 AND reply_to IS NULL
		 ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.Review
	for rows.Next() {
		var (
			rv        models.Review
			versionID sql.NullInt64
			rating    sql.NullInt64
		)
		if err := rows.Scan(&rv.ID, &rv.AddonID, &versionID, &rv.UserID, &rv.ReplyTo, &rating, &rv.Body, &rv.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rv.VersionID = versionID.Int64
		rv.Rating = int(rating.Int64)
		result = append(result, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	query :=
		`INSERT INTO reviews (addon_id, version_id, user_id, reply_to, rating, body)
		 VALUES ($1, NULLIF($2, 0), $3, $4, NULLIF($5, 0), $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		review.AddonID, review.VersionID, review.UserID, review.ReplyTo, review.Rating, review.Body).
		Scan(&review.ID, &review.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return review, nil
}
