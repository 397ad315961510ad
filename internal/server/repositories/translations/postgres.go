package translations

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Get(ctx context.Context, id int64) (map[string]string, error) {
	query :=
		`SELECT locale, localized_string FROM translations
		 WHERE id = $1 AND localized_string IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	values := map[string]string{}
	for rows.Next() {
		var loc, value string
		if err := rows.Scan(&loc, &value); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		values[loc] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return values, nil
}

func (r *PostgresRepository) Set(ctx context.Context, id int64, locale, value string) (int64, error) {
	if id == 0 {
		if err := r.db.QueryRowContext(ctx, `SELECT nextval('translations_id_seq')`).Scan(&id); err != nil {
			return 0, fmt.Errorf("db error: %w", err)
		}
	}

	query :=
		`INSERT INTO translations (id, locale, localized_string) VALUES ($1, $2, $3)
		 ON CONFLICT (id, locale) DO UPDATE SET localized_string = EXCLUDED.localized_string`
	if _, err := r.db.ExecContext(ctx, query, id, locale, value); err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return id, nil
}

func (r *PostgresRepository) DeleteLocale(ctx context.Context, id int64, locale string) (bool, error) {
	ok, err := dbx.ExecOne(ctx, r.db, `DELETE FROM translations WHERE id = $1 AND lower(locale) = lower($2)`, id, locale)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}
