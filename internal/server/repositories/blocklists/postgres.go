package blocklists

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

func (r *PostgresRepository) exists(ctx context.Context, query string, arg string) (bool, error) {
	var ok bool
	if err := r.db.QueryRowContext(ctx, query, arg).Scan(&ok); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return ok, nil
}

func (r *PostgresRepository) NameBlocked(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_names WHERE strpos(lower($1), lower(name)) > 0)`, name)
}

func (r *PostgresRepository) EmailDomainBlocked(ctx context.Context, domain string) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_email_domains WHERE domain = $1)`, domain)
}

func (r *PostgresRepository) PasswordBlocked(ctx context.Context, password string) (bool, error) {
	return r.exists(ctx,
		`SELECT EXISTS (SELECT 1 FROM blocked_passwords WHERE password = $1)`, password)
}

func (r *PostgresRepository) add(ctx context.Context, query, value string) error {
	if _, err := r.db.ExecContext(ctx, query, value); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) AddName(ctx context.Context, name string) error {
	return r.add(ctx, `INSERT INTO blocked_names (name) VALUES ($1) ON CONFLICT DO NOTHING`, name)
}

func (r *PostgresRepository) AddEmailDomain(ctx context.Context, domain string) error {
	return r.add(ctx, `INSERT INTO blocked_email_domains (domain) VALUES ($1) ON CONFLICT DO NOTHING`, domain)
}

func (r *PostgresRepository) AddPassword(ctx context.Context, password string) error {
	return r.add(ctx, `INSERT INTO blocked_passwords (password) VALUES ($1) ON CONFLICT DO NOTHING`, password)
}
