package activitylog

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/addonaccounts/internal/dbx"
	"github.com/dmitrijs2005/addonaccounts/internal/server/models"
)

const selectForVersion = `SELECT a.id, a.user_id, a.action, a.details, a.created_at
		 FROM activity_log a
		 JOIN version_log vl ON vl.activity_log_id = a.id
		 WHERE vl.version_id = $1`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func scanEntry(s dbx.Scanner) (*models.ActivityLog, error) {
	var (
		e       models.ActivityLog
		details []byte
	)
	if err := s.Scan(&e.ID, &e.UserID, &e.Action, &details, &e.CreatedAt); err != nil {
		return nil, err
	}
	e.Details = details
	return &e, nil
}

func actionArgs(actions []models.ActivityAction) []any {
	args := make([]any, len(actions))
	for i, a := range actions {
		args[i] = int(a)
	}
	return args
}

func (r *PostgresRepository) ForVersion(ctx context.Context, versionID int64, actions []models.ActivityAction) ([]models.ActivityLog, error) {
	if len(actions) == 0 {
		return nil, nil
	}
	query := selectForVersion +
		` AND a.action IN (` + dbx.Placeholders(2, len(actions)) + `)
		 ORDER BY a.created_at DESC, a.id DESC`

	args := append([]any{versionID}, actionArgs(actions)...)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var result []models.ActivityLog
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, entry *models.ActivityLog, versionID int64) (*models.ActivityLog, error) {
	details := []byte(entry.Details)
	if len(details) == 0 {
		details = []byte("{}")
	}

	query :=
		`INSERT INTO activity_log (user_id, action, details)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, entry.UserID, int(entry.Action), details).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	link := `INSERT INTO version_log (activity_log_id, version_id) VALUES ($1, $2)`
	if _, err := r.db.ExecContext(ctx, link, entry.ID, versionID); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return entry, nil
}
