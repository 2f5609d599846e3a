package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pass-breeding/internal/domain/passes"
)

type SettingsRepo struct {
	db *sql.DB
}

func NewSettingsRepo(db *sql.DB) *SettingsRepo {
	return &SettingsRepo{db: db}
}

var _ passes.SettingsRepository = (*SettingsRepo)(nil)

func (r *SettingsRepo) LoadSettings(ctx context.Context) ([]byte, error) {
	var doc []byte
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM settings WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, passes.ErrNoSettings
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *SettingsRepo) SaveSettings(ctx context.Context, doc []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, doc, updated_at) VALUES (1, $1, now())
		ON CONFLICT (id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at
	`, string(doc))
	return err
}
