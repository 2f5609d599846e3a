package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"pass-breeding/internal/domain/passes"
)

// SettingsRepo guarda el documento de settings en una fila única.
type SettingsRepo struct {
	db *sql.DB
}

var _ passes.SettingsRepository = (*SettingsRepo)(nil)

func (r *SettingsRepo) LoadSettings(ctx context.Context) ([]byte, error) {
	var doc string
	err := r.db.QueryRowContext(ctx, `SELECT doc FROM settings WHERE id = 1`).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, passes.ErrNoSettings
	}
	if err != nil {
		return nil, err
	}
	return []byte(doc), nil
}

func (r *SettingsRepo) SaveSettings(ctx context.Context, doc []byte) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO settings (id, doc, updated_at) VALUES (1, ?, ?)
		ON CONFLICT (id) DO UPDATE SET doc = excluded.doc, updated_at = excluded.updated_at
	`, string(doc), toMillis(time.Now()))
	return err
}
