package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"pass-breeding/internal/domain/access"
)

type AccessRepo struct {
	db *sql.DB
}

var _ access.Repository = (*AccessRepo)(nil)

func (r *AccessRepo) Create(ctx context.Context, g access.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_grants (id, role, account, granted_by, created_at)
		VALUES (?,?,?,?,?)
	`, g.ID, string(g.Role), g.Account, g.GrantedBy, toMillis(g.CreatedAt))
	if isUniqueViolation(err) {
		return fmt.Errorf("grant %s/%s already exists", g.Role, g.Account)
	}
	return err
}

func (r *AccessRepo) Delete(ctx context.Context, role access.Role, account string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_grants WHERE role = ? AND account = ?`, string(role), account)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return access.ErrNotFound
	}
	return nil
}

func (r *AccessRepo) Get(ctx context.Context, role access.Role, account string) (access.Grant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, role, account, granted_by, created_at
		FROM access_grants
		WHERE role = ? AND account = ?
	`, string(role), account)
	g, err := scanGrant(row)
	if errors.Is(err, sql.ErrNoRows) {
		return access.Grant{}, access.ErrNotFound
	}
	return g, err
}

func (r *AccessRepo) ListByRole(ctx context.Context, role access.Role) ([]access.Grant, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, role, account, granted_by, created_at
		FROM access_grants
		WHERE role = ?
		ORDER BY created_at ASC
	`, string(role))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]access.Grant, 0)
	for rows.Next() {
		g, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (r *AccessRepo) Paused(ctx context.Context) (bool, error) {
	var paused int64
	err := r.db.QueryRowContext(ctx, `SELECT paused FROM system_state WHERE id = 1`).Scan(&paused)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return paused != 0, err
}

func (r *AccessRepo) SetPaused(ctx context.Context, paused bool) error {
	v := 0
	if paused {
		v = 1
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_state (id, paused) VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET paused = excluded.paused
	`, v)
	return err
}

func scanGrant(row rowScanner) (access.Grant, error) {
	var g access.Grant
	var role string
	var createdAt int64
	if err := row.Scan(&g.ID, &role, &g.Account, &g.GrantedBy, &createdAt); err != nil {
		return access.Grant{}, err
	}
	g.Role = access.Role(role)
	g.CreatedAt = fromMillis(createdAt)
	return g, nil
}
