package postgres

import (
	"context"
	"database/sql"
	"errors"

	"pass-breeding/internal/domain/access"
)

type AccessRepo struct {
	db *sql.DB
}

func NewAccessRepo(db *sql.DB) *AccessRepo {
	return &AccessRepo{db: db}
}

var _ access.Repository = (*AccessRepo)(nil)

func (r *AccessRepo) Create(ctx context.Context, g access.Grant) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO access_grants (id, role, account, granted_by, created_at)
		VALUES ($1,$2,$3,$4,$5)
	`,
		g.ID,
		string(g.Role),
		g.Account,
		g.GrantedBy,
		g.CreatedAt,
	)
	return err
}

func (r *AccessRepo) Delete(ctx context.Context, role access.Role, account string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM access_grants WHERE role = $1 AND account = $2`, string(role), account)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return access.ErrNotFound
	}
	return nil
}

func (r *AccessRepo) Get(ctx context.Context, role access.Role, account string) (access.Grant, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, role, account, granted_by, created_at
		FROM access_grants
		WHERE role = $1 AND account = $2
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
		WHERE role = $1
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
	var paused bool
	err := r.db.QueryRowContext(ctx, `SELECT paused FROM system_state WHERE id = 1`).Scan(&paused)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	return paused, err
}

func (r *AccessRepo) SetPaused(ctx context.Context, paused bool) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO system_state (id, paused) VALUES (1, $1)
		ON CONFLICT (id) DO UPDATE SET paused = EXCLUDED.paused
	`, paused)
	return err
}

func scanGrant(row rowScanner) (access.Grant, error) {
	var g access.Grant
	var role string
	if err := row.Scan(&g.ID, &role, &g.Account, &g.GrantedBy, &g.CreatedAt); err != nil {
		return access.Grant{}, err
	}
	g.Role = access.Role(role)
	g.CreatedAt = g.CreatedAt.UTC()
	return g, nil
}
