package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"pass-breeding/internal/domain/genetics"
	"pass-breeding/internal/domain/passes"
)

type PassesRepo struct {
	db *sql.DB
}

var _ passes.Store = (*PassesRepo)(nil)

const passColumns = `id, genes, matron_id, sire_id, singer_id, class, generation,
	cooldown_index, cooldown_end_time, siring_with_id, birth_time, channel`

func (r *PassesRepo) GetByID(ctx context.Context, id passes.PassID) (passes.Pass, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+passColumns+` FROM passes WHERE id = ?`, int64(id))
	p, err := scanPass(row)
	if errors.Is(err, sql.ErrNoRows) {
		return passes.Pass{}, passes.ErrNotFound
	}
	return p, err
}

func (r *PassesRepo) Count(ctx context.Context) (uint64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passes`).Scan(&n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (r *PassesRepo) CountByChannel(ctx context.Context, ch passes.Channel) (uint64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passes WHERE channel = ?`, string(ch)).Scan(&n); err != nil {
		return 0, err
	}
	return uint64(n), nil
}

func (r *PassesRepo) SiringApproval(ctx context.Context, sireID passes.PassID) (string, error) {
	var grantee string
	err := r.db.QueryRowContext(ctx, `SELECT grantee FROM siring_approvals WHERE sire_id = ?`, int64(sireID)).Scan(&grantee)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return grantee, err
}

func (r *PassesRepo) OwnerOf(ctx context.Context, id passes.PassID) (string, error) {
	var owner string
	err := r.db.QueryRowContext(ctx, `SELECT owner FROM passes WHERE id = ?`, int64(id)).Scan(&owner)
	if errors.Is(err, sql.ErrNoRows) {
		return "", passes.ErrNotFound
	}
	return owner, err
}

func (r *PassesRepo) TokensOf(ctx context.Context, owner string) ([]passes.PassID, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `SELECT id FROM passes WHERE owner = ? ORDER BY id ASC`, owner)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]passes.PassID, 0)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, passes.PassID(id))
	}
	return out, rows.Err()
}

// Apply confirma el changeset en una transacción.
func (r *PassesRepo) Apply(ctx context.Context, cs passes.Changeset) (err error) {
	if cs.Empty() {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	for _, m := range cs.Minted {
		p := m.Pass
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO passes (
				id, owner, genes, matron_id, sire_id, singer_id, class, generation,
				cooldown_index, cooldown_end_time, siring_with_id, birth_time, channel
			) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
		`,
			int64(p.ID),
			m.Owner,
			int64(p.Genes),
			int64(p.MatronID),
			int64(p.SireID),
			int64(p.SingerID),
			int64(p.Class),
			int64(p.Generation),
			int64(p.CooldownIndex),
			toDeadlineMillis(p.CooldownEndTime),
			int64(p.SiringWithID),
			toMillis(p.BirthTime),
			string(p.Channel),
		); err != nil {
			return fmt.Errorf("insert pass %d: %w", p.ID, err)
		}
	}

	for _, p := range cs.Updated {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			UPDATE passes
			SET cooldown_index = ?, cooldown_end_time = ?, siring_with_id = ?
			WHERE id = ?
		`,
			int64(p.CooldownIndex),
			toDeadlineMillis(p.CooldownEndTime),
			int64(p.SiringWithID),
			int64(p.ID),
		)
		if err != nil {
			return fmt.Errorf("update pass %d: %w", p.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			err = passes.ErrNotFound
			return err
		}
	}

	for _, t := range cs.Transfers {
		var res sql.Result
		res, err = tx.ExecContext(ctx, `UPDATE passes SET owner = ? WHERE id = ? AND owner = ?`, t.To, int64(t.ID), t.From)
		if err != nil {
			return fmt.Errorf("transfer pass %d: %w", t.ID, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			err = fmt.Errorf("pass %d: owner changed", t.ID)
			return err
		}
	}

	for _, a := range cs.Approvals {
		if a.Grantee == "" {
			_, err = tx.ExecContext(ctx, `DELETE FROM siring_approvals WHERE sire_id = ?`, int64(a.SireID))
		} else {
			_, err = tx.ExecContext(ctx, `
				INSERT INTO siring_approvals (sire_id, grantee) VALUES (?, ?)
				ON CONFLICT (sire_id) DO UPDATE SET grantee = excluded.grantee
			`, int64(a.SireID), a.Grantee)
		}
		if err != nil {
			return fmt.Errorf("siring approval %d: %w", a.SireID, err)
		}
	}

	for _, e := range cs.Events {
		if _, err = tx.ExecContext(ctx, `
			INSERT INTO pass_events (id, pass_id, type, actor, occurred_at, payload)
			VALUES (?,?,?,?,?,?)
		`,
			e.ID,
			int64(e.PassID),
			string(e.Type),
			e.Actor,
			toMillis(e.OccurredAt),
			string(e.Payload),
		); err != nil {
			return fmt.Errorf("insert event %s: %w", e.Type, err)
		}
	}

	return tx.Commit()
}

func scanPass(row rowScanner) (passes.Pass, error) {
	var (
		id, genes, matron, sire, singer, class int64
		generation, cooldownIdx, siringWith    int64
		cooldownEnd, birth                     int64
		channel                                string
	)
	if err := row.Scan(
		&id,
		&genes,
		&matron,
		&sire,
		&singer,
		&class,
		&generation,
		&cooldownIdx,
		&cooldownEnd,
		&siringWith,
		&birth,
		&channel,
	); err != nil {
		return passes.Pass{}, err
	}
	return passes.Pass{
		ID:              passes.PassID(id),
		Genes:           genetics.Genes(genes),
		MatronID:        passes.PassID(matron),
		SireID:          passes.PassID(sire),
		SingerID:        uint32(singer),
		Class:           genetics.Class(class),
		Generation:      uint32(generation),
		CooldownIndex:   uint32(cooldownIdx),
		CooldownEndTime: fromNullableMillis(cooldownEnd),
		SiringWithID:    passes.PassID(siringWith),
		BirthTime:       fromMillis(birth),
		Channel:         passes.Channel(channel),
	}, nil
}
