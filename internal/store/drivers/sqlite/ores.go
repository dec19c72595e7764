package sqlite

import (
	"context"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
)

type oresRepo struct {
	db dbtx
}

func (r *oresRepo) GetOreByID(ctx context.Context, id string) (domain.Ore, error) {
	var o domain.Ore
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM ores WHERE id = ?`, id,
	).Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return domain.Ore{}, mapNotFound(err)
	}
	return o, nil
}

func (r *oresRepo) ListOres(ctx context.Context, offset, limit int) ([]domain.Ore, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM ores`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM ores ORDER BY name LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ores []domain.Ore
	for rows.Next() {
		var o domain.Ore
		if err := rows.Scan(&o.ID, &o.Name, &o.CreatedAt, &o.UpdatedAt); err != nil {
			return nil, 0, err
		}
		ores = append(ores, o)
	}
	return ores, total, rows.Err()
}

func (r *oresRepo) CreateOre(ctx context.Context, o domain.Ore) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO ores (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		o.ID, o.Name, now, now)
	return mapConstraint(err)
}

func (r *oresRepo) UpdateOreName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE ores SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *oresRepo) DeleteOre(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM ores WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}
