package sqlite

import (
	"context"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
)

type methodsRepo struct {
	db dbtx
}

func (r *methodsRepo) GetMethodByID(ctx context.Context, id string) (domain.Method, error) {
	var m domain.Method
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM methods WHERE id = ?`, id,
	).Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		return domain.Method{}, mapNotFound(err)
	}

	effs, err := r.loadEfficiencies(ctx, m.ID)
	if err != nil {
		return domain.Method{}, err
	}
	m.Efficiencies = effs
	return m, nil
}

func (r *methodsRepo) ListMethods(ctx context.Context, offset, limit int) ([]domain.Method, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM methods`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM methods ORDER BY name LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var methods []domain.Method
	for rows.Next() {
		var m domain.Method
		if err := rows.Scan(&m.ID, &m.Name, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, 0, err
		}
		methods = append(methods, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range methods {
		effs, err := r.loadEfficiencies(ctx, methods[i].ID)
		if err != nil {
			return nil, 0, err
		}
		methods[i].Efficiencies = effs
	}
	return methods, total, nil
}

func (r *methodsRepo) CreateMethod(ctx context.Context, m domain.Method) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO methods (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		m.ID, m.Name, now, now)
	if err != nil {
		return mapConstraint(err)
	}
	return r.insertEfficiencies(ctx, m.ID, m.Efficiencies)
}

func (r *methodsRepo) UpdateMethodName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE methods SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *methodsRepo) ReplaceMethodEfficiencies(
	ctx context.Context,
	methodID string,
	effs []domain.MethodEfficiency,
) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM method_efficiencies WHERE method_id = ?`, methodID); err != nil {
		return err
	}
	if err := r.insertEfficiencies(ctx, methodID, effs); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE methods SET updated_at = ? WHERE id = ?`, time.Now().UTC(), methodID)
	return err
}

func (r *methodsRepo) DeleteMethod(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM methods WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *methodsRepo) insertEfficiencies(
	ctx context.Context,
	methodID string,
	effs []domain.MethodEfficiency,
) error {
	for _, e := range effs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO method_efficiencies (method_id, ore_id, efficiency, duration) VALUES (?, ?, ?, ?)`,
			methodID, e.OreID, e.Efficiency, e.Duration,
		); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *methodsRepo) loadEfficiencies(
	ctx context.Context,
	methodID string,
) ([]domain.MethodEfficiency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT me.ore_id, o.name, me.efficiency, me.duration
		 FROM method_efficiencies me
		 JOIN ores o ON o.id = me.ore_id
		 WHERE me.method_id = ?
		 ORDER BY o.name`, methodID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var effs []domain.MethodEfficiency
	for rows.Next() {
		var e domain.MethodEfficiency
		if err := rows.Scan(&e.OreID, &e.OreName, &e.Efficiency, &e.Duration); err != nil {
			return nil, err
		}
		effs = append(effs, e)
	}
	return effs, rows.Err()
}
