package sqlite

import (
	"context"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
)

type stationsRepo struct {
	db dbtx
}

func (r *stationsRepo) GetStationByID(ctx context.Context, id string) (domain.Station, error) {
	var s domain.Station
	err := r.db.QueryRowContext(ctx,
		`SELECT id, name, created_at, updated_at FROM stations WHERE id = ?`, id,
	).Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.Station{}, mapNotFound(err)
	}

	effs, err := r.loadEfficiencies(ctx, s.ID)
	if err != nil {
		return domain.Station{}, err
	}
	s.Efficiencies = effs
	return s, nil
}

func (r *stationsRepo) ListStations(ctx context.Context, offset, limit int) ([]domain.Station, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM stations`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, created_at, updated_at FROM stations ORDER BY name LIMIT ? OFFSET ?`,
		limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var stations []domain.Station
	for rows.Next() {
		var s domain.Station
		if err := rows.Scan(&s.ID, &s.Name, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, 0, err
		}
		stations = append(stations, s)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range stations {
		effs, err := r.loadEfficiencies(ctx, stations[i].ID)
		if err != nil {
			return nil, 0, err
		}
		stations[i].Efficiencies = effs
	}
	return stations, total, nil
}

func (r *stationsRepo) CreateStation(ctx context.Context, s domain.Station) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO stations (id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		s.ID, s.Name, now, now)
	if err != nil {
		return mapConstraint(err)
	}
	return r.insertEfficiencies(ctx, s.ID, s.Efficiencies)
}

func (r *stationsRepo) UpdateStationName(ctx context.Context, id, name string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE stations SET name = ?, updated_at = ? WHERE id = ?`,
		name, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *stationsRepo) ReplaceStationEfficiencies(
	ctx context.Context,
	stationID string,
	effs []domain.StationEfficiency,
) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM station_efficiencies WHERE station_id = ?`, stationID); err != nil {
		return err
	}
	if err := r.insertEfficiencies(ctx, stationID, effs); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE stations SET updated_at = ? WHERE id = ?`, time.Now().UTC(), stationID)
	return err
}

func (r *stationsRepo) DeleteStation(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM stations WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *stationsRepo) insertEfficiencies(
	ctx context.Context,
	stationID string,
	effs []domain.StationEfficiency,
) error {
	for _, e := range effs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO station_efficiencies (station_id, ore_id, efficiency_bonus) VALUES (?, ?, ?)`,
			stationID, e.OreID, e.Bonus,
		); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *stationsRepo) loadEfficiencies(
	ctx context.Context,
	stationID string,
) ([]domain.StationEfficiency, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT se.ore_id, o.name, se.efficiency_bonus
		 FROM station_efficiencies se
		 JOIN ores o ON o.id = se.ore_id
		 WHERE se.station_id = ?
		 ORDER BY o.name`, stationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var effs []domain.StationEfficiency
	for rows.Next() {
		var e domain.StationEfficiency
		if err := rows.Scan(&e.OreID, &e.OreName, &e.Bonus); err != nil {
			return nil, err
		}
		effs = append(effs, e)
	}
	return effs, rows.Err()
}
