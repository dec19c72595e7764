package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
)

type miningSessionsRepo struct {
	db dbtx
}

func (r *miningSessionsRepo) GetSessionByID(ctx context.Context, id string) (domain.MiningSession, error) {
	var s domain.MiningSession
	var archived sql.NullTime
	var scu, uec sql.NullFloat64

	err := r.db.QueryRowContext(ctx,
		`SELECT s.id, s.creator_id, u.name, s.name, s.archived_at, s.yield_scu, s.yield_uec, s.created_at, s.updated_at
		 FROM mining_sessions s
		 JOIN users u ON u.id = s.creator_id
		 WHERE s.id = ?`, id,
	).Scan(&s.ID, &s.Creator.ID, &s.Creator.Name, &s.Name, &archived, &scu, &uec, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return domain.MiningSession{}, mapNotFound(err)
	}
	s.Archived = mapNullTimePtr(archived)
	s.YieldSCU = mapNullFloatPtr(scu)
	s.YieldUEC = mapNullFloatPtr(uec)

	invites, err := r.loadInvites(ctx, s.ID)
	if err != nil {
		return domain.MiningSession{}, err
	}
	s.UsersInvited = invites
	return s, nil
}

func (r *miningSessionsRepo) ListSessions(
	ctx context.Context,
	offset, limit int,
) ([]domain.MiningSessionListItem, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mining_sessions`).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT s.id, s.creator_id, u.name, s.name, s.archived_at, s.yield_scu, s.yield_uec,
		        s.created_at, s.updated_at,
		        (SELECT COUNT(*) FROM mining_session_entries e WHERE e.session_id = s.id),
		        (SELECT COUNT(*) FROM mining_session_invites i WHERE i.session_id = s.id)
		 FROM mining_sessions s
		 JOIN users u ON u.id = s.creator_id
		 ORDER BY s.created_at DESC
		 LIMIT ? OFFSET ?`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var items []domain.MiningSessionListItem
	for rows.Next() {
		var it domain.MiningSessionListItem
		var archived sql.NullTime
		var scu, uec sql.NullFloat64
		if err := rows.Scan(
			&it.ID, &it.Creator.ID, &it.Creator.Name, &it.Name, &archived, &scu, &uec,
			&it.CreatedAt, &it.UpdatedAt, &it.EntriesCount, &it.UsersInvitedCount,
		); err != nil {
			return nil, 0, err
		}
		it.Archived = mapNullTimePtr(archived)
		it.YieldSCU = mapNullFloatPtr(scu)
		it.YieldUEC = mapNullFloatPtr(uec)
		items = append(items, it)
	}
	return items, total, rows.Err()
}

func (r *miningSessionsRepo) CreateSession(ctx context.Context, s domain.MiningSession) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mining_sessions (id, creator_id, name, archived_at, yield_scu, yield_uec, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		s.ID, s.Creator.ID, s.Name,
		mapOptionalTime(s.Archived), mapOptionalFloat(s.YieldSCU), mapOptionalFloat(s.YieldUEC),
		now, now)
	return mapConstraint(err)
}

func (r *miningSessionsRepo) UpdateSession(ctx context.Context, id string, upd store.SessionUpdate) error {
	var sets []string
	var args []any

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Archived != nil {
		sets = append(sets, "archived_at = ?")
		args = append(args, mapOptionalTime(*upd.Archived))
	}
	if upd.YieldSCU != nil {
		sets = append(sets, "yield_scu = ?")
		args = append(args, mapOptionalFloat(*upd.YieldSCU))
	}
	if upd.YieldUEC != nil {
		sets = append(sets, "yield_uec = ?")
		args = append(args, mapOptionalFloat(*upd.YieldUEC))
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE mining_sessions SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *miningSessionsRepo) ReplaceSessionInvites(ctx context.Context, sessionID string, userIDs []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM mining_session_invites WHERE session_id = ?`, sessionID); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, uid := range userIDs {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO mining_session_invites (session_id, user_id, created_at) VALUES (?, ?, ?)`,
			sessionID, uid, now,
		); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *miningSessionsRepo) DeleteSession(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mining_sessions WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

const entryColumns = `e.id, e.session_id,
	e.user_id, u.name,
	e.station_id, st.name,
	e.ore_id, o.name,
	e.method_id, m.name,
	e.quantity, e.duration, e.created_at, e.updated_at`

const entryJoin = `
	FROM mining_session_entries e
	JOIN users u ON u.id = e.user_id
	JOIN stations st ON st.id = e.station_id
	JOIN ores o ON o.id = e.ore_id
	JOIN methods m ON m.id = e.method_id`

func (r *miningSessionsRepo) ListEntries(ctx context.Context, sessionID string) ([]domain.MiningSessionEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+entryJoin+` WHERE e.session_id = ? ORDER BY e.created_at`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.MiningSessionEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *miningSessionsRepo) GetEntryByID(ctx context.Context, entryID string) (domain.MiningSessionEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+entryJoin+` WHERE e.id = ?`, entryID)
	e, err := scanEntry(row)
	if err != nil {
		return domain.MiningSessionEntry{}, mapNotFound(err)
	}
	return e, nil
}

func (r *miningSessionsRepo) CreateEntry(ctx context.Context, e domain.MiningSessionEntry) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO mining_session_entries (id, session_id, user_id, station_id, ore_id, method_id, quantity, duration, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.SessionID, e.User.ID, e.Station.ID, e.Ore.ID, e.Method.ID,
		e.Quantity, e.Duration, now, now)
	return mapConstraint(err)
}

func (r *miningSessionsRepo) UpdateEntry(ctx context.Context, entryID string, upd store.EntryUpdate) error {
	var sets []string
	var args []any

	if upd.StationID != nil {
		sets = append(sets, "station_id = ?")
		args = append(args, *upd.StationID)
	}
	if upd.OreID != nil {
		sets = append(sets, "ore_id = ?")
		args = append(args, *upd.OreID)
	}
	if upd.MethodID != nil {
		sets = append(sets, "method_id = ?")
		args = append(args, *upd.MethodID)
	}
	if upd.Quantity != nil {
		sets = append(sets, "quantity = ?")
		args = append(args, *upd.Quantity)
	}
	if upd.Duration != nil {
		sets = append(sets, "duration = ?")
		args = append(args, *upd.Duration)
	}
	if len(sets) == 0 {
		return nil
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), entryID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE mining_session_entries SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *miningSessionsRepo) DeleteEntry(ctx context.Context, entryID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM mining_session_entries WHERE id = ?`, entryID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *miningSessionsRepo) loadInvites(ctx context.Context, sessionID string) ([]domain.Related, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT i.user_id, u.name
		 FROM mining_session_invites i
		 JOIN users u ON u.id = i.user_id
		 WHERE i.session_id = ?
		 ORDER BY u.name`, sessionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invites []domain.Related
	for rows.Next() {
		var rel domain.Related
		if err := rows.Scan(&rel.ID, &rel.Name); err != nil {
			return nil, err
		}
		invites = append(invites, rel)
	}
	return invites, rows.Err()
}

func scanEntry(row rowScanner) (domain.MiningSessionEntry, error) {
	var e domain.MiningSessionEntry
	err := row.Scan(
		&e.ID, &e.SessionID,
		&e.User.ID, &e.User.Name,
		&e.Station.ID, &e.Station.Name,
		&e.Ore.ID, &e.Ore.Name,
		&e.Method.ID, &e.Method.Name,
		&e.Quantity, &e.Duration, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return domain.MiningSessionEntry{}, err
	}
	return e, nil
}
