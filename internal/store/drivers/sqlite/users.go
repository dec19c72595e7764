package sqlite

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
)

type usersRepo struct {
	db dbtx
}

const userColumns = `id, name, mail, password_hash, is_google, is_active, last_login, created_at, updated_at`

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *usersRepo) GetUserByName(ctx context.Context, name string) (domain.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE name = ?`, name)
}

func (r *usersRepo) GetUserByMail(ctx context.Context, mail string) (domain.User, error) {
	return r.getBy(ctx, `SELECT `+userColumns+` FROM users WHERE mail = ?`, mail)
}

func (r *usersRepo) getBy(ctx context.Context, query string, arg any) (domain.User, error) {
	row := r.db.QueryRowContext(ctx, query, arg)
	u, err := scanUser(row)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}

	scopes, err := r.loadScopes(ctx, u.ID)
	if err != nil {
		return domain.User{}, err
	}
	u.Scopes = scopes
	return u, nil
}

func (r *usersRepo) ListUsers(
	ctx context.Context,
	filter domain.UserFilter,
	offset, limit int,
) ([]domain.User, int, error) {
	where, args := buildUserFilter(filter)

	var total int
	countQuery := `SELECT COUNT(*) FROM users` + where
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + ` ORDER BY name LIMIT ? OFFSET ?`
	rows, err := r.db.QueryContext(ctx, query, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	for i := range users {
		scopes, err := r.loadScopes(ctx, users[i].ID)
		if err != nil {
			return nil, 0, err
		}
		users[i].Scopes = scopes
	}

	return users, total, nil
}

func buildUserFilter(filter domain.UserFilter) (string, []any) {
	var clauses []string
	var args []any

	if filter.ID != nil {
		clauses = append(clauses, "id = ?")
		args = append(args, *filter.ID)
	}
	if filter.Name != nil {
		clauses = append(clauses, "name = ?")
		args = append(args, *filter.Name)
	}
	if filter.Mail != nil {
		clauses = append(clauses, "mail = ?")
		args = append(args, *filter.Mail)
	}
	if filter.IsGoogle != nil {
		clauses = append(clauses, "is_google = ?")
		args = append(args, *filter.IsGoogle)
	}
	if filter.IsActive != nil {
		clauses = append(clauses, "is_active = ?")
		args = append(args, *filter.IsActive)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, name, mail, password_hash, is_google, is_active, last_login, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Name, u.Mail, u.PasswordHash, u.IsGoogle, u.IsActive,
		mapOptionalTime(u.LastLogin), now, now,
	)
	if err != nil {
		return mapConstraint(err)
	}

	for _, sc := range u.Scopes {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO user_scopes (user_id, scope, created_at) VALUES (?, ?, ?)`,
			u.ID, sc, now,
		); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *usersRepo) UpdateUser(ctx context.Context, id string, upd store.UserUpdate) error {
	var sets []string
	var args []any

	if upd.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *upd.Name)
	}
	if upd.Mail != nil {
		sets = append(sets, "mail = ?")
		args = append(args, *upd.Mail)
	}
	if upd.PasswordHash != nil {
		sets = append(sets, "password_hash = ?")
		args = append(args, *upd.PasswordHash)
	}
	if upd.IsGoogle != nil {
		sets = append(sets, "is_google = ?")
		args = append(args, *upd.IsGoogle)
	}
	if upd.IsActive != nil {
		sets = append(sets, "is_active = ?")
		args = append(args, *upd.IsActive)
	}
	// Always touch updated_at, even when only the scope rows change. This
	// also makes an update of an unknown id report ErrNotFound instead of
	// silently succeeding.
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return mapConstraint(err)
	}
	return requireRowAffected(res)
}

func (r *usersRepo) ReplaceUserScopes(ctx context.Context, userID string, scopes []string) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM user_scopes WHERE user_id = ?`, userID); err != nil {
		return err
	}

	now := time.Now().UTC()
	for _, sc := range scopes {
		if _, err := r.db.ExecContext(ctx,
			`INSERT INTO user_scopes (user_id, scope, created_at) VALUES (?, ?, ?)`,
			userID, sc, now,
		); err != nil {
			return mapConstraint(err)
		}
	}
	return nil
}

func (r *usersRepo) TouchLastLogin(ctx context.Context, userID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login = ? WHERE id = ?`, time.Now().UTC(), userID)
	return err
}

func (r *usersRepo) DeleteUser(ctx context.Context, userID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *usersRepo) loadScopes(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT scope FROM user_scopes WHERE user_id = ? ORDER BY scope`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var sc string
		if err := rows.Scan(&sc); err != nil {
			return nil, err
		}
		scopes = append(scopes, sc)
	}
	return scopes, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (domain.User, error) {
	var u domain.User
	var lastLogin sql.NullTime
	err := row.Scan(
		&u.ID, &u.Name, &u.Mail, &u.PasswordHash, &u.IsGoogle, &u.IsActive,
		&lastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, err
	}
	u.LastLogin = mapNullTimePtr(lastLogin)
	return u, nil
}

// requireRowAffected maps "no rows touched" onto store.ErrNotFound so update
// and delete callers get a uniform signal.
func requireRowAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
