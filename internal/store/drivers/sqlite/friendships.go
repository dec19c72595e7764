package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
)

type friendshipsRepo struct {
	db dbtx
}

const friendshipColumns = `f.user_id, u.name, f.friend_id, v.name, f.created_at, f.confirmed_at`

const friendshipJoin = `
	FROM friendships f
	JOIN users u ON u.id = f.user_id
	JOIN users v ON v.id = f.friend_id`

func (r *friendshipsRepo) ListFriendships(
	ctx context.Context,
	userID string,
) (domain.FriendshipList, error) {
	outgoing, err := r.list(ctx,
		`SELECT `+friendshipColumns+friendshipJoin+` WHERE f.user_id = ? ORDER BY f.created_at`,
		userID)
	if err != nil {
		return domain.FriendshipList{}, err
	}

	incoming, err := r.list(ctx,
		`SELECT `+friendshipColumns+friendshipJoin+` WHERE f.friend_id = ? ORDER BY f.created_at`,
		userID)
	if err != nil {
		return domain.FriendshipList{}, err
	}

	return domain.FriendshipList{Outgoing: outgoing, Incoming: incoming}, nil
}

func (r *friendshipsRepo) list(ctx context.Context, query string, args ...any) ([]domain.Friendship, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Friendship
	for rows.Next() {
		var f domain.Friendship
		var confirmed sql.NullTime
		if err := rows.Scan(&f.UserID, &f.UserName, &f.FriendID, &f.FriendName, &f.CreatedAt, &confirmed); err != nil {
			return nil, err
		}
		f.Confirmed = mapNullTimePtr(confirmed)
		out = append(out, f)
	}
	return out, rows.Err()
}

func (r *friendshipsRepo) CreateFriendship(ctx context.Context, userID, friendID string) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO friendships (user_id, friend_id, created_at) VALUES (?, ?, ?)`,
		userID, friendID, time.Now().UTC())
	return mapConstraint(err)
}

func (r *friendshipsRepo) ConfirmFriendship(ctx context.Context, userID, friendID string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE friendships SET confirmed_at = ? WHERE user_id = ? AND friend_id = ? AND confirmed_at IS NULL`,
		time.Now().UTC(), userID, friendID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

func (r *friendshipsRepo) DeleteFriendship(ctx context.Context, userID, friendID string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM friendships
		 WHERE (user_id = ? AND friend_id = ?) OR (user_id = ? AND friend_id = ?)`,
		userID, friendID, friendID, userID)
	if err != nil {
		return err
	}
	return requireRowAffected(res)
}

var _ store.Friendships = (*friendshipsRepo)(nil)
