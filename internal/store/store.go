package store

import (
	"context"
	"errors"
	"time"

	"github.com/screfinery/screfinery/internal/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite for now)
// implement this. It exposes sub-repositories to keep concerns tidy and
// testable, and a transaction entry point for multi-step writes such as
// replacing a station's efficiency table wholesale.
type Store interface {
	Users() Users
	Friendships() Friendships
	Ores() Ores
	Stations() Stations
	Methods() Methods
	MiningSessions() MiningSessions

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction. If fn returns an error the
	// transaction is rolled back, otherwise it is committed. Prefer this
	// over Tx for normal use.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// GetUserByID returns a user with scopes attached.
	GetUserByID(ctx context.Context, id string) (domain.User, error)

	// GetUserByName is used during password login.
	GetUserByName(ctx context.Context, name string) (domain.User, error)

	// GetUserByMail is used to find-or-create Google sign-in users.
	GetUserByMail(ctx context.Context, mail string) (domain.User, error)

	// ListUsers applies the filter and pagination, returning the page plus
	// the unpaginated total.
	ListUsers(ctx context.Context, filter domain.UserFilter, offset, limit int) ([]domain.User, int, error)

	// CreateUser inserts a new user and its scope rows (id is provided by app via ULID).
	CreateUser(ctx context.Context, u domain.User) error

	// UpdateUser mutates non-nil fields and bumps updated_at.
	UpdateUser(ctx context.Context, id string, upd UserUpdate) error

	// ReplaceUserScopes swaps the full scope set. Scope sets are replaced
	// wholesale on permission edits, never partially mutated.
	ReplaceUserScopes(ctx context.Context, userID string, scopes []string) error

	// TouchLastLogin stamps last_login with the current time.
	TouchLastLogin(ctx context.Context, userID string) error

	// DeleteUser cascades to scopes, friendships and session invites.
	DeleteUser(ctx context.Context, userID string) error
}

// UserUpdate carries optional user mutations. Nil fields are left untouched.
type UserUpdate struct {
	Name         *string
	Mail         *string
	PasswordHash *string
	IsGoogle     *bool
	IsActive     *bool
}

type Friendships interface {
	// ListFriendships returns both directions for a user.
	ListFriendships(ctx context.Context, userID string) (domain.FriendshipList, error)

	// CreateFriendship inserts an unconfirmed edge from userID to friendID.
	CreateFriendship(ctx context.Context, userID, friendID string) error

	// ConfirmFriendship stamps confirmed on the edge pointing at friendID.
	ConfirmFriendship(ctx context.Context, userID, friendID string) error

	// DeleteFriendship removes the edge in either direction.
	DeleteFriendship(ctx context.Context, userID, friendID string) error
}

type Ores interface {
	GetOreByID(ctx context.Context, id string) (domain.Ore, error)
	ListOres(ctx context.Context, offset, limit int) ([]domain.Ore, int, error)
	CreateOre(ctx context.Context, o domain.Ore) error
	UpdateOreName(ctx context.Context, id, name string) error
	DeleteOre(ctx context.Context, id string) error
}

type Stations interface {
	GetStationByID(ctx context.Context, id string) (domain.Station, error)
	ListStations(ctx context.Context, offset, limit int) ([]domain.Station, int, error)
	CreateStation(ctx context.Context, s domain.Station) error
	UpdateStationName(ctx context.Context, id, name string) error

	// ReplaceStationEfficiencies swaps the full per-ore bonus table.
	ReplaceStationEfficiencies(ctx context.Context, stationID string, effs []domain.StationEfficiency) error

	DeleteStation(ctx context.Context, id string) error
}

type Methods interface {
	GetMethodByID(ctx context.Context, id string) (domain.Method, error)
	ListMethods(ctx context.Context, offset, limit int) ([]domain.Method, int, error)
	CreateMethod(ctx context.Context, m domain.Method) error
	UpdateMethodName(ctx context.Context, id, name string) error

	// ReplaceMethodEfficiencies swaps the full per-ore efficiency table.
	ReplaceMethodEfficiencies(ctx context.Context, methodID string, effs []domain.MethodEfficiency) error

	DeleteMethod(ctx context.Context, id string) error
}

type MiningSessions interface {
	GetSessionByID(ctx context.Context, id string) (domain.MiningSession, error)

	// ListSessions returns the list projection with entry/invite counts.
	ListSessions(ctx context.Context, offset, limit int) ([]domain.MiningSessionListItem, int, error)

	CreateSession(ctx context.Context, s domain.MiningSession) error

	// UpdateSession mutates non-nil fields and bumps updated_at.
	UpdateSession(ctx context.Context, id string, upd SessionUpdate) error

	// ReplaceSessionInvites swaps the invited-user list wholesale.
	ReplaceSessionInvites(ctx context.Context, sessionID string, userIDs []string) error

	DeleteSession(ctx context.Context, id string) error

	ListEntries(ctx context.Context, sessionID string) ([]domain.MiningSessionEntry, error)
	GetEntryByID(ctx context.Context, entryID string) (domain.MiningSessionEntry, error)
	CreateEntry(ctx context.Context, e domain.MiningSessionEntry) error
	UpdateEntry(ctx context.Context, entryID string, upd EntryUpdate) error
	DeleteEntry(ctx context.Context, entryID string) error
}

// SessionUpdate carries optional mining session mutations. Archived, YieldSCU
// and YieldUEC use double pointers so callers can distinguish "leave alone"
// (nil) from "clear" (pointer to nil).
type SessionUpdate struct {
	Name     *string
	Archived **time.Time
	YieldSCU **float64
	YieldUEC **float64
}

// EntryUpdate carries optional session entry mutations.
type EntryUpdate struct {
	StationID *string
	OreID     *string
	MethodID  *string
	Quantity  *float64
	Duration  *float64
}
