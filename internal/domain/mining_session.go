package domain

import "time"

// Related is a lightweight reference to another entity, used where a session
// links users, stations, ores and methods without embedding them.
type Related struct {
	ID   string
	Name string
}

type MiningSession struct {
	ID           string
	Creator      Related
	Name         string
	Archived     *time.Time
	YieldSCU     *float64
	YieldUEC     *float64
	UsersInvited []Related
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MiningSessionListItem is the list projection with aggregate counts, so the
// index view never loads entries or invites.
type MiningSessionListItem struct {
	ID                string
	Creator           Related
	Name              string
	Archived          *time.Time
	YieldSCU          *float64
	YieldUEC          *float64
	EntriesCount      int
	UsersInvitedCount int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type MiningSessionEntry struct {
	ID        string
	SessionID string
	User      Related
	Station   Related
	Ore       Related
	Method    Related
	Quantity  float64
	Duration  float64
	CreatedAt time.Time
	UpdatedAt time.Time
}
