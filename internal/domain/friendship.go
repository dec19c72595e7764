package domain

import "time"

// Friendship is a directed edge: UserID requested, FriendID confirms.
type Friendship struct {
	UserID     string
	UserName   string
	FriendID   string
	FriendName string
	CreatedAt  time.Time
	Confirmed  *time.Time
}

// FriendshipList groups a user's edges by direction.
type FriendshipList struct {
	Outgoing []Friendship
	Incoming []Friendship
}
