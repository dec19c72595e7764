package domain

import "time"

type User struct {
	ID           string
	Name         string
	Mail         string
	PasswordHash string // argon2 encoded
	IsGoogle     bool
	IsActive     bool
	Scopes       []string // Canonical "resource.action" strings, one row each in storage
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserFilter narrows List queries. Nil fields are not applied.
type UserFilter struct {
	ID       *string
	Name     *string
	Mail     *string
	IsGoogle *bool
	IsActive *bool
}
