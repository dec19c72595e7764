package domain

import "time"

type Ore struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
