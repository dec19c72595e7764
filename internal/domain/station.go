package domain

import "time"

type Station struct {
	ID           string
	Name         string
	Efficiencies []StationEfficiency
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// StationEfficiency is the refinery bonus a station applies to one ore.
type StationEfficiency struct {
	OreID   string
	OreName string
	Bonus   float64
}
