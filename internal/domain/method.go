package domain

import "time"

type Method struct {
	ID           string
	Name         string
	Efficiencies []MethodEfficiency
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// MethodEfficiency describes how well a refining method processes one ore.
// Efficiency is a yield fraction in (0, 1]; Duration is in minutes per unit.
type MethodEfficiency struct {
	OreID      string
	OreName    string
	Efficiency float64
	Duration   float64
}
