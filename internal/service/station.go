package service

import (
	"context"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/idx"
)

type StationService struct {
	Store store.Store
}

// StationParams carries create/update input. Efficiencies replace the
// station's per-ore bonus table wholesale.
type StationParams struct {
	Name         string
	Efficiencies []domain.StationEfficiency
}

func (s *StationService) validate(p StationParams) error {
	if err := validateName(p.Name); err != nil {
		return err
	}
	seen := make(map[string]struct{}, len(p.Efficiencies))
	for _, eff := range p.Efficiencies {
		if eff.OreID == "" {
			return invalid("efficiencies", "ore_id must not be empty")
		}
		if _, dup := seen[eff.OreID]; dup {
			return invalid("efficiencies", "duplicate ore "+eff.OreID)
		}
		seen[eff.OreID] = struct{}{}
	}
	return nil
}

func (s *StationService) Create(ctx context.Context, p StationParams) (domain.Station, error) {
	if err := s.validate(p); err != nil {
		return domain.Station{}, err
	}

	station := domain.Station{ID: idx.New().String(), Name: p.Name}
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Stations().CreateStation(ctx, station); err != nil {
			return err
		}
		return tx.Stations().ReplaceStationEfficiencies(ctx, station.ID, p.Efficiencies)
	})
	if err != nil {
		return domain.Station{}, err
	}
	return s.Store.Stations().GetStationByID(ctx, station.ID)
}

func (s *StationService) Get(ctx context.Context, id string) (domain.Station, error) {
	return s.Store.Stations().GetStationByID(ctx, id)
}

func (s *StationService) List(ctx context.Context, offset, limit int) ([]domain.Station, int, error) {
	return s.Store.Stations().ListStations(ctx, offset, limit)
}

func (s *StationService) Update(ctx context.Context, id string, p StationParams) (domain.Station, error) {
	if err := s.validate(p); err != nil {
		return domain.Station{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Stations().UpdateStationName(ctx, id, p.Name); err != nil {
			return err
		}
		return tx.Stations().ReplaceStationEfficiencies(ctx, id, p.Efficiencies)
	})
	if err != nil {
		return domain.Station{}, err
	}
	return s.Store.Stations().GetStationByID(ctx, id)
}

func (s *StationService) Delete(ctx context.Context, id string) error {
	return s.Store.Stations().DeleteStation(ctx, id)
}
