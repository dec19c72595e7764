package service

import (
	"context"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/idx"
)

type OreService struct {
	Store store.Store
}

func (s *OreService) Create(ctx context.Context, name string) (domain.Ore, error) {
	if err := validateName(name); err != nil {
		return domain.Ore{}, err
	}

	ore := domain.Ore{ID: idx.New().String(), Name: name}
	if err := s.Store.Ores().CreateOre(ctx, ore); err != nil {
		return domain.Ore{}, err
	}
	return s.Store.Ores().GetOreByID(ctx, ore.ID)
}

func (s *OreService) Get(ctx context.Context, id string) (domain.Ore, error) {
	return s.Store.Ores().GetOreByID(ctx, id)
}

func (s *OreService) List(ctx context.Context, offset, limit int) ([]domain.Ore, int, error) {
	return s.Store.Ores().ListOres(ctx, offset, limit)
}

func (s *OreService) Update(ctx context.Context, id, name string) (domain.Ore, error) {
	if err := validateName(name); err != nil {
		return domain.Ore{}, err
	}
	if err := s.Store.Ores().UpdateOreName(ctx, id, name); err != nil {
		return domain.Ore{}, err
	}
	return s.Store.Ores().GetOreByID(ctx, id)
}

func (s *OreService) Delete(ctx context.Context, id string) error {
	return s.Store.Ores().DeleteOre(ctx, id)
}
