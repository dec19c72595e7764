package service

import (
	"context"

	"github.com/screfinery/screfinery/internal/domain"
	"github.com/screfinery/screfinery/internal/store"
	"github.com/screfinery/screfinery/pkg/idx"
)

type MethodService struct {
	Store store.Store
}

// MethodParams carries create/update input. Efficiencies replace the per-ore
// table wholesale. Efficiency is a yield fraction in (0, 1]; duration is
// minutes per unit and must be positive.
type MethodParams struct {
	Name         string
	Efficiencies []domain.MethodEfficiency
}

func (s *MethodService) validate(p MethodParams) error {
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

		if eff.Efficiency <= 0 || eff.Efficiency > 1 {
			return invalid("efficiencies", "efficiency must be in (0, 1]")
		}
		if eff.Duration <= 0 {
			return invalid("efficiencies", "duration must be positive")
		}
	}
	return nil
}

func (s *MethodService) Create(ctx context.Context, p MethodParams) (domain.Method, error) {
	if err := s.validate(p); err != nil {
		return domain.Method{}, err
	}

	method := domain.Method{ID: idx.New().String(), Name: p.Name}
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Methods().CreateMethod(ctx, method); err != nil {
			return err
		}
		return tx.Methods().ReplaceMethodEfficiencies(ctx, method.ID, p.Efficiencies)
	})
	if err != nil {
		return domain.Method{}, err
	}
	return s.Store.Methods().GetMethodByID(ctx, method.ID)
}

func (s *MethodService) Get(ctx context.Context, id string) (domain.Method, error) {
	return s.Store.Methods().GetMethodByID(ctx, id)
}

func (s *MethodService) List(ctx context.Context, offset, limit int) ([]domain.Method, int, error) {
	return s.Store.Methods().ListMethods(ctx, offset, limit)
}

func (s *MethodService) Update(ctx context.Context, id string, p MethodParams) (domain.Method, error) {
	if err := s.validate(p); err != nil {
		return domain.Method{}, err
	}

	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Methods().UpdateMethodName(ctx, id, p.Name); err != nil {
			return err
		}
		return tx.Methods().ReplaceMethodEfficiencies(ctx, id, p.Efficiencies)
	})
	if err != nil {
		return domain.Method{}, err
	}
	return s.Store.Methods().GetMethodByID(ctx, id)
}

func (s *MethodService) Delete(ctx context.Context, id string) error {
	return s.Store.Methods().DeleteMethod(ctx, id)
}
