package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/claquete/internal/rates"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/shopspring/decimal"
)

type rateService struct {
	lookup *rates.Lookup
	repo   repository.RoleRateRepo
}

// NewRateService manages role rates through the cached lookup so cached
// entries never outlive a change.
func NewRateService(lookup *rates.Lookup, repo repository.RoleRateRepo) RateService {
	return &rateService{lookup: lookup, repo: repo}
}

func (s *rateService) Set(ctx context.Context, role string, rate decimal.Decimal) error {
	if rate.IsNegative() {
		return fmt.Errorf("rate must not be negative")
	}
	return s.lookup.Set(ctx, role, rate)
}

func (s *rateService) List(ctx context.Context) ([]repository.RoleRate, error) {
	return s.repo.List(ctx)
}

func (s *rateService) Remove(ctx context.Context, role string) error {
	if _, err := s.repo.Get(ctx, role); err != nil {
		return err
	}
	return s.lookup.Remove(ctx, role)
}
