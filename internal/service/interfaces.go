package service

import (
	"context"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/shopspring/decimal"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	Resolve(ctx context.Context, ref string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	UpdateHeader(ctx context.Context, id string, patch HeaderPatch) (*domain.Project, error)
	Delete(ctx context.Context, id string) error
}

type RateService interface {
	Set(ctx context.Context, role string, rate decimal.Decimal) error
	List(ctx context.Context) ([]repository.RoleRate, error)
	Remove(ctx context.Context, role string) error
}

// HeaderPatch carries optional project header changes. Nil fields are left
// untouched.
type HeaderPatch struct {
	Name         *string
	Agency       *string
	Client       *string
	Duration     *int
	DurationUnit *string
	CacheTableID *string
}
