package repository

import (
	"context"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/shopspring/decimal"
)

// ProjectRepo persists whole project aggregates.
type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	GetByJobID(ctx context.Context, jobID string) (*domain.Project, error)
	List(ctx context.Context) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Delete(ctx context.Context, id string) error
}

// RoleRate is the reference daily rate of a crew role.
type RoleRate struct {
	Role string
	Rate decimal.Decimal
}

type RoleRateRepo interface {
	Get(ctx context.Context, role string) (*RoleRate, error)
	Upsert(ctx context.Context, r RoleRate) error
	List(ctx context.Context) ([]RoleRate, error)
	Delete(ctx context.Context, role string) error
}
