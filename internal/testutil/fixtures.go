package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var testJobCounter atomic.Int64

// Project options
type ProjectOption func(*domain.Project)

func WithJobID(jobID string) ProjectOption {
	return func(p *domain.Project) {
		p.JobID = jobID
	}
}

func WithStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithClient(agency, client string) ProjectOption {
	return func(p *domain.Project) {
		p.Agency = agency
		p.Client = client
	}
}

// WithStage replaces the budget of an estimate stage.
func WithStage(stage domain.Stage, b *domain.StageBudget) ProjectOption {
	return func(p *domain.Project) {
		p.SetStage(stage, b)
	}
}

// WithRows appends rows to one department of an estimate stage, creating the
// stage if it was never loaded.
func WithRows(stage domain.Stage, phase domain.Phase, dept domain.Department, rows ...domain.Row) ProjectOption {
	return func(p *domain.Project) {
		b := p.Stage(stage)
		if b == nil {
			b = domain.NewStageBudget()
			p.SetStage(stage, b)
		}
		ph := b.Phase(phase)
		ph.Rows[dept] = append(ph.Rows[dept], rows...)
	}
}

// WithVerba appends verba rows to one department of an estimate stage.
func WithVerba(stage domain.Stage, phase domain.Phase, dept domain.Department, rows ...domain.VerbaRow) ProjectOption {
	return func(p *domain.Project) {
		b := p.Stage(stage)
		if b == nil {
			b = domain.NewStageBudget()
			p.SetStage(stage, b)
		}
		ph := b.Phase(phase)
		ph.Verba[dept] = append(ph.Verba[dept], rows...)
	}
}

// NewTestProject returns an open project with a loaded, empty Initial stage.
func NewTestProject(name string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Second)
	p := &domain.Project{
		ID:        uuid.New().String(),
		JobID:     fmt.Sprintf("JOB-%03d", testJobCounter.Add(1)),
		Name:      name,
		Status:    domain.NewProjectStatus(),
		Initial:   domain.NewStageBudget(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// NewTestCostRow returns a cache-priced supplier cost.
func NewTestCostRow(name string, unitCost, qty int64) *domain.CostRow {
	return &domain.CostRow{
		ID:       uuid.New().String(),
		ItemName: name,
		UnitType: domain.UnitCache,
		UnitCost: decimal.NewFromInt(unitCost),
		Quantity: decimal.NewFromInt(qty),
	}
}

// NewTestLaborRow returns a daily crew member.
func NewTestLaborRow(name, role string, rate, days int64) *domain.LaborRow {
	return &domain.LaborRow{
		ID:           uuid.New().String(),
		ItemName:     name,
		RoleFunction: role,
		PayBasis:     domain.PayDaily,
		UnitCost:     decimal.NewFromInt(rate),
		Quantity:     decimal.NewFromInt(days),
	}
}

// NewTestVerbaRow returns a lump-sum allowance line.
func NewTestVerbaRow(name string, unitCost, qty int64) domain.VerbaRow {
	return domain.VerbaRow{
		ID:       uuid.New().String(),
		ItemName: name,
		UnitCost: decimal.NewFromInt(unitCost),
		Quantity: decimal.NewFromInt(qty),
	}
}
