package testutil

import (
	"context"
	"sync/atomic"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/repository"
)

// FailingProjectTx wraps a ProjectTx and fails the first FailUpdates calls
// to Update with Err. Reads and later updates pass through.
type FailingProjectTx struct {
	Inner       repository.ProjectTx
	FailUpdates int32
	Err         error

	updates atomic.Int32
}

// Updates returns how many Update calls were attempted.
func (f *FailingProjectTx) Updates() int32 {
	return f.updates.Load()
}

func (f *FailingProjectTx) WithinProjectTx(ctx context.Context, fn func(ctx context.Context, projects repository.ProjectRepo) error) error {
	return f.Inner.WithinProjectTx(ctx, func(ctx context.Context, projects repository.ProjectRepo) error {
		return fn(ctx, &failingProjectRepo{ProjectRepo: projects, parent: f})
	})
}

type failingProjectRepo struct {
	repository.ProjectRepo
	parent *FailingProjectTx
}

func (r *failingProjectRepo) Update(ctx context.Context, p *domain.Project) error {
	n := r.parent.updates.Add(1)
	if n <= r.parent.FailUpdates {
		return r.parent.Err
	}
	return r.ProjectRepo.Update(ctx, p)
}
