package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/google/uuid"
)

type projectService struct {
	projects repository.ProjectRepo
	observer UseCaseObserver
}

func NewProjectService(projects repository.ProjectRepo, observers ...UseCaseObserver) ProjectService {
	return &projectService{projects: projects, observer: useCaseObserverOrNoop(observers)}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	return observe(ctx, s.observer, "project.create", map[string]any{"job_id": p.JobID}, func() error {
		p.JobID = strings.ToUpper(strings.TrimSpace(p.JobID))
		if err := p.ValidateJobID(); err != nil {
			return err
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("project name is required")
		}
		p.Duration = domain.MaxInt(p.Duration, 0)
		if p.ID == "" {
			p.ID = uuid.New().String()
		}
		now := time.Now().UTC()
		p.CreatedAt = now
		p.UpdatedAt = now
		if p.Status == (domain.ProjectStatus{}) {
			p.Status = domain.NewProjectStatus()
		}
		if p.Initial == nil {
			p.Initial = domain.NewStageBudget()
		}
		return s.projects.Create(ctx, p)
	})
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

// Resolve finds a project by job ID first, then by ID.
func (s *projectService) Resolve(ctx context.Context, ref string) (*domain.Project, error) {
	return resolveProject(ctx, s.projects, ref)
}

func resolveProject(ctx context.Context, projects repository.ProjectRepo, ref string) (*domain.Project, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, fmt.Errorf("project reference is required")
	}
	p, err := projects.GetByJobID(ctx, ref)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return projects.GetByID(ctx, ref)
}

func (s *projectService) List(ctx context.Context) ([]*domain.Project, error) {
	return s.projects.List(ctx)
}

func (s *projectService) UpdateHeader(ctx context.Context, id string, patch HeaderPatch) (*domain.Project, error) {
	p, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if patch.Name != nil {
		if strings.TrimSpace(*patch.Name) == "" {
			return nil, fmt.Errorf("project name is required")
		}
		p.Name = *patch.Name
	}
	if patch.Agency != nil {
		p.Agency = *patch.Agency
	}
	if patch.Client != nil {
		p.Client = *patch.Client
	}
	if patch.Duration != nil {
		p.Duration = domain.MaxInt(*patch.Duration, 0)
	}
	if patch.DurationUnit != nil {
		p.DurationUnit = *patch.DurationUnit
	}
	if patch.CacheTableID != nil {
		p.CacheTableID = *patch.CacheTableID
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.projects.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.projects.GetByID(ctx, id); err != nil {
		return err
	}
	return s.projects.Delete(ctx, id)
}
