package service

import (
	"context"
	"testing"

	"github.com/alexanderramin/claquete/internal/domain"
	"github.com/alexanderramin/claquete/internal/repository"
	"github.com/alexanderramin/claquete/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepos(t *testing.T) (repository.ProjectRepo, repository.ProjectTx, repository.RoleRateRepo) {
	t.Helper()
	database := testutil.NewTestDB(t)
	return repository.NewSQLiteProjectRepo(database),
		testutil.NewTestProjectTx(database),
		repository.NewSQLiteRoleRateRepo(database)
}

func TestProjectService_Create(t *testing.T) {
	projects, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)

	p := &domain.Project{Name: "Summer Spot", JobID: " job-2026-01 "}
	require.NoError(t, svc.Create(ctx, p))
	assert.NotEmpty(t, p.ID, "UUID should be generated")
	assert.Equal(t, "JOB-2026-01", p.JobID)
	assert.Equal(t, domain.NewProjectStatus(), p.Status)

	fetched, err := svc.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Summer Spot", fetched.Name)
	assert.NotNil(t, fetched.Initial, "new projects start with a loaded Initial stage")
	assert.Nil(t, fetched.Final)
}

func TestProjectService_Create_Invalid(t *testing.T) {
	projects, _, _ := setupRepos(t)
	svc := NewProjectService(projects)

	tests := []struct {
		name  string
		jobID string
		title string
	}{
		{"empty job", "", "Spot"},
		{"bad chars", "JOB_1!", "Spot"},
		{"too long", "JOB-12345678901234567890123", "Spot"},
		{"no name", "JOB-1", "  "},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.Create(context.Background(), &domain.Project{JobID: tc.jobID, Name: tc.title})
			assert.Error(t, err)
		})
	}
}

func TestProjectService_Resolve(t *testing.T) {
	projects, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)
	p := &domain.Project{Name: "Spot", JobID: "JOB-7"}
	require.NoError(t, svc.Create(ctx, p))

	byJob, err := svc.Resolve(ctx, "job-7")
	require.NoError(t, err)
	assert.Equal(t, p.ID, byJob.ID)

	byID, err := svc.Resolve(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "JOB-7", byID.JobID)

	_, err = svc.Resolve(ctx, "JOB-404")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Resolve(ctx, "")
	assert.Error(t, err)
}

func TestProjectService_UpdateHeaderAndDelete(t *testing.T) {
	projects, _, _ := setupRepos(t)
	ctx := context.Background()
	svc := NewProjectService(projects)
	p := &domain.Project{Name: "Spot", JobID: "JOB-8"}
	require.NoError(t, svc.Create(ctx, p))

	client := "ACME"
	dur := -30
	updated, err := svc.UpdateHeader(ctx, p.ID, HeaderPatch{Client: &client, Duration: &dur})
	require.NoError(t, err)
	assert.Equal(t, "ACME", updated.Client)
	assert.Equal(t, 0, updated.Duration)

	blank := ""
	_, err = svc.UpdateHeader(ctx, p.ID, HeaderPatch{Name: &blank})
	assert.Error(t, err)

	require.NoError(t, svc.Delete(ctx, p.ID))
	assert.ErrorIs(t, svc.Delete(ctx, p.ID), domain.ErrNotFound)

	all, err := svc.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}
