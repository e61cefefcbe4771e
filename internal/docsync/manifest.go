// Package docsync publishes a project's document-folder manifest to external
// storage after the Final estimate is locked.
package docsync

import (
	"context"
	"strings"
	"time"

	"github.com/alexanderramin/claquete/internal/domain"
)

// Member is one named person in the Final estimate.
type Member struct {
	Name       string `json:"name"`
	Role       string `json:"role"`
	Department string `json:"department"`
}

// Manifest describes the folder layout expected for a project: one folder per
// department and one per member.
type Manifest struct {
	ProjectID   string    `json:"project_id"`
	JobID       string    `json:"job_id"`
	Name        string    `json:"name"`
	Client      string    `json:"client,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Departments []string  `json:"departments"`
	Members     []Member  `json:"members"`
}

// Publisher stores a manifest somewhere the document tooling can read it.
type Publisher interface {
	Publish(ctx context.Context, m Manifest) error
}

// Noop discards manifests.
type Noop struct{}

func (Noop) Publish(context.Context, Manifest) error { return nil }

// BuildManifest derives the manifest from the locked Final snapshot, falling
// back to the live Final stage. Only labor and people rows with a name count
// as members.
func BuildManifest(p *domain.Project, now time.Time) Manifest {
	m := Manifest{
		ProjectID:   p.ID,
		JobID:       p.JobID,
		Name:        p.Name,
		Client:      p.Client,
		GeneratedAt: now.UTC(),
		Departments: []string{},
		Members:     []Member{},
	}
	final := p.Snapshots.Final
	if final == nil {
		final = p.Final
	}
	if final == nil {
		return m
	}

	seen := make(map[domain.Department]bool)
	var depts []domain.Department
	for _, ph := range domain.Phases {
		pb := final.Phase(ph)
		for _, dept := range pb.DepartmentKeys() {
			for _, r := range pb.Rows[dept] {
				if domain.IsBlank(r) || r.Kind() == domain.KindCost {
					continue
				}
				if !seen[dept] {
					seen[dept] = true
					depts = append(depts, dept)
				}
				m.Members = append(m.Members, Member{
					Name:       strings.TrimSpace(r.Name()),
					Role:       strings.TrimSpace(r.Role()),
					Department: string(dept),
				})
			}
		}
	}
	domain.SortDepartments(depts)
	for _, d := range depts {
		m.Departments = append(m.Departments, string(d))
	}
	return m
}
