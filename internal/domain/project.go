package domain

import (
	"fmt"
	"regexp"
	"time"
)

var jobIDPattern = regexp.MustCompile(`^[A-Z0-9][A-Z0-9-]{1,23}$`)

// Snapshots are the frozen copies captured when a stage is locked.
type Snapshots struct {
	Initial *StageBudget
	Final   *StageBudget
}

// Project is the aggregate owning every stage of one production budget.
// A nil stage budget means that stage's editor has never been loaded.
type Project struct {
	ID           string
	JobID        string
	Name         string
	Agency       string
	Client       string
	Duration     int
	DurationUnit string
	Status       ProjectStatus
	Initial      *StageBudget
	Final        *StageBudget
	Snapshots    Snapshots
	Closing      ClosingBook
	CacheTableID string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ValidateJobID checks that JobID is non-empty and uses uppercase letters,
// digits and dashes only (e.g. JOB-2026-014).
func (p *Project) ValidateJobID() error {
	if p.JobID == "" {
		return fmt.Errorf("job ID is required (use --job flag)")
	}
	if !jobIDPattern.MatchString(p.JobID) {
		return fmt.Errorf("job ID %q must be 2-24 uppercase letters, digits or dashes (e.g. JOB-014)", p.JobID)
	}
	return nil
}

// DisplayID returns the best short identifier for display.
// It prefers JobID; if empty it truncates ID to 8 characters.
func (p *Project) DisplayID() string {
	if p.JobID != "" {
		return p.JobID
	}
	if len(p.ID) >= 8 {
		return p.ID[:8]
	}
	return p.ID
}

// Stage returns the budget held for an estimate stage, or nil.
func (p *Project) Stage(stage Stage) *StageBudget {
	switch stage {
	case StageInitial:
		return p.Initial
	case StageFinal:
		return p.Final
	default:
		return nil
	}
}

// SetStage replaces the budget of an estimate stage.
func (p *Project) SetStage(stage Stage, b *StageBudget) {
	switch stage {
	case StageInitial:
		p.Initial = b
	case StageFinal:
		p.Final = b
	}
}

// Clone deep-copies the whole aggregate.
func (p *Project) Clone() *Project {
	if p == nil {
		return nil
	}
	c := *p
	c.Initial = p.Initial.Clone()
	c.Final = p.Final.Clone()
	c.Snapshots = Snapshots{
		Initial: p.Snapshots.Initial.Clone(),
		Final:   p.Snapshots.Final.Clone(),
	}
	c.Closing = p.Closing.Clone()
	return &c
}
