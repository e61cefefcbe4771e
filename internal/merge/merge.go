// Package merge reconciles a session's in-memory stage with the persisted one
// at save time.
//
// The merge is per department: a non-empty department from the caller wins,
// an empty one keeps what is persisted. Two sessions editing different
// departments never clobber each other; two sessions editing the same
// department still race. Emptying a department cannot be saved through a
// normal save.
package merge

import (
	"github.com/alexanderramin/claquete/internal/domain"
)

// Stage merges caller into persisted and returns a new stage sharing nothing
// with either input. A nil caller means the stage was never loaded and the
// persisted stage is kept as is.
func Stage(caller, persisted *domain.StageBudget) *domain.StageBudget {
	if caller == nil {
		return persisted.Clone()
	}
	out := caller.Clone()
	if persisted == nil {
		return out
	}
	for _, ph := range domain.Phases {
		dst := out.Phase(ph)
		src := persisted.Phase(ph)
		for dept, rows := range src.Rows {
			if len(dst.Rows[dept]) > 0 {
				continue
			}
			cp := make([]domain.Row, len(rows))
			for i, r := range rows {
				cp[i] = r.CloneRow()
			}
			dst.Rows[dept] = cp
		}
		for dept, rows := range src.Verba {
			if len(dst.Verba[dept]) > 0 {
				continue
			}
			dst.Verba[dept] = append([]domain.VerbaRow(nil), rows...)
		}
	}
	return out
}

// Project merges both estimate stages of caller into persisted. Status,
// snapshots, closing book and header fields are taken from the caller; use
// Book and Header to keep the persisted ones instead.
func Project(caller, persisted *domain.Project) *domain.Project {
	out := caller.Clone()
	if persisted == nil {
		return out
	}
	out.Initial = Stage(caller.Initial, persisted.Initial)
	out.Final = Stage(caller.Final, persisted.Final)
	out.CreatedAt = persisted.CreatedAt
	return out
}

// Book replaces the lock status, snapshots and closing book of dst with
// copies of the persisted ones.
func Book(dst, persisted *domain.Project) {
	if persisted == nil {
		return
	}
	dst.Status = persisted.Status
	dst.Snapshots = domain.Snapshots{
		Initial: persisted.Snapshots.Initial.Clone(),
		Final:   persisted.Snapshots.Final.Clone(),
	}
	dst.Closing = persisted.Closing.Clone()
}

// Header replaces the descriptive fields of dst with the persisted ones.
func Header(dst, persisted *domain.Project) {
	if persisted == nil {
		return
	}
	dst.JobID = persisted.JobID
	dst.Name = persisted.Name
	dst.Agency = persisted.Agency
	dst.Client = persisted.Client
	dst.Duration = persisted.Duration
	dst.DurationUnit = persisted.DurationUnit
	dst.CacheTableID = persisted.CacheTableID
}
