package service

import "errors"

var (
	// ErrNoProject is returned by workspace operations before Open succeeds.
	ErrNoProject = errors.New("no project open")

	// ErrAutosaveFailed wraps the persistence error of the save that follows
	// a lock transition. The transition itself stays applied in memory.
	ErrAutosaveFailed = errors.New("autosave failed")

	// ErrStageLocked is returned when a closing edit reaches a stage the
	// access policy does not allow editing.
	ErrStageLocked = errors.New("stage is locked")

	// ErrStaleProject is returned when a save would overwrite lock or closing
	// changes another session stored after this one opened the project.
	ErrStaleProject = errors.New("project changed in another session; reopen it")

	// ErrNotApplicable is returned when an operation does not apply to the
	// target, such as a diary entry on a non-labor line.
	ErrNotApplicable = errors.New("operation does not apply")
)
