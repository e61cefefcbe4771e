package domain

// ProjectStatus is the lock state of each stage. Only the lifecycle package
// changes it.
type ProjectStatus struct {
	Initial StageStatus
	Final   StageStatus
	Closing StageStatus
}

// NewProjectStatus returns the initial condition: every stage open.
func NewProjectStatus() ProjectStatus {
	return ProjectStatus{Initial: StatusOpen, Final: StatusOpen, Closing: StatusOpen}
}

// Of returns the status of one stage.
func (s ProjectStatus) Of(stage Stage) StageStatus {
	switch stage {
	case StageInitial:
		return s.Initial
	case StageFinal:
		return s.Final
	case StageClosing:
		return s.Closing
	default:
		return ""
	}
}

// Locked reports whether the stage is locked.
func (s ProjectStatus) Locked(stage Stage) bool {
	return s.Of(stage) == StatusLocked
}

// AccessPolicy is what the UI layer may do with each stage. It is always
// derived from a ProjectStatus and never stored.
type AccessPolicy struct {
	FinalReachable   bool
	ClosingReachable bool
	Frozen           bool
	editable         map[Stage]bool
}

// Editable reports whether the stage accepts mutations.
func (a AccessPolicy) Editable(stage Stage) bool {
	return a.editable[stage]
}

// Reachable reports whether the stage can be opened at all.
func (a AccessPolicy) Reachable(stage Stage) bool {
	switch stage {
	case StageInitial:
		return true
	case StageFinal:
		return a.FinalReachable
	case StageClosing:
		return a.ClosingReachable
	default:
		return false
	}
}

// Access derives the access policy. A locked Closing freezes the whole
// project regardless of the other lock flags.
func Access(s ProjectStatus) AccessPolicy {
	a := AccessPolicy{
		FinalReachable:   s.Initial == StatusLocked,
		ClosingReachable: s.Final == StatusLocked,
		Frozen:           s.Closing == StatusLocked,
		editable:         make(map[Stage]bool, len(Stages)),
	}
	if a.Frozen {
		return a
	}
	a.editable[StageInitial] = s.Initial == StatusOpen
	a.editable[StageFinal] = a.FinalReachable && s.Final == StatusOpen
	a.editable[StageClosing] = a.ClosingReachable && s.Closing == StatusOpen
	return a
}
