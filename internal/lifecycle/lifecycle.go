// Package lifecycle owns the lock state machine of a project's three stages.
// It is the only code that changes a ProjectStatus, and the only way data
// flows from Initial to Final to Closing.
package lifecycle

import (
	"fmt"

	"github.com/alexanderramin/claquete/internal/closing"
	"github.com/alexanderramin/claquete/internal/domain"
)

// Action is a lock transition.
type Action string

const (
	LockInitial   Action = "lock_initial"
	ReopenInitial Action = "reopen_initial"
	LockFinal     Action = "lock_final"
	ReopenFinal   Action = "reopen_final"
	ToggleClosing Action = "toggle_closing"
)

// Outcome reports whether a transition was applied. Reason explains a
// refused transition.
type Outcome struct {
	Action  Action
	Applied bool
	Reason  string
}

func refused(a Action, format string, args ...any) Outcome {
	return Outcome{Action: a, Reason: fmt.Sprintf(format, args...)}
}

// Apply runs a transition on p. A refused transition leaves p untouched.
func Apply(p *domain.Project, a Action) Outcome {
	st := &p.Status
	switch a {
	case LockInitial:
		if st.Initial != domain.StatusOpen {
			return refused(a, "initial estimate is already locked")
		}
		snap := p.Initial.Clone()
		if snap == nil {
			snap = domain.NewStageBudget()
		}
		p.Snapshots.Initial = snap
		if p.Final == nil {
			p.Final = snap.Clone()
		}
		st.Initial = domain.StatusLocked
		st.Final = domain.StatusOpen

	case ReopenInitial:
		if st.Initial != domain.StatusLocked {
			return refused(a, "initial estimate is not locked")
		}
		st.Initial = domain.StatusOpen
		st.Final = domain.StatusOpen
		st.Closing = domain.StatusOpen

	case LockFinal:
		if st.Initial != domain.StatusLocked {
			return refused(a, "lock the initial estimate before the final one")
		}
		if st.Final != domain.StatusOpen {
			return refused(a, "final estimate is already locked")
		}
		final := p.Final
		if final == nil {
			final = p.Snapshots.Initial
		}
		snap := final.Clone()
		if snap == nil {
			snap = domain.NewStageBudget()
		}
		if p.Final == nil {
			p.Final = snap.Clone()
		}
		p.Snapshots.Final = snap
		p.Closing.Lines = closing.Reconcile(p.Closing.Lines, snap)
		st.Final = domain.StatusLocked
		st.Closing = domain.StatusOpen

	case ReopenFinal:
		if st.Final != domain.StatusLocked {
			return refused(a, "final estimate is not locked")
		}
		st.Final = domain.StatusOpen
		st.Closing = domain.StatusOpen

	case ToggleClosing:
		if st.Closing == domain.StatusLocked {
			st.Closing = domain.StatusOpen
		} else {
			st.Closing = domain.StatusLocked
		}

	default:
		return refused(a, "unknown action %q", a)
	}
	return Outcome{Action: a, Applied: true}
}

// ToggleAction picks the lock or reopen action for a stage from its current
// status.
func ToggleAction(status domain.ProjectStatus, stage domain.Stage) (Action, error) {
	switch stage {
	case domain.StageInitial:
		if status.Initial == domain.StatusLocked {
			return ReopenInitial, nil
		}
		return LockInitial, nil
	case domain.StageFinal:
		if status.Final == domain.StatusLocked {
			return ReopenFinal, nil
		}
		return LockFinal, nil
	case domain.StageClosing:
		return ToggleClosing, nil
	default:
		return "", fmt.Errorf("invalid stage %q (want initial, final or closing)", stage)
	}
}

// Toggle flips the lock of one stage.
func Toggle(p *domain.Project, stage domain.Stage) (Outcome, error) {
	a, err := ToggleAction(p.Status, stage)
	if err != nil {
		return Outcome{}, err
	}
	return Apply(p, a), nil
}
