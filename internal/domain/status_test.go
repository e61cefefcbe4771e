package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAccess_InitialCondition(t *testing.T) {
	a := Access(NewProjectStatus())
	assert.True(t, a.Editable(StageInitial))
	assert.False(t, a.FinalReachable)
	assert.False(t, a.Editable(StageFinal), "final is not reachable until initial is locked")
	assert.False(t, a.Editable(StageClosing))
}

func TestAccess_Table(t *testing.T) {
	tests := []struct {
		name                     string
		status                   ProjectStatus
		initial, final, closing  bool
		finalReach, closingReach bool
	}{
		{
			name:       "initial locked",
			status:     ProjectStatus{Initial: StatusLocked, Final: StatusOpen, Closing: StatusOpen},
			final:      true,
			finalReach: true,
		},
		{
			name:         "final locked",
			status:       ProjectStatus{Initial: StatusLocked, Final: StatusLocked, Closing: StatusOpen},
			closing:      true,
			finalReach:   true,
			closingReach: true,
		},
		{
			name:         "closing locked freezes everything",
			status:       ProjectStatus{Initial: StatusLocked, Final: StatusLocked, Closing: StatusLocked},
			finalReach:   true,
			closingReach: true,
		},
		{
			name:   "closing locked with open initial still frozen",
			status: ProjectStatus{Initial: StatusOpen, Final: StatusOpen, Closing: StatusLocked},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			a := Access(tc.status)
			assert.Equal(t, tc.initial, a.Editable(StageInitial), "initial")
			assert.Equal(t, tc.final, a.Editable(StageFinal), "final")
			assert.Equal(t, tc.closing, a.Editable(StageClosing), "closing")
			assert.Equal(t, tc.finalReach, a.Reachable(StageFinal))
			assert.Equal(t, tc.closingReach, a.Reachable(StageClosing))
		})
	}
}
