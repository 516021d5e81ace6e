package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunStatus_Pending(t *testing.T) {
	tests := []struct {
		status  RunStatus
		pending bool
	}{
		{RunStatusQueued, true},
		{RunStatusInProgress, true},
		{RunStatusCancelling, true},
		{RunStatusRequiresAction, false},
		{RunStatusCompleted, false},
		{RunStatusFailed, false},
		{RunStatusCancelled, false},
		{RunStatusExpired, false},
		{RunStatusIncomplete, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.pending, tt.status.Pending(), "status %s", tt.status)
	}
}

func TestRunStatus_Classification(t *testing.T) {
	assert.True(t, RunStatusRequiresAction.ActionRequired())
	assert.True(t, RunStatusFailed.Failed())
	assert.False(t, RunStatusCompleted.Failed())

	// Unknown statuses are neither pending nor actionable, so the driver
	// treats them as terminal and takes the completed path.
	unknown := RunStatus("some_future_status")
	assert.False(t, unknown.Pending())
	assert.False(t, unknown.ActionRequired())
	assert.False(t, unknown.Failed())
}
