package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepStatus_Valid(t *testing.T) {
	tests := []struct {
		status   StepStatus
		valid    bool
		terminal bool
	}{
		{StepStatusPending, true, false},
		{StepStatusLoading, true, false},
		{StepStatusCompleted, true, true},
		{StepStatusError, true, true},
		{"in_progress", false, false},
		{"", false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.valid, tt.status.Valid())
			assert.Equal(t, tt.terminal, tt.status.IsTerminal())
		})
	}
}

func TestStep_JSONOmitsEmptyOptionalFields(t *testing.T) {
	step := Step{ID: "start_analysis", Title: "Starting analysis", Status: StepStatusLoading}

	data, err := json.Marshal(step)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"start_analysis","title":"Starting analysis","status":"loading"}`, string(data))
}

func TestStepList_IndexAndGet(t *testing.T) {
	list := StepList{
		{ID: "a", Status: StepStatusCompleted},
		{ID: "b", Status: StepStatusLoading},
	}

	assert.Equal(t, 0, list.Index("a"))
	assert.Equal(t, 1, list.Index("b"))
	assert.Equal(t, -1, list.Index("c"))

	step, ok := list.Get("b")
	require.True(t, ok)
	assert.Equal(t, StepStatusLoading, step.Status)

	_, ok = list.Get("missing")
	assert.False(t, ok)
}

func TestStepList_DoneAndFailed(t *testing.T) {
	assert.False(t, StepList{}.Done(), "empty list is not done")

	running := StepList{{ID: "a", Status: StepStatusCompleted}, {ID: "b", Status: StepStatusLoading}}
	assert.False(t, running.Done())
	assert.False(t, running.Failed())

	failed := StepList{{ID: "a", Status: StepStatusCompleted}, {ID: "b", Status: StepStatusError}}
	assert.True(t, failed.Done())
	assert.True(t, failed.Failed())
}

func TestStepList_Summary(t *testing.T) {
	list := StepList{
		{ID: "a", Status: StepStatusCompleted},
		{ID: "b", Status: StepStatusCompleted},
		{ID: "c", Status: StepStatusLoading},
		{ID: "d", Status: StepStatusPending},
		{ID: "e", Status: StepStatusError},
	}

	assert.Equal(t, StepSummary{Total: 5, Pending: 1, Loading: 1, Completed: 2, Failed: 1}, list.Summary())
}
