package steps

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/memo-analyzer/internal/types"
)

func step(id string, status types.StepStatus) types.Step {
	return types.Step{ID: id, Title: id, Status: status}
}

func TestUpsert_AppendOrdering(t *testing.T) {
	var list types.StepList
	list = Upsert(list, step("A", types.StepStatusLoading))
	list = Upsert(list, step("B", types.StepStatusLoading))
	list = Upsert(list, step("C", types.StepStatusLoading))

	require.Len(t, list, 3)
	assert.Equal(t, "A", list[0].ID)
	assert.Equal(t, "B", list[1].ID)
	assert.Equal(t, "C", list[2].ID)
}

func TestUpsert_Idempotent(t *testing.T) {
	base := types.StepList{step("A", types.StepStatusCompleted), step("B", types.StepStatusLoading)}

	for _, s := range []types.Step{
		step("A", types.StepStatusCompleted),
		step("B", types.StepStatusError),
		step("C", types.StepStatusPending),
	} {
		once := Upsert(base, s)
		twice := Upsert(once, s)
		assert.Equal(t, once, twice, "upsert of %s should be idempotent", s.ID)
	}
}

func TestUpsert_PositionStability(t *testing.T) {
	list := replay(nil,
		step("A", types.StepStatusLoading),
		step("B", types.StepStatusLoading),
		step("C", types.StepStatusLoading),
	)

	updates := []types.Step{
		{ID: "B", Title: "renamed", Status: types.StepStatusCompleted, Message: "done"},
		{ID: "B", Title: "renamed again", Status: types.StepStatusError, Error: "boom"},
		step("A", types.StepStatusCompleted),
	}
	for _, u := range updates {
		list = Upsert(list, u)
		assert.Equal(t, 1, list.Index("B"), "B must stay at position 1")
	}

	require.Len(t, list, 3)
	assert.Equal(t, "renamed again", list[1].Title)
	assert.Equal(t, "boom", list[1].Error)
	assert.Equal(t, types.StepStatusCompleted, list[0].Status)
}

func TestUpsert_DoesNotMutateInput(t *testing.T) {
	original := types.StepList{step("A", types.StepStatusLoading)}
	snapshot := append(types.StepList(nil), original...)

	updated := Upsert(original, step("A", types.StepStatusCompleted))
	appended := Upsert(original, step("B", types.StepStatusLoading))

	assert.Equal(t, snapshot, original)
	assert.Equal(t, types.StepStatusCompleted, updated[0].Status)
	assert.Len(t, appended, 2)
}

func TestUpsert_NoSortingByStatus(t *testing.T) {
	list := replay(nil,
		step("A", types.StepStatusError),
		step("B", types.StepStatusCompleted),
		step("C", types.StepStatusPending),
	)

	ids := make([]string, 0, len(list))
	for _, s := range list {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}

func TestReplay_DuplicateNoticesCollapse(t *testing.T) {
	list := replay(nil,
		Started(),
		ServerStage(0, "", "Reading", "ok"),
		ServerStage(0, "", "Reading", "ok"),
		Started(),
		Completed(),
	)

	require.Len(t, list, 3)
	assert.Equal(t, StepStartAnalysis, list[0].ID)
	assert.Equal(t, "stage_1", list[1].ID)
	assert.Equal(t, StepAnalysisComplete, list[2].ID)
}
