package steps

import "github.com/jonathan/memo-analyzer/internal/types"

// Upsert merges step into list and returns the new list. The argument is never modified.
//
// If a step with the same id exists its value is replaced in place, keeping its
// position; otherwise the step is appended. Steps are never reordered by status, so a
// checklist rendered from the result stays stable while a run progresses.
func Upsert(list types.StepList, step types.Step) types.StepList {
	out := make(types.StepList, len(list), len(list)+1)
	copy(out, list)

	if i := out.Index(step.ID); i >= 0 {
		out[i] = step
		return out
	}
	return append(out, step)
}

// replay folds a sequence of steps into list with Upsert
func replay(list types.StepList, steps ...types.Step) types.StepList {
	for _, s := range steps {
		list = Upsert(list, s)
	}
	return list
}
