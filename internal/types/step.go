// Package types provides type definitions for structured data used throughout the memo-analyzer system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// StepStatus is the lifecycle state of a single progress step
type StepStatus string

// StepStatus constants
const (
	StepStatusPending   StepStatus = "pending"
	StepStatusLoading   StepStatus = "loading"
	StepStatusCompleted StepStatus = "completed"
	StepStatusError     StepStatus = "error"
)

// Valid reports whether s is one of the known statuses
func (s StepStatus) Valid() bool {
	switch s {
	case StepStatusPending, StepStatusLoading, StepStatusCompleted, StepStatusError:
		return true
	}
	return false
}

// IsTerminal reports whether a step in this status will not change again
func (s StepStatus) IsTerminal() bool {
	return s == StepStatusCompleted || s == StepStatusError
}

// Step is one identified unit of progress in an analysis run.
// ID is the merge key: a StepList holds at most one Step per ID.
type Step struct {
	ID      string     `json:"id"`
	Title   string     `json:"title"`
	Status  StepStatus `json:"status"`
	Message string     `json:"message,omitempty"`
	Error   string     `json:"error,omitempty"`
}

// StepList is an ordered, id-deduplicated collection of steps.
// Order is the first-seen order of each distinct id.
type StepList []Step

// StepSummary counts the steps of a list per status
type StepSummary struct {
	Total     int `json:"total"`
	Pending   int `json:"pending"`
	Loading   int `json:"loading"`
	Completed int `json:"completed"`
	Failed    int `json:"failed"`
}

// Index returns the position of the step with the given id, or -1
func (l StepList) Index(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the step with the given id
func (l StepList) Get(id string) (Step, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Step{}, false
}

// Failed reports whether any step is in the error state
func (l StepList) Failed() bool {
	for _, s := range l {
		if s.Status == StepStatusError {
			return true
		}
	}
	return false
}

// Done reports whether the list is non-empty and every step is terminal
func (l StepList) Done() bool {
	if len(l) == 0 {
		return false
	}
	for _, s := range l {
		if !s.Status.IsTerminal() {
			return false
		}
	}
	return true
}

// Summary returns per-status counts for the list
func (l StepList) Summary() StepSummary {
	summary := StepSummary{Total: len(l)}
	for _, s := range l {
		switch s.Status {
		case StepStatusPending:
			summary.Pending++
		case StepStatusLoading:
			summary.Loading++
		case StepStatusCompleted:
			summary.Completed++
		case StepStatusError:
			summary.Failed++
		}
	}
	return summary
}
