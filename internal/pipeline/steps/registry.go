// Package steps provides the well-known analysis step definitions and the
// merge rule that turns progress notices into an ordered checklist.
package steps

import (
	"fmt"
	"strings"

	"github.com/jonathan/memo-analyzer/internal/types"
)

// Well-known step ids emitted by the analysis runner
const (
	StepStartAnalysis    = "start_analysis"
	StepAnalysisComplete = "analysis_complete"
	StepAnalysisError    = "analysis_error"

	// serverStagePrefix prefixes ids of server-reported sub-stages that carry no id of their own
	serverStagePrefix = "stage_"
)

// StepDefinition defines display metadata for a well-known step
type StepDefinition struct {
	ID    string
	Title string
}

// StepRegistry holds the definitions of the steps the runner emits itself
var StepRegistry = map[string]StepDefinition{
	StepStartAnalysis: {
		ID:    StepStartAnalysis,
		Title: "Starting analysis",
	},
	StepAnalysisComplete: {
		ID:    StepAnalysisComplete,
		Title: "Analysis complete",
	},
	StepAnalysisError: {
		ID:    StepAnalysisError,
		Title: "Analysis failed",
	},
}

// Title returns the registered title of a well-known step, or the id itself
func Title(id string) string {
	if def, ok := StepRegistry[id]; ok {
		return def.Title
	}
	return id
}

// Started returns the synthetic step emitted before the service is contacted
func Started() types.Step {
	return types.Step{
		ID:     StepStartAnalysis,
		Title:  Title(StepStartAnalysis),
		Status: types.StepStatusLoading,
	}
}

// Answered is the start step settled after the run returned, whatever the outcome
func Answered() types.Step {
	step := Started()
	step.Status = types.StepStatusCompleted
	return step
}

// Completed returns the terminal step emitted after a successful run
func Completed() types.Step {
	return types.Step{
		ID:     StepAnalysisComplete,
		Title:  Title(StepAnalysisComplete),
		Status: types.StepStatusCompleted,
	}
}

// Failed returns the terminal step emitted when a run fails
func Failed(message string) types.Step {
	return types.Step{
		ID:      StepAnalysisError,
		Title:   Title(StepAnalysisError),
		Status:  types.StepStatusError,
		Message: message,
		Error:   message,
	}
}

// ServerStage maps a sub-stage reported by the analysis service to a completed step.
// index is the zero-based position in the service's list and is used for the id when
// the service does not supply one.
func ServerStage(index int, id, title, result string) types.Step {
	id = strings.TrimSpace(id)
	if id == "" {
		id = ServerStageID(index)
	}
	title = strings.TrimSpace(title)
	if title == "" {
		title = fmt.Sprintf("Stage %d", index+1)
	}
	return types.Step{
		ID:      id,
		Title:   title,
		Status:  types.StepStatusCompleted,
		Message: strings.TrimSpace(result),
	}
}

// ServerStageID returns the generated id of the index-th server-reported sub-stage
func ServerStageID(index int) string {
	return fmt.Sprintf("%s%d", serverStagePrefix, index+1)
}
