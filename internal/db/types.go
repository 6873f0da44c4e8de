package db

import (
	"time"

	"github.com/google/uuid"
)

// Run status values stored in analysis_runs.status
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// AnalysisRun is one row of the audit log. Step lists and documents are not stored.
type AnalysisRun struct {
	ID              uuid.UUID  `json:"id"`
	TargetKind      string     `json:"target_kind"`
	TargetID        string     `json:"target_id"`
	ForceReanalysis bool       `json:"force_reanalysis"`
	Status          string     `json:"status"`
	QualityScore    *float64   `json:"quality_score,omitempty"`
	EmptyResult     bool       `json:"empty_result"`
	ErrorMessage    *string    `json:"error_message,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty"`
}

// Duration returns how long the run took, or zero while it is still running
func (r AnalysisRun) Duration() time.Duration {
	if r.CompletedAt == nil {
		return 0
	}
	return r.CompletedAt.Sub(r.StartedAt)
}
