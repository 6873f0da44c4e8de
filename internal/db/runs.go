package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/jonathan/memo-analyzer/internal/session"
	"github.com/jonathan/memo-analyzer/internal/types"
)

var _ session.Recorder = (*DB)(nil)

// ListRuns page size bounds
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

const runColumns = `id, target_kind, target_id, force_reanalysis, status, quality_score,
	empty_result, error_message, started_at, completed_at`

// CreateRun records the start of a run under the caller's id
func (db *DB) CreateRun(ctx context.Context, id uuid.UUID, target types.Target, force bool) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO analysis_runs (id, target_kind, target_id, force_reanalysis, status)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, string(target.Kind), target.ID, force, RunStatusRunning,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// CompleteRun marks a run as completed with its score
func (db *DB) CompleteRun(ctx context.Context, id uuid.UUID, qualityScore float64, empty bool) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $1, quality_score = $2, empty_result = $3, completed_at = NOW()
		 WHERE id = $4`,
		RunStatusCompleted, qualityScore, empty, id,
	)
	if err != nil {
		return fmt.Errorf("failed to complete run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// FailRun marks a run as failed with the message shown to the user
func (db *DB) FailRun(ctx context.Context, id uuid.UUID, message string) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE analysis_runs
		 SET status = $1, error_message = $2, completed_at = NOW()
		 WHERE id = $3`,
		RunStatusFailed, message, id,
	)
	if err != nil {
		return fmt.Errorf("failed to fail run: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrRunNotFound
	}
	return nil
}

// GetRun retrieves a run by id. Returns nil when it does not exist.
func (db *DB) GetRun(ctx context.Context, id uuid.UUID) (*AnalysisRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+` FROM analysis_runs WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	run, err := pgx.CollectOneRow(rows, scanRun)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return &run, nil
}

// ListRuns returns the most recent runs for a target, newest first
func (db *DB) ListRuns(ctx context.Context, target types.Target, limit int) ([]AnalysisRun, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+runColumns+`
		 FROM analysis_runs
		 WHERE target_kind = $1 AND target_id = $2
		 ORDER BY started_at DESC
		 LIMIT $3`,
		string(target.Kind), target.ID, NormalizeLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	runs, err := pgx.CollectRows(rows, scanRun)
	if err != nil {
		return nil, fmt.Errorf("failed to scan runs: %w", err)
	}
	return runs, nil
}

// NormalizeLimit clamps a requested page size, using the default for non-positive values
func NormalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	default:
		return limit
	}
}

func scanRun(row pgx.CollectableRow) (AnalysisRun, error) {
	var r AnalysisRun
	err := row.Scan(&r.ID, &r.TargetKind, &r.TargetID, &r.ForceReanalysis, &r.Status,
		&r.QualityScore, &r.EmptyResult, &r.ErrorMessage, &r.StartedAt, &r.CompletedAt)
	return r, err
}
