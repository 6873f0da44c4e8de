package db

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/memo-analyzer/internal/types"
)

func TestNormalizeLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, NormalizeLimit(0))
	assert.Equal(t, DefaultListLimit, NormalizeLimit(-3))
	assert.Equal(t, 5, NormalizeLimit(5))
	assert.Equal(t, MaxListLimit, NormalizeLimit(MaxListLimit+1))
}

func TestAnalysisRunDuration(t *testing.T) {
	start := time.Date(2026, 1, 2, 10, 0, 0, 0, time.UTC)
	run := AnalysisRun{StartedAt: start}
	assert.Zero(t, run.Duration())

	end := start.Add(90 * time.Second)
	run.CompletedAt = &end
	assert.Equal(t, 90*time.Second, run.Duration())
}

func TestSchemaEmbedded(t *testing.T) {
	assert.Contains(t, schemaSQL, "CREATE TABLE IF NOT EXISTS analysis_runs")
}

// setupTestDB connects to DATABASE_URL, skipping when it is unset or unreachable
func setupTestDB(t *testing.T) *DB {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("Skipping integration test: DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	db, err := Connect(ctx, dbURL)
	if err != nil {
		t.Skipf("Skipping integration test: failed to connect to DB: %v", err)
	}
	require.NoError(t, db.Migrate(context.Background()))
	return db
}

func TestRunLifecycle_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	target := types.Target{Kind: types.TargetMemo, ID: "it-" + uuid.NewString()}

	completedID := uuid.New()
	require.NoError(t, db.CreateRun(ctx, completedID, target, true))

	run, err := db.GetRun(ctx, completedID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.True(t, run.ForceReanalysis)
	assert.Nil(t, run.CompletedAt)

	require.NoError(t, db.CompleteRun(ctx, completedID, 81.5, false))

	failedID := uuid.New()
	require.NoError(t, db.CreateRun(ctx, failedID, target, false))
	require.NoError(t, db.FailRun(ctx, failedID, "could not reach analysis service"))

	runs, err := db.ListRuns(ctx, target, 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, failedID, runs[0].ID, "newest first")
	assert.Equal(t, RunStatusFailed, runs[0].Status)
	require.NotNil(t, runs[0].ErrorMessage)
	assert.Equal(t, "could not reach analysis service", *runs[0].ErrorMessage)

	assert.Equal(t, RunStatusCompleted, runs[1].Status)
	require.NotNil(t, runs[1].QualityScore)
	assert.Equal(t, 81.5, *runs[1].QualityScore)
	assert.NotNil(t, runs[1].CompletedAt)
}

func TestUpdateUnknownRun_Integration(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()
	ctx := context.Background()

	assert.ErrorIs(t, db.CompleteRun(ctx, uuid.New(), 50, false), ErrRunNotFound)
	assert.ErrorIs(t, db.FailRun(ctx, uuid.New(), "x"), ErrRunNotFound)

	run, err := db.GetRun(ctx, uuid.New())
	require.NoError(t, err)
	assert.Nil(t, run)
}
