package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/jonathan/memo-analyzer/internal/db"
	"github.com/jonathan/memo-analyzer/internal/rendering"
	"github.com/jonathan/memo-analyzer/internal/schemas"
	"github.com/jonathan/memo-analyzer/internal/session"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// maxAnalyzeBody bounds the run request body
const maxAnalyzeBody = 16 << 10

// parseTarget reads the {kind}/{id} path values
func parseTarget(r *http.Request) (types.Target, error) {
	kind, err := types.ParseTargetKind(r.PathValue("kind"))
	if err != nil {
		return types.Target{}, &ErrValidation{Field: "kind", Message: err.Error()}
	}
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		return types.Target{}, &ErrValidation{Field: "id", Message: "id is required"}
	}
	return types.Target{Kind: kind, ID: id}, nil
}

// decodeAnalyzeRequest reads an optional JSON body; an empty body means defaults
func decodeAnalyzeRequest(w http.ResponseWriter, r *http.Request) (types.AnalyzeRequest, error) {
	var req types.AnalyzeRequest
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxAnalyzeBody)).Decode(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		return req, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()}
	}
	if err := req.Validate(); err != nil {
		return req, &ErrValidation{Field: "title", Message: err.Error()}
	}
	return req, nil
}

// handleRunAnalysis runs one analysis and streams its progress as Server-Sent Events:
// a step event per progress update, then document (and html when ?format=html) or
// error, then complete. A target that already has a run in flight gets 409.
func (s *Server) handleRunAnalysis(w http.ResponseWriter, r *http.Request) {
	target, err := parseTarget(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	req, err := decodeAnalyzeRequest(w, r)
	if err != nil {
		s.errorFor(w, err)
		return
	}
	wantHTML := r.URL.Query().Get("format") == string(rendering.FormatHTML)

	sse, err := NewSSEWriter(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	logger := s.logger.With("target", target.Key())
	view := session.NewView(target, session.ViewOptions{
		Guard: s.guard,
		Listener: func(step types.Step) {
			if err := sse.WriteStep(step); err != nil {
				logger.Debug("failed to stream step", "step", step.ID, "error", err)
			}
		},
		Recorder: s.recorder,
		Logger:   s.logger,
	})
	runID := view.ID().String()

	doc, err := view.Run(r.Context(), s.runner, session.RunOptions{
		ForceReanalysis: req.ForceReanalysis,
		Title:           req.Title,
		Timeout:         s.deadline,
	})
	if err != nil {
		switch {
		case errors.Is(err, session.ErrRunInProgress) && !sse.Started():
			s.errorFor(w, err)
		case errors.Is(err, context.Canceled):
			logger.Info("client went away during analysis", "run_id", runID)
		default:
			sse.WriteError(err.Error())
			sse.WriteComplete(runID, runStatus(err), view.Steps())
		}
		return
	}

	if err := schemas.ValidateDocument(doc); err != nil {
		logger.Warn("assembled document does not match schema", "run_id", runID, "error", err)
	}
	if err := sse.WriteEvent(EventDocument, doc); err != nil {
		logger.Warn("failed to stream document", "run_id", runID, "error", err)
		return
	}
	if wantHTML {
		html, err := rendering.HTML(doc, rendering.HTMLOptions{})
		if err != nil {
			sse.WriteError(err.Error())
			sse.WriteComplete(runID, RunStatusFailed, view.Steps())
			return
		}
		sse.WriteEvent(EventHTML, map[string]string{"html": html}) //nolint:errcheck
	}
	sse.WriteComplete(runID, RunStatusCompleted, view.Steps())
}

// handleListRuns returns recorded runs for a target, newest first
func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorFor(w, &ErrNotEnabled{Feature: "run history"})
		return
	}
	target, err := parseTarget(r)
	if err != nil {
		s.errorFor(w, err)
		return
	}

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err = strconv.Atoi(v)
		if err != nil {
			s.errorFor(w, &ErrValidation{Field: "limit", Message: "limit must be a number"})
			return
		}
	}

	runs, err := s.runs.ListRuns(r.Context(), target, limit)
	if err != nil {
		s.logger.Error("failed to list runs", "target", target.Key(), "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to list runs")
		return
	}
	views := make([]runView, 0, len(runs))
	for _, run := range runs {
		views = append(views, newRunView(run))
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"target": target,
		"runs":   views,
		"count":  len(views),
	})
}

// handleGetRun returns one recorded run by id
func (s *Server) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if s.runs == nil {
		s.errorFor(w, &ErrNotEnabled{Feature: "run history"})
		return
	}
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		s.errorFor(w, &ErrValidation{Field: "id", Message: "id must be a UUID"})
		return
	}

	run, err := s.runs.GetRun(r.Context(), id)
	if err != nil {
		s.logger.Error("failed to get run", "run_id", id.String(), "error", err)
		s.errorResponse(w, http.StatusInternalServerError, "failed to get run")
		return
	}
	if run == nil {
		s.errorResponse(w, http.StatusNotFound, "run not found")
		return
	}
	s.jsonResponse(w, http.StatusOK, newRunView(*run))
}

// runView is a recorded run as returned by the API
type runView struct {
	db.AnalysisRun
	DurationMS int64 `json:"duration_ms,omitempty"`
}

func newRunView(run db.AnalysisRun) runView {
	return runView{AnalysisRun: run, DurationMS: run.Duration().Milliseconds()}
}
