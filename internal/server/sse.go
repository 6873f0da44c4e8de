package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jonathan/memo-analyzer/internal/types"
)

// SSE event names
const (
	EventStep     = "step"
	EventDocument = "document"
	EventHTML     = "html"
	EventError    = "error"
	EventComplete = "complete"
)

// Run status values reported in the complete event
const (
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusTimeout   = "timeout"
)

// SSEWriter helps write Server-Sent Events. Headers are sent with the first event,
// so a handler can still answer with a plain JSON error before streaming starts.
type SSEWriter struct {
	w       http.ResponseWriter
	flusher http.Flusher

	mu      sync.Mutex
	started bool
}

// NewSSEWriter creates a new SSE writer
func NewSSEWriter(w http.ResponseWriter) (*SSEWriter, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, fmt.Errorf("streaming not supported")
	}
	return &SSEWriter{w: w, flusher: flusher}, nil
}

// Started reports whether any event has been written
func (s *SSEWriter) Started() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.started
}

// WriteEvent sends an SSE event
func (s *SSEWriter) WriteEvent(event string, data any) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		s.w.Header().Set("Content-Type", "text/event-stream")
		s.w.Header().Set("Cache-Control", "no-cache")
		s.w.Header().Set("Connection", "keep-alive")
		s.w.Header().Set("X-Accel-Buffering", "no")
		s.w.WriteHeader(http.StatusOK)
		s.started = true
	}

	if _, err := fmt.Fprintf(s.w, "event: %s\n", event); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", jsonData); err != nil {
		return err
	}
	s.flusher.Flush()
	return nil
}

// WriteStep sends a step event
func (s *SSEWriter) WriteStep(step types.Step) error {
	return s.WriteEvent(EventStep, step)
}

// WriteError sends an error event
func (s *SSEWriter) WriteError(message string) {
	s.WriteEvent(EventError, map[string]string{"error": message}) //nolint:errcheck
}

// CompleteEvent is the payload of the final event of a run stream
type CompleteEvent struct {
	RunID  string            `json:"run_id"`
	Status string            `json:"status"`
	Steps  types.StepSummary `json:"steps"`
}

// WriteComplete sends a completion event with the per-status step counts of the run
func (s *SSEWriter) WriteComplete(runID, status string, list types.StepList) {
	s.WriteEvent(EventComplete, CompleteEvent{ //nolint:errcheck
		RunID:  runID,
		Status: status,
		Steps:  list.Summary(),
	})
}
