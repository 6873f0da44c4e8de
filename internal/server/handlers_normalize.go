package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/memo-analyzer/internal/content"
	"github.com/jonathan/memo-analyzer/internal/rendering"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// handleNormalize converts raw analysis text into content blocks.
// ?format=html or ?format=text return the blocks rendered instead of as JSON.
func (s *Server) handleNormalize(w http.ResponseWriter, r *http.Request) {
	var req types.NormalizeRequest
	body := http.MaxBytesReader(w, r.Body, types.MaxNormalizeBytes+4096)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.errorFor(w, &ErrValidation{Field: "body", Message: "invalid JSON: " + err.Error()})
		return
	}
	if err := req.Validate(); err != nil {
		s.errorFor(w, &ErrValidation{Field: "text", Message: err.Error()})
		return
	}

	blocks := content.Normalize(req.Text)

	switch rendering.Format(r.URL.Query().Get("format")) {
	case rendering.FormatHTML:
		html, err := rendering.HTMLBlocks(blocks)
		if err != nil {
			s.errorResponse(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(html)) //nolint:errcheck
	case rendering.FormatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(rendering.PlainTextBlocks(blocks))) //nolint:errcheck
	default:
		s.jsonResponse(w, http.StatusOK, types.NormalizeResponse{Blocks: blocks})
	}
}
