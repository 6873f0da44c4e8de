package remote

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/memo-analyzer/internal/pipeline"
	"github.com/jonathan/memo-analyzer/internal/types"
)

func TestNew_ValidatesBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
		wantErr string
	}{
		{"missing scheme", "api.example.com", "must be http or https"},
		{"ftp scheme", "ftp://api.example.com", "must be http or https"},
		{"missing host", "http://", "must have a host"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Options{BaseURL: tt.baseURL})
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := New(Options{BaseURL: "https://api.example.com/v1/"})
	assert.NoError(t, err)
}

func TestAnalyze_RequestShape(t *testing.T) {
	tests := []struct {
		name      string
		target    types.Target
		force     bool
		wantPath  string
		wantForce bool
	}{
		{"memo without force", types.Target{Kind: types.TargetMemo, ID: "17"}, false, "/api/memos/17/smart-analysis", false},
		{"document with force", types.Target{Kind: types.TargetDocument, ID: "doc-9"}, true, "/api/documents/doc-9/smart-analysis", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotAuth string
			var gotBody map[string]any
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				raw, _ := io.ReadAll(r.Body)
				assert.NoError(t, json.Unmarshal(raw, &gotBody))
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"success":true}`))
			}))
			defer srv.Close()

			client, err := New(Options{BaseURL: srv.URL + "/api", APIKey: "secret"})
			require.NoError(t, err)

			body, err := client.Analyze(context.Background(), pipeline.AnalysisRequest{Target: tt.target, ForceReanalysis: tt.force})
			require.NoError(t, err)
			assert.JSONEq(t, `{"success":true}`, string(body))

			assert.Equal(t, tt.wantPath, gotPath)
			assert.Equal(t, "Bearer secret", gotAuth)
			_, present := gotBody["force_reanalysis"]
			assert.Equal(t, tt.wantForce, present, "force_reanalysis must only be sent when requested")
			if tt.wantForce {
				assert.Equal(t, true, gotBody["force_reanalysis"])
			}
		})
	}
}

func TestAnalyze_NonSuccessStatusKeepsBody(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte(`{"success":false,"message":"Analysis queue is full"}`))
	}))
	defer srv.Close()

	client, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), pipeline.AnalysisRequest{Target: types.Target{Kind: types.TargetMemo, ID: "1"}})
	require.Error(t, err)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusServiceUnavailable, statusErr.HTTPStatus())
	assert.Contains(t, string(statusErr.ResponseBody()), "Analysis queue is full")
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "client must not retry")
}

func TestAnalyze_TransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	baseURL := srv.URL
	srv.Close()

	client, err := New(Options{BaseURL: baseURL, Timeout: time.Second})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), pipeline.AnalysisRequest{Target: types.Target{Kind: types.TargetDocument, ID: "1"}})
	require.Error(t, err)

	var transportErr *TransportError
	assert.True(t, errors.As(err, &transportErr))
}

func TestAnalyze_RejectsBadTargets(t *testing.T) {
	client, err := New(Options{BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Analyze(context.Background(), pipeline.AnalysisRequest{Target: types.Target{Kind: "case", ID: "1"}})
	assert.ErrorContains(t, err, "unsupported target kind")

	_, err = client.Analyze(context.Background(), pipeline.AnalysisRequest{Target: types.Target{Kind: types.TargetMemo, ID: " "}})
	assert.ErrorContains(t, err, "target id is required")
}

func TestAnalyze_WithRunner(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Memo not found"}`))
	}))
	defer srv.Close()

	client, err := New(Options{BaseURL: srv.URL})
	require.NoError(t, err)

	var list types.StepList
	_, err = pipeline.NewRunner(client, nil).Run(context.Background(), types.Target{Kind: types.TargetMemo, ID: "404"}, pipeline.RunOptions{}, func(s types.Step) {
		list = append(list, s)
	})
	require.Error(t, err)
	assert.Equal(t, "Memo not found", err.Error())
	assert.Equal(t, types.StepStatusError, list[len(list)-1].Status)
}
