// Package remote provides the HTTP client for the remote smart-analysis service.
package remote

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jonathan/memo-analyzer/internal/logging"
	"github.com/jonathan/memo-analyzer/internal/pipeline"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// DefaultTimeout bounds a single HTTP exchange with the service.
// Analyses run server-side for a long time, so this is generous.
const DefaultTimeout = 5 * time.Minute

// DefaultUserAgent is the user agent string for requests to the service
const DefaultUserAgent = "memo-analyzer/1.0"

// analysisPaths maps a target kind to its smart-analysis endpoint
var analysisPaths = map[types.TargetKind]string{
	types.TargetDocument: "/documents/{id}/smart-analysis",
	types.TargetMemo:     "/memos/{id}/smart-analysis",
}

// Options configures the client
type Options struct {
	BaseURL   string
	APIKey    string
	Timeout   time.Duration
	UserAgent string
	Logger    *slog.Logger
}

// Client calls the analysis service. It implements pipeline.Collaborator.
type Client struct {
	http   *resty.Client
	logger *slog.Logger
}

var _ pipeline.Collaborator = (*Client)(nil)

// New creates a client for the service at opts.BaseURL
func New(opts Options) (*Client, error) {
	parsed, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid analysis service URL: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, fmt.Errorf("analysis service URL must be http or https, got: %q", opts.BaseURL)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("analysis service URL must have a host, got: %q", opts.BaseURL)
	}

	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	logger := logging.OrDiscard(opts.Logger)

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(opts.Timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent).
		// A run is a single attempt; the caller decides whether to start another
		SetRetryCount(0)
	if opts.APIKey != "" {
		httpClient.SetAuthToken(opts.APIKey)
	}

	return &Client{http: httpClient, logger: logger}, nil
}

// Analyze sends one smart-analysis request and returns the raw response body.
// force_reanalysis is only put on the wire when requested.
func (c *Client) Analyze(ctx context.Context, req pipeline.AnalysisRequest) ([]byte, error) {
	path, ok := analysisPaths[req.Target.Kind]
	if !ok {
		return nil, fmt.Errorf("unsupported target kind %q", req.Target.Kind)
	}
	if strings.TrimSpace(req.Target.ID) == "" {
		return nil, fmt.Errorf("target id is required")
	}

	body := map[string]any{}
	if req.ForceReanalysis {
		body["force_reanalysis"] = true
	}

	start := time.Now()
	resp, err := c.http.R().
		SetContext(ctx).
		SetPathParam("id", req.Target.ID).
		SetBody(body).
		Post(path)
	if err != nil {
		return nil, &TransportError{URL: c.http.BaseURL + path, Cause: err}
	}

	c.logger.Debug("analysis service responded",
		"target", req.Target.Key(),
		"status", resp.StatusCode(),
		"duration_ms", time.Since(start).Milliseconds())

	if !resp.IsSuccess() {
		return nil, &StatusError{
			URL:        resp.Request.URL,
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
		}
	}

	return resp.Body(), nil
}
