// Package pipeline drives one smart-analysis invocation against the remote analysis
// service and reports its progress as steps.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tidwall/gjson"

	"github.com/jonathan/memo-analyzer/internal/logging"
	"github.com/jonathan/memo-analyzer/internal/pipeline/steps"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// AnalysisRequest is the single request sent to the analysis service for a run
type AnalysisRequest struct {
	Target types.Target
	// ForceReanalysis asks the service to skip any cached analysis. When false the
	// flag is omitted from the request entirely.
	ForceReanalysis bool
}

// Collaborator is the remote analysis service. Analyze returns the raw response body.
type Collaborator interface {
	Analyze(ctx context.Context, req AnalysisRequest) ([]byte, error)
}

// responseBodyCarrier is implemented by collaborator errors that still carry a
// response body, e.g. a non-2xx answer whose body explains the failure
type responseBodyCarrier interface {
	ResponseBody() []byte
	HTTPStatus() int
}

// ProgressCallback is called for every step of a run, synchronously and in order
type ProgressCallback func(step types.Step)

// RunOptions holds per-run options
type RunOptions struct {
	ForceReanalysis bool
}

// Runner orchestrates analysis runs. It keeps no per-target state: serializing runs
// for the same target is the caller's job.
type Runner struct {
	service Collaborator
	logger  *slog.Logger
}

// NewRunner creates a runner calling service. A nil logger discards output.
func NewRunner(service Collaborator, logger *slog.Logger) *Runner {
	return &Runner{service: service, logger: logging.OrDiscard(logger)}
}

// emitProgress calls the progress callback if configured
func emitProgress(onProgress ProgressCallback, step types.Step) {
	if onProgress != nil {
		onProgress(step)
	}
}

// Run performs one analysis of target.
//
// Steps are reported in this order: start_analysis (loading), each sub-stage the service
// reports as completed, then analysis_complete. On failure an analysis_error step carrying
// the message is reported instead and the same message is returned as a *TransportError
// or *ServiceError. A 2xx body that is not JSON is a transport failure. The request is
// sent exactly once.
func (r *Runner) Run(ctx context.Context, target types.Target, opts RunOptions, onProgress ProgressCallback) (*types.AnalysisResult, error) {
	logger := r.logger.With("target", target.Key())
	start := time.Now()

	emitProgress(onProgress, steps.Started())
	logger.Info("analysis started", "force_reanalysis", opts.ForceReanalysis)

	body, err := r.service.Analyze(ctx, AnalysisRequest{
		Target:          target,
		ForceReanalysis: opts.ForceReanalysis,
	})
	if err == nil && !gjson.ValidBytes(body) {
		err = &InvalidBodyError{Body: body}
	}
	if err != nil {
		runErr := classifyError(err)
		logFailure(logger, runErr)
		emitProgress(onProgress, steps.Failed(runErr.Error()))
		return nil, runErr
	}

	if failed, message := serviceFailure(body); failed {
		runErr := &ServiceError{Message: message}
		logFailure(logger, runErr)
		emitProgress(onProgress, steps.Failed(message))
		return nil, runErr
	}

	stages := serverStages(body)
	for _, stage := range stages {
		emitProgress(onProgress, stage)
	}
	emitProgress(onProgress, steps.Completed())

	result := extractResult(body)
	if result.Empty {
		logger.Warn("analysis response carried no result at any known location")
	}
	logger.Info("analysis completed",
		"quality_score", result.QualityScore,
		"stages", len(stages),
		"duration_ms", time.Since(start).Milliseconds())

	return result, nil
}

// classifyError maps a collaborator error to the runner's error taxonomy. A failed
// HTTP exchange whose body explicitly reports failure keeps the service's message.
func classifyError(err error) error {
	var carrier responseBodyCarrier
	if errors.As(err, &carrier) {
		if failed, message := serviceFailure(carrier.ResponseBody()); failed {
			return &ServiceError{Message: message, StatusCode: carrier.HTTPStatus()}
		}
	}
	return &TransportError{Message: MessageServiceUnreachable, Cause: err}
}

func logFailure(logger *slog.Logger, err error) {
	var transportErr *TransportError
	if errors.As(err, &transportErr) {
		logger.Error("analysis service unreachable", "error", transportErr.Detail())
		return
	}
	logger.Warn("analysis service reported failure", "error", err.Error())
}
