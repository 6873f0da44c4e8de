package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/memo-analyzer/internal/logging"
	"github.com/jonathan/memo-analyzer/internal/pipeline"
	"github.com/jonathan/memo-analyzer/internal/pipeline/steps"
	"github.com/jonathan/memo-analyzer/internal/presentation"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// recordTimeout bounds each audit log write
const recordTimeout = 5 * time.Second

// Runner runs one analysis. *pipeline.Runner implements it.
type Runner interface {
	Run(ctx context.Context, target types.Target, opts pipeline.RunOptions, onProgress pipeline.ProgressCallback) (*types.AnalysisResult, error)
}

// Recorder stores run metadata. Recording is best effort: errors are logged, never returned.
type Recorder interface {
	CreateRun(ctx context.Context, id uuid.UUID, target types.Target, force bool) error
	CompleteRun(ctx context.Context, id uuid.UUID, qualityScore float64, empty bool) error
	FailRun(ctx context.Context, id uuid.UUID, message string) error
}

// Listener receives every step the view applies, in order. It is called with the view
// locked and must not call back into the view.
type Listener func(step types.Step)

// ViewOptions configures a View
type ViewOptions struct {
	Guard    *Guard
	Listener Listener
	Recorder Recorder
	Logger   *slog.Logger
}

// RunOptions configures one View.Run
type RunOptions struct {
	ForceReanalysis bool
	Title           string
	// Timeout stops the view waiting after this long. Zero waits for the run.
	Timeout time.Duration
}

// View owns the step list and document of one run for one target
type View struct {
	id       uuid.UUID
	target   types.Target
	guard    *Guard
	listener Listener
	recorder Recorder
	logger   *slog.Logger

	mu     sync.Mutex
	steps  types.StepList
	doc    *types.PresentationDocument
	closed bool
	ran    bool
}

// NewView creates a view for target. Views sharing a Guard never run the same target
// concurrently; a nil Guard gives the view a private one.
func NewView(target types.Target, opts ViewOptions) *View {
	guard := opts.Guard
	if guard == nil {
		guard = NewGuard()
	}
	id := uuid.New()
	return &View{
		id:       id,
		target:   target,
		guard:    guard,
		listener: opts.Listener,
		recorder: opts.Recorder,
		logger:   logging.OrDiscard(opts.Logger).With("run_id", id.String(), "target", target.Key()),
		steps:    types.StepList{},
	}
}

// ID returns the run id
func (v *View) ID() uuid.UUID {
	return v.id
}

// Target returns the analyzed target
func (v *View) Target() types.Target {
	return v.target
}

// Apply merges step into the step list and forwards it to the listener.
// It reports false, and changes nothing, once the view is closed.
func (v *View) Apply(step types.Step) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.closed {
		return false
	}
	v.steps = steps.Upsert(v.steps, step)
	if v.listener != nil {
		v.listener(step)
	}
	return true
}

// settleStart marks a still-loading start step completed once the run returned.
// The listener is not told: analysis_complete or analysis_error already ends the stream.
func (v *View) settleStart() {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return
	}
	if start, ok := v.steps.Get(steps.StepStartAnalysis); ok && start.Status == types.StepStatusLoading {
		v.steps = steps.Upsert(v.steps, steps.Answered())
	}
}

// Steps returns a copy of the current step list
func (v *View) Steps() types.StepList {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append(types.StepList{}, v.steps...)
}

// Document returns the assembled document once the run succeeded
func (v *View) Document() (types.PresentationDocument, bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.doc == nil {
		return types.PresentationDocument{}, false
	}
	return *v.doc, true
}

// Close stops the view honoring progress. The remote call is not aborted.
func (v *View) Close() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.closed = true
}

// Closed reports whether Close was called
func (v *View) Closed() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.closed
}

type runOutcome struct {
	result *types.AnalysisResult
	err    error
}

// Run acquires the target's guard, runs the analysis, and assembles its document.
//
// With a timeout the view stops waiting on expiry: it closes itself and returns
// ErrDeadlineExceeded while the run finishes in the background. The guard is held
// until the run itself returns, so a new run for the same target cannot start early.
// Cancelling ctx closes the view but does not abort the remote call, whose real
// outcome is still recorded.
func (v *View) Run(ctx context.Context, runner Runner, opts RunOptions) (types.PresentationDocument, error) {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return types.PresentationDocument{}, ErrViewClosed
	}
	if v.ran {
		v.mu.Unlock()
		return types.PresentationDocument{}, errors.New("analysis view already ran")
	}
	v.ran = true
	v.mu.Unlock()

	key := v.target.Key()
	if err := v.guard.Acquire(key); err != nil {
		return types.PresentationDocument{}, err
	}

	v.record(ctx, func(rctx context.Context) error {
		return v.recorder.CreateRun(rctx, v.id, v.target, opts.ForceReanalysis)
	})

	done := make(chan runOutcome, 1)
	go func() {
		defer v.guard.Release(key)
		// The remote call outlives the view; the client timeout bounds it
		result, err := runner.Run(context.WithoutCancel(ctx), v.target, pipeline.RunOptions{ForceReanalysis: opts.ForceReanalysis}, func(step types.Step) {
			v.Apply(step)
		})
		v.settleStart()
		v.recordOutcome(ctx, result, err)
		done <- runOutcome{result: result, err: err}
	}()

	var deadline <-chan time.Time
	if opts.Timeout > 0 {
		timer := time.NewTimer(opts.Timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	select {
	case out := <-done:
		if out.err != nil {
			return types.PresentationDocument{}, out.err
		}
		doc := presentation.Assemble(*out.result, opts.Title)
		v.mu.Lock()
		defer v.mu.Unlock()
		if v.closed {
			return types.PresentationDocument{}, ErrViewClosed
		}
		v.doc = &doc
		return doc, nil
	case <-deadline:
		v.logger.Warn("analysis deadline exceeded", "timeout", opts.Timeout)
		v.Close()
		return types.PresentationDocument{}, ErrDeadlineExceeded
	case <-ctx.Done():
		v.logger.Info("analysis view cancelled", "error", ctx.Err())
		v.Close()
		return types.PresentationDocument{}, ctx.Err()
	}
}

func (v *View) recordOutcome(ctx context.Context, result *types.AnalysisResult, err error) {
	if err != nil {
		v.record(ctx, func(rctx context.Context) error {
			return v.recorder.FailRun(rctx, v.id, err.Error())
		})
		return
	}
	v.record(ctx, func(rctx context.Context) error {
		return v.recorder.CompleteRun(rctx, v.id, result.QualityScore, !result.HasContent())
	})
}

// record runs one audit write detached from ctx's cancellation
func (v *View) record(ctx context.Context, write func(context.Context) error) {
	if v.recorder == nil {
		return
	}
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), recordTimeout)
	defer cancel()
	if err := write(rctx); err != nil {
		v.logger.Warn("failed to record analysis run", "error", err)
	}
}
