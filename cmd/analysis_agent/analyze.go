package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/memo-analyzer/internal/logging"
	"github.com/jonathan/memo-analyzer/internal/pipeline"
	"github.com/jonathan/memo-analyzer/internal/remote"
	"github.com/jonathan/memo-analyzer/internal/rendering"
	"github.com/jonathan/memo-analyzer/internal/session"
	"github.com/jonathan/memo-analyzer/internal/types"
)

// formatJSON prints the step lists and documents as JSON instead of rendering them
const formatJSON = "json"

var analyzeCmd = &cobra.Command{
	Use:   "analyze ID...",
	Short: "Request a smart analysis of one or more documents or memos",
	Long: `Requests a smart analysis for each ID, printing progress to stderr as a checklist
and the rendered result to stdout.

Several IDs are analyzed concurrently, bounded by the configured concurrency.
An ID given twice in one invocation is reported as already in progress.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyzeCmd,
}

var (
	analyzeKind        string
	analyzeForce       bool
	analyzeFormat      string
	analyzeTitle       string
	analyzeConcurrency int
	analyzeDeadline    time.Duration
)

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeKind, "kind", "k", string(types.TargetMemo), "Target kind: document or memo")
	analyzeCmd.Flags().BoolVarP(&analyzeForce, "force", "f", false, "Ask the service to reanalyze instead of returning a cached analysis")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", string(rendering.FormatTerminal), "Output format: terminal, text, html, latex, json")
	analyzeCmd.Flags().StringVarP(&analyzeTitle, "title", "t", "", "Document title shown above the result")
	analyzeCmd.Flags().IntVarP(&analyzeConcurrency, "concurrency", "c", 0, "Maximum concurrent analyses (overrides config)")
	analyzeCmd.Flags().DurationVar(&analyzeDeadline, "deadline", 0, "Stop waiting for a run after this long (overrides config)")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyzeCmd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = analyzeConcurrency
	}
	deadline := cfg.Deadline()
	if cmd.Flags().Changed("deadline") {
		deadline = analyzeDeadline
	}

	format, err := parseOutputFormat(analyzeFormat)
	if err != nil {
		return err
	}
	targets, err := parseTargets(analyzeKind, args)
	if err != nil {
		return err
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	client, err := remote.New(remote.Options{
		BaseURL: cfg.ServiceURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create analysis client: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return analyzeTargets(ctx, pipeline.NewRunner(client, logger), targets, analyzeOptions{
		Format:      format,
		Force:       analyzeForce,
		Title:       analyzeTitle,
		Deadline:    deadline,
		Concurrency: cfg.Concurrency,
		Out:         cmd.OutOrStdout(),
		Progress:    cmd.ErrOrStderr(),
		Logger:      logger,
	})
}

// parseOutputFormat accepts the renderer formats plus json
func parseOutputFormat(s string) (string, error) {
	if strings.EqualFold(strings.TrimSpace(s), formatJSON) {
		return formatJSON, nil
	}
	f, err := rendering.ParseFormat(s)
	if err != nil {
		return "", err
	}
	return string(f), nil
}

// parseTargets builds one target per ID, in argument order
func parseTargets(kind string, ids []string) ([]types.Target, error) {
	k, err := types.ParseTargetKind(strings.ToLower(strings.TrimSpace(kind)))
	if err != nil {
		return nil, err
	}
	targets := make([]types.Target, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			return nil, fmt.Errorf("target id must not be empty")
		}
		targets = append(targets, types.Target{Kind: k, ID: id})
	}
	return targets, nil
}

type analyzeOptions struct {
	Format      string
	Force       bool
	Title       string
	Deadline    time.Duration
	Concurrency int
	Out         io.Writer
	Progress    io.Writer
	Logger      *slog.Logger
}

// analysisOutput is one target's outcome, as printed by --format json
type analysisOutput struct {
	Target   types.Target                `json:"target"`
	RunID    string                      `json:"run_id,omitempty"`
	Steps    types.StepList              `json:"steps"`
	Document *types.PresentationDocument `json:"document,omitempty"`
	Error    string                      `json:"error,omitempty"`

	err error
}

// analyzeTargets runs every target through its own view and prints the outcomes in
// argument order once all runs have finished. It fails if any run failed.
func analyzeTargets(ctx context.Context, runner session.Runner, targets []types.Target, opts analyzeOptions) error {
	logger := logging.OrDiscard(opts.Logger)
	progress := opts.Progress
	if progress == nil {
		progress = io.Discard
	}

	guard := session.NewGuard()
	outcomes := make([]analysisOutput, len(targets))
	seen := make(map[string]bool, len(targets))

	var progressMu sync.Mutex
	var g errgroup.Group
	g.SetLimit(max(1, opts.Concurrency))

	for i, target := range targets {
		if seen[target.Key()] {
			outcomes[i] = analysisOutput{Target: target, Steps: types.StepList{}, err: session.ErrRunInProgress}
			continue
		}
		seen[target.Key()] = true

		g.Go(func() error {
			view := session.NewView(target, session.ViewOptions{
				Guard:  guard,
				Logger: logger,
				Listener: func(step types.Step) {
					progressMu.Lock()
					defer progressMu.Unlock()
					fmt.Fprintf(progress, "[%s] %s\n", target, rendering.ChecklistLine(step))
				},
			})
			doc, err := view.Run(ctx, runner, session.RunOptions{
				ForceReanalysis: opts.Force,
				Title:           opts.Title,
				Timeout:         opts.Deadline,
			})

			out := analysisOutput{Target: target, RunID: view.ID().String(), Steps: view.Steps(), err: err}
			if err == nil {
				out.Document = &doc
			}
			outcomes[i] = out
			return nil
		})
	}
	_ = g.Wait()

	return writeOutcomes(opts.Out, opts.Format, outcomes)
}

func writeOutcomes(w io.Writer, format string, outcomes []analysisOutput) error {
	var errs []error
	for i := range outcomes {
		if err := outcomes[i].err; err != nil {
			outcomes[i].Error = err.Error()
			errs = append(errs, fmt.Errorf("%s: %w", outcomes[i].Target, err))
		}
	}

	if format == formatJSON {
		if err := writeJSON(w, outcomes); err != nil {
			return err
		}
		return errors.Join(errs...)
	}

	for i, out := range outcomes {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if len(outcomes) > 1 {
			fmt.Fprintf(w, "== %s ==\n", out.Target)
		}
		if out.Document == nil {
			fmt.Fprintf(w, "analysis failed: %s\n", out.Error)
			fmt.Fprint(w, rendering.Checklist(out.Steps))
			continue
		}
		rendered, err := rendering.Render(*out.Document, rendering.Format(format))
		if err != nil {
			return err
		}
		fmt.Fprint(w, rendered)
		if !strings.HasSuffix(rendered, "\n") {
			fmt.Fprintln(w)
		}
	}
	return errors.Join(errs...)
}
