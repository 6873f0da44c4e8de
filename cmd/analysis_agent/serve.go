package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jonathan/memo-analyzer/internal/db"
	"github.com/jonathan/memo-analyzer/internal/pipeline"
	"github.com/jonathan/memo-analyzer/internal/remote"
	"github.com/jonathan/memo-analyzer/internal/server"
	"github.com/jonathan/memo-analyzer/internal/session"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server that streams analysis runs as Server-Sent Events.

When a database URL is configured, runs are recorded and listed at
GET /analyses/{kind}/{id}/runs.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	logger, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client, err := remote.New(remote.Options{
		BaseURL: cfg.ServiceURL,
		APIKey:  cfg.APIKey,
		Timeout: cfg.Timeout(),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create analysis client: %w", err)
	}

	opts := server.Options{
		Port:           cfg.Port,
		Runner:         pipeline.NewRunner(client, logger),
		Guard:          session.NewGuard(),
		Deadline:       cfg.Deadline(),
		AllowedOrigins: cfg.AllowedOrigins,
		Logger:         logger,
	}

	if cfg.HasDatabase() {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			return err
		}
		opts.Recorder = database
		opts.Runs = database
		logger.Info("run history enabled")
	}

	srv, err := server.New(opts)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
