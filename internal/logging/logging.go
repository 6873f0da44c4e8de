// Package logging builds the slog loggers used across the analyzer.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	charmlog "github.com/charmbracelet/log"
)

// Supported levels
const (
	LevelDebug = "debug"
	LevelInfo  = "info"
	LevelWarn  = "warn"
	LevelError = "error"
)

// Supported output formats
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Options configures a logger
type Options struct {
	Level  string
	Format string
	Output io.Writer
}

// New returns a logger writing to opts.Output (stderr when nil). Text output goes
// through charmbracelet/log; JSON output uses slog's JSON handler. Secrets in string
// attributes are redacted in both.
func New(opts Options) (*slog.Logger, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, err
	}
	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	var handler slog.Handler
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "", FormatText:
		charm := charmlog.NewWithOptions(out, charmlog.Options{
			Level:           charmLevel(level),
			ReportTimestamp: true,
		})
		charm.SetFormatter(charmlog.TextFormatter)
		handler = charm
	case FormatJSON:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	default:
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	return slog.New(NewRedactingHandler(handler)), nil
}

// Discard returns a logger that drops every record
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// OrDiscard returns logger, or a discarding logger when it is nil
func OrDiscard(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return Discard()
	}
	return logger
}

// ParseLevel converts a level name into a slog level. Empty means info.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "", LevelInfo:
		return slog.LevelInfo, nil
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", level)
	}
}

func charmLevel(level slog.Level) charmlog.Level {
	switch {
	case level <= slog.LevelDebug:
		return charmlog.DebugLevel
	case level <= slog.LevelInfo:
		return charmlog.InfoLevel
	case level <= slog.LevelWarn:
		return charmlog.WarnLevel
	default:
		return charmlog.ErrorLevel
	}
}
