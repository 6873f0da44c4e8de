package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Redacted replaces secret values in log output
const Redacted = "[REDACTED]"

var (
	secretKeys = map[string]bool{
		"api_key":       true,
		"apikey":        true,
		"authorization": true,
		"token":         true,
		"password":      true,
		"database_url":  true,
	}
	bearerPattern   = regexp.MustCompile(`(?i)bearer\s+[a-z0-9._~+/=-]+`)
	urlCredsPattern = regexp.MustCompile(`://[^/\s:@]+:[^/\s@]+@`)
)

// RedactingHandler wraps another handler and masks secrets in string attributes
type RedactingHandler struct {
	handler slog.Handler
}

// NewRedactingHandler wraps handler
func NewRedactingHandler(handler slog.Handler) *RedactingHandler {
	return &RedactingHandler{handler: handler}
}

// Enabled reports whether the wrapped handler handles records at the given level
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle redacts the record and passes it on
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, RedactString(r.Message), r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redactAttr(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs returns a handler whose preset attrs are redacted
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{handler: h.handler.WithAttrs(redacted)}
}

// WithGroup returns a handler with a group
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{handler: h.handler.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()
	switch a.Value.Kind() {
	case slog.KindString:
		if secretKeys[strings.ToLower(a.Key)] && a.Value.String() != "" {
			return slog.String(a.Key, Redacted)
		}
		return slog.String(a.Key, RedactString(a.Value.String()))
	case slog.KindGroup:
		attrs := a.Value.Group()
		redacted := make([]slog.Attr, len(attrs))
		for i, ga := range attrs {
			redacted[i] = redactAttr(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(redacted...)}
	default:
		return a
	}
}

// RedactString masks bearer tokens and URL credentials inside free text
func RedactString(s string) string {
	s = bearerPattern.ReplaceAllString(s, "Bearer "+Redacted)
	return urlCredsPattern.ReplaceAllString(s, "://"+Redacted+"@")
}
