// Package log provides logging helpers shared by the transport layer.
package log

import (
	"context"
	"log/slog"
	"strings"
)

// Redacted replaces sensitive attribute values in log output.
const Redacted = "[REDACTED]"

// sensitiveKeys lists attribute keys whose values are redacted. Wire-dump
// logging sees transport headers, so the set covers credential-bearing
// header names as well as generic secret-ish keys. Matching is
// case-insensitive on substrings.
var sensitiveKeys = []string{
	"authorization",
	"proxy-authorization",
	"cookie",
	"password",
	"secret",
	"token",
	"credential",
}

// RedactingHandler is a slog.Handler that redacts sensitive attributes
// before forwarding records to the next handler.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next with redaction.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	return &RedactingHandler{next: next}
}

// Enabled implements slog.Handler.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	var attrs []slog.Attr
	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, redactAttr(a))
		return true
	})

	redacted := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	redacted.AddAttrs(attrs...)
	return h.next.Handle(ctx, redacted)
}

// WithAttrs implements slog.Handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	redacted := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		redacted[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(redacted)}
}

// WithGroup implements slog.Handler.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

// SensitiveKey reports whether values logged under key must be redacted.
func SensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		redacted := make([]any, len(group))
		for i, attr := range group {
			redacted[i] = redactAttr(attr)
		}
		return slog.Group(a.Key, redacted...)
	}
	if SensitiveKey(a.Key) {
		return slog.String(a.Key, Redacted)
	}
	return a
}
