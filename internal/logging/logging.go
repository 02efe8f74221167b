// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

// Package logging contains the structured logging setup for the booking service.
package logging

import (
	"context"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	slogotel "github.com/remychantenay/slog-otel"
)

type ctxKey string

// Public constants
const (
	ErrKey = "error"
)

// Attribute keys shared by the orchestration layers.
const (
	EventIDKey      = "event_id"
	MeetingIDKey    = "meeting_id"
	LocationTypeKey = "location_type"
	StrategyKey     = "strategy"
	ProviderKey     = "provider"
	UserIDKey       = "user_id"
)

// Private constants
const (
	slogFields      ctxKey = "slog_fields"
	logLevelDefault        = slog.LevelDebug

	// Log field for errors that need a human to act (reconnect an
	// integration, investigate a provider outage).
	priorityCritical = "critical"
)

type contextHandler struct {
	slog.Handler
}

// Handle adds contextual attributes to the Record before calling the underlying handler
func (h contextHandler) Handle(ctx context.Context, r slog.Record) error {
	if attrs, ok := ctx.Value(slogFields).([]slog.Attr); ok {
		r.AddAttrs(attrs...)
	}

	return h.Handler.Handle(ctx, r)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{h.Handler.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{h.Handler.WithGroup(name)}
}

// AppendCtx adds an slog attribute to the provided context so that it will be
// included in any Record created with such context
func AppendCtx(parent context.Context, attrs ...slog.Attr) context.Context {
	if parent == nil {
		parent = context.Background()
	}

	existing, _ := parent.Value(slogFields).([]slog.Attr)
	// Copy so sibling contexts never share a backing array.
	merged := make([]slog.Attr, 0, len(existing)+len(attrs))
	merged = append(merged, existing...)
	merged = append(merged, attrs...)
	return context.WithValue(parent, slogFields, merged)
}

// ParseLevel maps LOG_LEVEL values to slog levels, defaulting to debug.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return logLevelDefault
	}
}

// NewHandler builds the handler chain: context attributes, then trace
// correlation, then JSON output.
func NewHandler(w io.Writer, opts *slog.HandlerOptions) slog.Handler {
	return contextHandler{slogotel.OtelHandler{Next: slog.NewJSONHandler(w, opts)}}
}

// InitStructureLogConfig sets the structured log behavior
func InitStructureLogConfig(forceDebug bool) slog.Handler {
	logOptions := &slog.HandlerOptions{
		Level: ParseLevel(os.Getenv("LOG_LEVEL")),
	}
	if forceDebug {
		logOptions.Level = slog.LevelDebug
	}

	addSource := os.Getenv("LOG_ADD_SOURCE")
	logOptions.AddSource = addSource == "true" || addSource == "t" || addSource == "1"

	h := NewHandler(os.Stdout, logOptions)
	log.SetFlags(log.Llongfile)
	slog.SetDefault(slog.New(h))

	slog.Info("log config",
		"logLevel", logOptions.Level,
		"addSource", logOptions.AddSource,
	)

	return h
}

// Priority creates a slog.Attr for error priority classification
func Priority(level string) slog.Attr {
	return slog.String("priority", level)
}

// PriorityCritical marks errors that should be escalated to the team.
func PriorityCritical() slog.Attr {
	return Priority(priorityCritical)
}
