// Copyright The Linux Foundation and each contributor to LFX.
// SPDX-License-Identifier: MIT

package logging

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ctxAttrs(t *testing.T, ctx context.Context) []slog.Attr {
	t.Helper()
	attrs, ok := ctx.Value(slogFields).([]slog.Attr)
	require.True(t, ok, "expected slog attributes in context")
	return attrs
}

func TestAppendCtx(t *testing.T) {
	ctx := AppendCtx(context.TODO(), slog.String(EventIDKey, "evt-1"))

	attrs := ctxAttrs(t, ctx)
	require.Len(t, attrs, 1)
	assert.Equal(t, EventIDKey, attrs[0].Key)
	assert.Equal(t, "evt-1", attrs[0].Value.String())
}

func TestAppendCtx_ChainsParentAttributes(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String(EventIDKey, "evt-1"))
	child := AppendCtx(parent, slog.String(MeetingIDKey, "mtg-1"), slog.String(StrategyKey, "zoom+google_calendar"))

	attrs := ctxAttrs(t, child)
	require.Len(t, attrs, 3)
	assert.Equal(t, []string{EventIDKey, MeetingIDKey, StrategyKey}, []string{attrs[0].Key, attrs[1].Key, attrs[2].Key})

	assert.Len(t, ctxAttrs(t, parent), 1, "parent context must not see child attributes")
}

func TestAppendCtx_SiblingsDoNotShareState(t *testing.T) {
	parent := AppendCtx(context.Background(), slog.String("a", "1"), slog.String("b", "2"))
	left := AppendCtx(parent, slog.String("left", "x"))
	right := AppendCtx(parent, slog.String("right", "y"))

	assert.Equal(t, "left", ctxAttrs(t, left)[2].Key)
	assert.Equal(t, "right", ctxAttrs(t, right)[2].Key)
}

func TestContextHandler_Handle(t *testing.T) {
	var captured []string
	handler := contextHandler{Handler: &testSlogHandler{
		handleFunc: func(_ context.Context, r slog.Record) error {
			r.Attrs(func(a slog.Attr) bool {
				captured = append(captured, a.Key)
				return true
			})
			return nil
		},
	}}

	ctx := AppendCtx(context.Background(), slog.String(LocationTypeKey, "OUTLOOK_WITH_ZOOM"))
	record := slog.NewRecord(time.Now(), slog.LevelInfo, "creating meeting", 0)
	record.AddAttrs(slog.String("record_key", "record_value"))

	require.NoError(t, handler.Handle(ctx, record))
	assert.Equal(t, []string{"record_key", LocationTypeKey}, captured)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		value    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelDebug},
		{"", slog.LevelDebug},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.value))
		})
	}
}

func TestInitStructureLogConfig(t *testing.T) {
	for _, addSource := range []string{"true", "t", "1", "false", ""} {
		t.Run("add_source="+addSource, func(t *testing.T) {
			t.Setenv("LOG_LEVEL", "warn")
			t.Setenv("LOG_ADD_SOURCE", addSource)

			handler := InitStructureLogConfig(false)
			require.NotNil(t, handler)
			assert.False(t, handler.Enabled(context.Background(), slog.LevelInfo))
		})
	}

	t.Run("debug flag overrides LOG_LEVEL", func(t *testing.T) {
		t.Setenv("LOG_LEVEL", "error")
		handler := InitStructureLogConfig(true)
		assert.True(t, handler.Enabled(context.Background(), slog.LevelDebug))
	})
}

func TestPriorityCritical(t *testing.T) {
	attr := PriorityCritical()
	assert.Equal(t, "priority", attr.Key)
	assert.Equal(t, "critical", attr.Value.String())
}

// testSlogHandler is a helper for testing
type testSlogHandler struct {
	handleFunc func(context.Context, slog.Record) error
}

func (h *testSlogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

func (h *testSlogHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.handleFunc != nil {
		return h.handleFunc(ctx, r)
	}
	return nil
}

func (h *testSlogHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

func (h *testSlogHandler) WithGroup(string) slog.Handler {
	return h
}
