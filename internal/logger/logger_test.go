package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvidesJSONLogger(t *testing.T) {
	l := New("info")
	require.NotNil(t, l)

	assert.True(t, l.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, l.Enabled(context.Background(), slog.LevelDebug))
	_, ok := l.Handler().(*slog.JSONHandler)
	assert.True(t, ok, "expected JSON handler, got %T", l.Handler())
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"loud":    slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestLoggerWritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	l := newWithWriter(&buf, "debug")
	l.Debug("order confirmed", slog.String("orderId", "abc"))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "order confirmed", entry["msg"])
	assert.Equal(t, "abc", entry["orderId"])
}
