package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{" error ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseLevel(tt.input))
		})
	}
}

func TestLogger_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "warn", false)

	l.Info("hidden")
	l.Debug("hidden too")
	assert.Empty(t, buf.String())

	l.Warn("shown", "event_id", 3)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "event_id=3")
}

func TestLogger_JSONWithAttributes(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, "info", true).With("component", "relay")

	l.Info("update sent", "recipients", 2)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "update sent", record["msg"])
	assert.Equal(t, "relay", record["component"])
	assert.Equal(t, float64(2), record["recipients"])
}

func TestLogger_SetLevelAffectsChildren(t *testing.T) {
	var buf bytes.Buffer
	parent := New(&buf, "info", false)
	child := parent.With("component", "seed")

	assert.False(t, child.DebugEnabled())
	parent.SetLevel("debug")
	assert.True(t, child.DebugEnabled())

	child.Debug("now visible")
	assert.Contains(t, buf.String(), "now visible")
}
