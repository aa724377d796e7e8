package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(Config{Level: "info", Format: "json", Output: &buf})
		require.NoError(t, err)

		log.Info("snapshot loaded", "datasets", 4)

		var record map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
		assert.Equal(t, "snapshot loaded", record["msg"])
		assert.Equal(t, float64(4), record["datasets"])
	})

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(Config{Format: "text", Output: &buf})
		require.NoError(t, err)

		log.Info("site built", "pages", 12)

		assert.Contains(t, buf.String(), "msg=\"site built\"")
		assert.Contains(t, buf.String(), "pages=12")
	})

	t.Run("level filters records", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := New(Config{Level: "warn", Output: &buf})
		require.NoError(t, err)

		log.Info("hidden")
		log.Debug("hidden")
		log.Warn("shown")

		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "shown")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := New(Config{Format: "xml"})
		assert.Error(t, err)
	})

	t.Run("unknown level", func(t *testing.T) {
		_, err := New(Config{Level: "verbose"})
		assert.Error(t, err)
	})
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"", slog.LevelInfo},
		{"INFO", slog.LevelInfo},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() {
		Discard().Error("dropped")
	})
}
