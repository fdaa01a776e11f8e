package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		" error ": slog.LevelError,
	}
	for in, want := range tests {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("verbose")
	assert.Error(t, err)
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelWarn, "json", &buf)

	logger.Info("dropped")
	logger.Warn("kept", "article_id", "42")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "kept", entry["msg"])
	assert.Equal(t, "42", entry["article_id"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := New(slog.LevelDebug, "text", &buf)

	logger.Debug("asset removed", "file_name", "1-a.png")
	assert.Contains(t, buf.String(), "asset removed")
	assert.Contains(t, buf.String(), "1-a.png")
}

func TestSetup_RejectsUnknownLevel(t *testing.T) {
	_, err := Setup("loud", "json", &bytes.Buffer{})
	assert.Error(t, err)
}
