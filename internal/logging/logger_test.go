package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.input))
		})
	}
}

func TestNew_JSONIncludesRunID(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "info", Format: FormatJSON, Writer: &buf, RunID: "run-1"})

	logger.Info("Report written", slog.String("path", "out.xlsx"))

	var record map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "Report written", record["msg"])
	assert.Equal(t, "run-1", record["run_id"])
	assert.Equal(t, "out.xlsx", record["path"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "warn", Format: FormatJSON, Writer: &buf})

	logger.Info("hidden")
	assert.Empty(t, buf.String())

	logger.Warn("Metadata lookup failed")
	assert.Contains(t, buf.String(), "Metadata lookup failed")
}

func TestNew_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Options{Level: "debug", Format: FormatText, Writer: &buf, RunID: "abc"})

	logger.Debug("Loaded rows", slog.Int("rows", 3))

	out := buf.String()
	assert.Contains(t, out, "Loaded rows")
	assert.Contains(t, out, "rows")
	assert.Contains(t, out, "abc")
}

func TestSetup_SetsDefault(t *testing.T) {
	previous := slog.Default()
	t.Cleanup(func() { slog.SetDefault(previous) })

	var buf bytes.Buffer
	logger := Setup(Options{Format: FormatJSON, Writer: &buf})
	assert.Same(t, logger, slog.Default())

	slog.Info("via default")
	assert.Contains(t, buf.String(), "via default")
}

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	_, err := uuid.Parse(id)
	assert.NoError(t, err)
	assert.NotEqual(t, id, NewRunID())
}
