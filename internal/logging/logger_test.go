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
	t.Parallel()

	tcs := map[string]struct {
		input string
		want  slog.Level
	}{
		"debug":                    {input: "debug", want: slog.LevelDebug},
		"info":                     {input: "info", want: slog.LevelInfo},
		"warn":                     {input: "warn", want: slog.LevelWarn},
		"warning":                  {input: "warning", want: slog.LevelWarn},
		"error":                    {input: "error", want: slog.LevelError},
		"uppercase DEBUG":          {input: "DEBUG", want: slog.LevelDebug},
		"unknown defaults to info": {input: "verbose", want: slog.LevelInfo},
		"empty defaults to info":   {input: "", want: slog.LevelInfo},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.want, ParseLevel(tc.input))
		})
	}
}

func TestNewLoggerLevelFiltering(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewLogger("info", &buf)
	logger.Debug("hidden")
	assert.Empty(t, buf.String())

	logger.Info("shown", "run", 3)
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "run=3")
}

func TestNewJSONLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := NewJSONLogger("debug", &buf)
	logger.Debug("column built", "name", "units")

	entry := map[string]any{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "column built", entry["msg"])
	assert.Equal(t, "units", entry["name"])
}
