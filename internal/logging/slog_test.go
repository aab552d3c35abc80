package logging

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superKazi/awal-lazard/types"
)

func TestSlogLogger_ImplementsInterface(t *testing.T) {
	t.Helper()
	var _ types.Logger = (*SlogLogger)(nil)
}

func TestNewSlogDefault(t *testing.T) {
	logger := NewSlogDefault()

	require.NotNil(t, logger)
	require.NotNil(t, logger.logger)
}

func TestSlogLogger_Levels(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	logger := NewSlog(slog.New(handler))

	logger.Debug("recompute scheduled", "generation", 3)
	logger.Info("chart derived", "kind", "bar")
	logger.Warn("stale result discarded", "generation", 2)
	logger.Error("data source failed", "error", "timeout")

	output := buf.String()
	assert.Contains(t, output, "level=DEBUG")
	assert.Contains(t, output, "generation=3")
	assert.Contains(t, output, "level=INFO")
	assert.Contains(t, output, "kind=bar")
	assert.Contains(t, output, "level=WARN")
	assert.Contains(t, output, "level=ERROR")
	assert.Contains(t, output, "error=timeout")
}

func TestSlogLogger_LevelFiltering(t *testing.T) {
	buf := &bytes.Buffer{}
	handler := slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelWarn})
	logger := NewSlog(slog.New(handler))

	logger.Debug("debug message")
	logger.Info("info message")

	output := buf.String()
	assert.NotContains(t, output, "debug message")
	assert.NotContains(t, output, "info message")

	logger.Warn("warn message")
	logger.Error("error message")

	output = buf.String()
	assert.Contains(t, output, "warn message")
	assert.Contains(t, output, "error message")
}

func TestNewSlogFromConfig(t *testing.T) {
	t.Run("json handler", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := NewSlogFromConfig(buf, "debug", "json")
		require.NoError(t, err)

		logger.Debug("busy changed", "busy", true)
		assert.Contains(t, buf.String(), `"msg":"busy changed"`)
		assert.Contains(t, buf.String(), `"busy":true`)
	})

	t.Run("defaults to text at info", func(t *testing.T) {
		buf := &bytes.Buffer{}
		logger, err := NewSlogFromConfig(buf, "", "")
		require.NoError(t, err)

		logger.Debug("hidden")
		logger.Info("shown")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown")
	})

	t.Run("rejects unknown settings", func(t *testing.T) {
		_, err := NewSlogFromConfig(nil, "verbose", "text")
		require.Error(t, err)

		_, err = NewSlogFromConfig(nil, "info", "xml")
		require.Error(t, err)
	})
}

func TestNopLogger(t *testing.T) {
	logger := NewNop()

	require.NotPanics(t, func() {
		logger.Debug("test message", "key", "value")
		logger.Info("test message", "key", "value")
		logger.Warn("test message", "key", "value")
		logger.Error("test message", "key", "value")
		logger.Fatal("test message", "key", "value") // Should NOT exit
	})
}
