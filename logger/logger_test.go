package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/programme-lv/participation/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, logger.ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, logger.ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, logger.ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, logger.ParseLevel("verbose"))
}

func TestContextLoggerCarriesFields(t *testing.T) {
	buf := &bytes.Buffer{}
	log := logger.New(buf, "info", "json")

	ctx := logger.WithLogger(context.Background(), log)
	ctx = logger.WithRequestID(ctx, "req-1")
	ctx = logger.WithSubmitter(ctx, "jane@example.com", "2025-02-17")
	logger.FromContext(ctx).Info("hello")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "hello", line["msg"])
	assert.Equal(t, "req-1", line["request_id"])
	assert.Equal(t, "jane@example.com", line["email"])
	assert.Equal(t, "2025-02-17", line["class_date"])
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, slog.Default(), logger.FromContext(context.Background()))
}
