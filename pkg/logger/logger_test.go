package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/frahmantamala/contract-portal/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"DEBUG":   slog.LevelDebug,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, logger.ParseLevel(in), "level %q", in)
	}
}

func TestNewProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New("production", logger.Options{Output: &buf})

	l.Debug("hidden")
	l.Info("visible", "contract_id", 7)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "visible", entry["msg"])
	assert.EqualValues(t, 7, entry["contract_id"])
}

func TestNewOverridesLevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New("production", logger.Options{Level: "error", Format: "text", Output: &buf})

	l.Warn("dropped")
	assert.Empty(t, buf.String())

	l.Error("kept")
	assert.Contains(t, buf.String(), "msg=kept")
}

func TestContextLogger(t *testing.T) {
	var buf bytes.Buffer
	base := logger.New("development", logger.Options{Output: &buf})

	assert.NotNil(t, logger.From(context.Background()))

	ctx := logger.With(context.Background(), "traceID", "abc")
	assert.NotNil(t, logger.From(ctx))

	base.With("traceID", "abc").Info("scoped")
	assert.Contains(t, buf.String(), "traceID=abc")
}
