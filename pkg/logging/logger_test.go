package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/ansync/pkg/logging"
)

func TestDefaultLogger(t *testing.T) {
	buf := logging.CaptureForTest(t)

	logging.Debug().Msg("debug message")
	logging.Info().Msg("info message")
	logging.Warn().Msg("warning message")
	logging.Error().Msg("error message")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[1], `"level":"info"`)
}

func TestContextLogger(t *testing.T) {
	buf := logging.CaptureForTest(t)

	ctx := logging.WithChain(context.Background(), "juno-1")
	ctx = logging.WithSection(ctx, "pools")
	ctx = logging.WithBatch(ctx, 3)
	ctx = logging.WithOperation(ctx, "sync")
	logging.Ctx(ctx).Info().Msg("submitting")

	out := buf.String()
	for _, want := range []string{`"chain_id":"juno-1"`, `"section":"pools"`, `"batch":3`, `"operation":"sync"`, "submitting"} {
		assert.Contains(t, out, want)
	}
}

func TestRequestID(t *testing.T) {
	buf := logging.CaptureForTest(t)

	ctx := logging.WithRequestID(context.Background(), "demo-001")
	assert.Equal(t, "demo-001", logging.RequestID(ctx))
	assert.Empty(t, logging.RequestID(context.Background()))

	logging.Ctx(ctx).Info().Msg("traced")
	assert.Contains(t, buf.String(), `"request_id":"demo-001"`)
}

func TestFromContext(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Same(t, logging.Default(), logging.FromContext(nil)) //nolint:staticcheck // nil context is tolerated

	logger := zerolog.Nop()
	ctx := logging.WithLogger(context.Background(), &logger)
	assert.Same(t, &logger, logging.Ctx(ctx))

	ctx = logging.WithLogger(context.Background(), nil)
	assert.Same(t, logging.Default(), logging.Ctx(ctx))
}

func TestNewLoggerFromConfig(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })

	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"", zerolog.InfoLevel},
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{"warning", zerolog.WarnLevel},
		{"off", zerolog.Disabled},
		{"chatty", zerolog.InfoLevel},
	}
	for _, tt := range tests {
		logger := logging.NewLoggerFromConfig(&logging.Config{Level: tt.level, Output: "discard"})
		assert.Equal(t, tt.want, logger.GetLevel(), "level %q", tt.level)
	}
}

func TestFileOutput(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.TraceLevel) })
	path := filepath.Join(t.TempDir(), "ansync.log")

	logger := logging.NewLoggerFromConfig(&logging.Config{Output: path, Format: "json"})
	logger.Info().Str("chain_id", "juno-1").Msg("to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"chain_id":"juno-1"`)
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("DEBUG", "1")
	t.Setenv("LOG_FORMAT", "json")
	t.Setenv("NO_COLOR", "1")

	cfg := logging.ConfigFromEnv()
	assert.Equal(t, "debug", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	assert.True(t, cfg.NoColor)

	t.Setenv("LOG_LEVEL", "error")
	assert.Equal(t, "error", logging.ConfigFromEnv().Level)
}
