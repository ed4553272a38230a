package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/YoshitsuguKoike/billrecon/internal/app"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LogLevelWarn, &buf)

	logger.Debug("hidden %d", 1)
	logger.Info("hidden %d", 2)
	logger.Warn("shown %d", 3)
	logger.Error("shown %d", 4)

	assert.Equal(t, "WARN: shown 3\nERROR: shown 4\n", buf.String())

	buf.Reset()
	logger.SetLevel(LogLevelDebug)
	logger.Debug("now visible")
	assert.Equal(t, "DEBUG: now visible\n", buf.String())
	assert.Equal(t, LogLevelDebug, logger.GetLevel())
}

func TestLogLevelFromString(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		" INFO ":  LogLevelInfo,
		"warning": LogLevelWarn,
		"error":   LogLevelError,
		"":        LogLevelWarn,
		"verbose": LogLevelWarn,
	}
	for in, want := range tests {
		assert.Equal(t, want, LogLevelFromString(in), in)
	}
}

func TestInitializeLoggers_SharesLevelWithAppLayer(t *testing.T) {
	original := app.GetLogger()
	t.Cleanup(func() { app.SetLogger(original) })

	var buf bytes.Buffer
	installed := InitializeLoggers(NewLogger(LogLevelInfo, &buf))

	app.GetLogger().Info("run %s finished", "r1")
	installed.Debug("filtered")

	assert.Equal(t, "INFO: run r1 finished\n", buf.String())
}
