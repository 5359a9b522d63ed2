package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warn":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), in)
	}
}

func TestCoreRoutesByLevel(t *testing.T) {
	var stdout, stderr bytes.Buffer
	cfg := Config{Level: "info", Format: "json"}
	log := zap.New(newCore(cfg, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr), nil))

	log.Debug("hidden")
	log.Info("line created", zap.Int64("line_id", 7))
	log.Warn("slow")
	log.Error("commit failed")

	assert.NotContains(t, stdout.String(), "hidden")
	assert.Contains(t, stdout.String(), "line created")
	assert.Contains(t, stdout.String(), "slow")
	assert.NotContains(t, stdout.String(), "commit failed")
	assert.Contains(t, stderr.String(), "commit failed")
	assert.NotContains(t, stderr.String(), "line created")

	first := strings.SplitN(stdout.String(), "\n", 2)[0]
	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(first), &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, float64(7), entry["line_id"])
}

func TestCoreCopiesEverythingToFile(t *testing.T) {
	var stdout, stderr, file bytes.Buffer
	cfg := Config{Level: "debug", Format: "console"}
	log := zap.New(newCore(cfg, zapcore.AddSync(&stdout), zapcore.AddSync(&stderr), zapcore.AddSync(&file)))

	log.Debug("details")
	log.Error("broken")

	assert.Contains(t, file.String(), "details")
	assert.Contains(t, file.String(), "broken")
	assert.Contains(t, file.String(), "DEBUG")
}

func TestNewWithLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "goodsledger.log")
	cfg := DefaultConfig()
	cfg.Output = path

	log, cleanup, err := New(cfg)
	require.NoError(t, err)
	log.Info("ready")
	cleanup()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "ready")
}

func TestNewFailsOnUnwritableFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output = filepath.Join(t.TempDir(), "missing", "goodsledger.log")

	_, _, err := New(cfg)
	assert.Error(t, err)
}
