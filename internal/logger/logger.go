// Package logger builds the zap logger. Entries below error level go to
// stdout, error and above to stderr. A log file, when set, receives all of
// them.
package logger

import (
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger configuration.
type Config struct {
	Level      string // debug, info, warn, error
	Format     string // console, json
	Output     string // stdout, or a file path written in addition to stdout/stderr
	TimeFormat string
}

// DefaultConfig returns a configuration suitable for development.
func DefaultConfig() Config {
	return Config{
		Level:      "info",
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	}
}

// New creates a logger and returns a cleanup function that flushes it and
// closes the log file, if one was opened.
func New(cfg Config) (*zap.Logger, func(), error) {
	stdout := zapcore.Lock(os.Stdout)
	stderr := zapcore.Lock(os.Stderr)

	var file *os.File
	var extra zapcore.WriteSyncer
	if out := strings.ToLower(cfg.Output); out != "" && out != "stdout" && out != "stderr" {
		f, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		file = f
		extra = zapcore.AddSync(f)
	}

	logger := zap.New(newCore(cfg, stdout, stderr, extra),
		zap.AddCaller(),
		zap.AddStacktrace(zapcore.ErrorLevel),
	)

	cleanup := func() {
		_ = logger.Sync()
		if file != nil {
			file.Close()
		}
	}
	return logger, cleanup, nil
}

// newCore tees a low-level core writing to stdout and a high-level core
// writing to stderr. file may be nil.
func newCore(cfg Config, stdout, stderr, file zapcore.WriteSyncer) zapcore.Core {
	level := parseLevel(cfg.Level)
	encoder := createEncoder(cfg)

	low := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l < zapcore.ErrorLevel
	})
	high := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
		return l >= level && l >= zapcore.ErrorLevel
	})

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, stdout, low),
		zapcore.NewCore(encoder.Clone(), stderr, high),
	}
	if file != nil {
		cores = append(cores, zapcore.NewCore(encoder.Clone(), file, level))
	}
	return zapcore.NewTee(cores...)
}

// parseLevel converts a string level to zapcore.Level.
func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zapcore.DebugLevel
	case "info":
		return zapcore.InfoLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

func createEncoder(cfg Config) zapcore.Encoder {
	timeFormat := cfg.TimeFormat
	if timeFormat == "" {
		timeFormat = DefaultConfig().TimeFormat
	}

	encoderConfig := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout(timeFormat),
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	if cfg.Format == "json" {
		return zapcore.NewJSONEncoder(encoderConfig)
	}
	encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	return zapcore.NewConsoleEncoder(encoderConfig)
}
