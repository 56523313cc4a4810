// Package log provides the application-wide structured logger.
package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.RWMutex
	sugar = zap.NewNop().Sugar()
)

// Configure sets the global log level and output format.
// Level is one of trace, debug, info, warn, error; format is
// "console" or "json". Unknown values fall back to info/console.
func Configure(level, format string) {
	var lvl zapcore.Level
	switch level {
	case "trace", "debug":
		lvl = zapcore.DebugLevel
	case "warn":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	default:
		lvl = zapcore.InfoLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	cfg.DisableStacktrace = true

	if format != "json" {
		cfg.Encoding = "console"
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	logger, err := cfg.Build(zap.WithCaller(false))
	if err != nil {
		// Keep the previous logger rather than crash on a bad config
		Error("Failed to configure logger", "error", err)
		return
	}

	mu.Lock()
	sugar = logger.Sugar()
	mu.Unlock()
}

// Debug logs a debug message with key/value pairs.
func Debug(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Debugw(msg, args...)
}

// Info logs an informational message with key/value pairs.
func Info(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Infow(msg, args...)
}

// Warn logs a warning with key/value pairs.
func Warn(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Warnw(msg, args...)
}

// Error logs an error with key/value pairs.
func Error(msg string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	sugar.Errorw(msg, args...)
}
