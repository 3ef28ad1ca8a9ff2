package log

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logger = zap.NewNop()
var guard sync.RWMutex

// SetLogger replaces the process logger. The default discards everything.
func SetLogger(l *zap.Logger) {
	guard.Lock()
	defer guard.Unlock()

	if l == nil {
		logger = zap.NewNop()
	} else {
		logger = l
	}
}

func Logger() *zap.Logger {
	guard.RLock()
	defer guard.RUnlock()

	return logger
}

// New builds a zap logger. format is "json" or "console", level is any zap
// level name ("debug", "info", "warn", "error").
func New(level, format string) (*zap.Logger, error) {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(level)))); err != nil {
		return nil, fmt.Errorf("invalid log level '%v'", level)
	}

	var config zap.Config
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "json":
		config = zap.NewProductionConfig()
	case "console":
		config = zap.NewDevelopmentConfig()
		config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	default:
		return nil, fmt.Errorf("invalid log format '%v'", format)
	}

	config.Level = zap.NewAtomicLevelAt(lvl)
	config.DisableStacktrace = true

	return config.Build()
}

func Debugf(tag string, format string, args ...any) {
	Logger().Sugar().Named(tag).Debugf(format, args...)
}

func Infof(tag string, format string, args ...any) {
	Logger().Sugar().Named(tag).Infof(format, args...)
}

func Warnf(tag string, format string, args ...any) {
	Logger().Sugar().Named(tag).Warnf(format, args...)
}

func Errorf(tag string, format string, args ...any) {
	Logger().Sugar().Named(tag).Errorf(format, args...)
}

// With returns a tagged logger carrying structured fields, for request scoped logging.
func With(tag string, fields ...zap.Field) *zap.Logger {
	return Logger().Named(tag).With(fields...)
}
