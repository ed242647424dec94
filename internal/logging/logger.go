package logging

import (
	"fmt"
	"os"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// logger is read from every goroutine that logs; it is silent until initialized
var logger atomic.Pointer[zap.Logger]

func init() {
	logger.Store(zap.NewNop())
}

// LogLevelEnvVar is the environment variable that controls logging verbosity.
// When unset or empty, logging is silent (no zap output).
// Valid values: "debug", "info", "warn", "error"
const LogLevelEnvVar = "MODALSTATE_LOG_LEVEL"

// maxContentLength bounds how much of an envelope body is logged
const maxContentLength = 2048

// Initialize creates a new logger with the specified level.
// If level is empty, it checks MODALSTATE_LOG_LEVEL.
// If neither is set, logging is disabled (silent mode).
func Initialize(level string) error {
	if level == "" {
		level = os.Getenv(LogLevelEnvVar)
	}

	if level == "" {
		logger.Store(zap.NewNop())
		return nil
	}

	config := zap.Config{
		Level:            zap.NewAtomicLevelAt(ParseLevel(level)),
		Development:      false,
		Encoding:         "console",
		EncoderConfig:    zap.NewDevelopmentEncoderConfig(),
		OutputPaths:      []string{"stdout"},
		ErrorOutputPaths: []string{"stderr"},
	}

	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeCaller = zapcore.ShortCallerEncoder

	l, err := config.Build()
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Store(l)

	return nil
}

// ParseLevel maps a level name to a zap level. Unknown names map to info.
func ParseLevel(level string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// SetLogger replaces the global logger. Tests use it with zaptest/observer.
// A nil logger restores the silent default.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger.Store(l)
}

// GetLogger returns the global logger instance
func GetLogger() *zap.Logger {
	return logger.Load()
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	GetLogger().Info(msg, fields...)
}

// Debug logs a debug message
func Debug(msg string, fields ...zap.Field) {
	GetLogger().Debug(msg, fields...)
}

// Warn logs a warning message
func Warn(msg string, fields ...zap.Field) {
	GetLogger().Warn(msg, fields...)
}

// Error logs an error message
func Error(msg string, fields ...zap.Field) {
	GetLogger().Error(msg, fields...)
}

// LogConnection logs a Socket Mode connection event
func LogConnection(connectionID string, event string) {
	Info("Connection event",
		zap.String("connection", connectionID),
		zap.String("event", event),
	)
}

// LogEnvelope logs a Socket Mode envelope. The body is only included at debug level.
func LogEnvelope(direction, envelopeType, envelopeID string, body []byte) {
	fields := []zap.Field{
		zap.String("direction", direction),
		zap.String("type", envelopeType),
		zap.String("envelope_id", envelopeID),
		zap.Int("length", len(body)),
	}

	if GetLogger().Core().Enabled(zapcore.DebugLevel) {
		fields = append(fields, zap.String("content", truncate(body)))
	}

	Debug("Socket Mode envelope", fields...)
}

// LogDispatch logs the outcome of handling one event
func LogDispatch(kind, viewID string, err error) {
	if err != nil {
		Error("Event handling failed",
			zap.String("event", kind),
			zap.String("view_id", viewID),
			zap.Error(err),
		)
		return
	}
	Info("Event handled",
		zap.String("event", kind),
		zap.String("view_id", viewID),
	)
}

func truncate(data []byte) string {
	if len(data) > maxContentLength {
		return string(data[:maxContentLength]) + "..."
	}
	return string(data)
}

// Sync flushes any buffered log entries
func Sync() {
	_ = logger.Load().Sync()
}
