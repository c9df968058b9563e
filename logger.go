// Package themeprefs provides default logging implementations.
package themeprefs

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

// LogLevel defines the various log levels.
// These correspond to slog's levels.
type LogLevel int

// Log level constants, mirroring slog levels for internal mapping.
const (
	LogLevelDebug LogLevel = LogLevel(slog.LevelDebug) // Debug messages
	LogLevelInfo  LogLevel = LogLevel(slog.LevelInfo)  // Informational messages
	LogLevelWarn  LogLevel = LogLevel(slog.LevelWarn)  // Warning messages
	LogLevelError LogLevel = LogLevel(slog.LevelError) // Error messages
)

// LevelLogger is a Logger whose level can be changed at runtime.
type LevelLogger interface {
	Logger
	SetLevel(level LogLevel)
	// With returns a logger that adds args to every record.
	With(args ...any) LevelLogger
}

// defaultSlogLogger is an implementation of the Logger interface using the slog package.
type defaultSlogLogger struct {
	slogger  *slog.Logger
	levelVar *slog.LevelVar
}

// NewDefaultLogger returns a JSON logger writing to os.Stderr at info level.
// The log level can be changed dynamically via SetLevel.
func NewDefaultLogger() LevelLogger {
	return NewLogger(os.Stderr, "json", LogLevelInfo)
}

// NewLogger returns a slog-backed logger writing to w.
// format is "json" or "text"; anything else falls back to JSON.
func NewLogger(w io.Writer, format string, level LogLevel) LevelLogger {
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.Level(level))

	handlerOpts := &slog.HandlerOptions{
		Level: levelVar,
	}
	var handler slog.Handler
	if strings.EqualFold(format, "text") {
		handler = slog.NewTextHandler(w, handlerOpts)
	} else {
		handler = slog.NewJSONHandler(w, handlerOpts)
	}
	return &defaultSlogLogger{
		slogger:  slog.New(handler),
		levelVar: levelVar,
	}
}

// ParseLogLevel maps "debug", "info", "warn"/"warning" and "error" to a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "", "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	default:
		return LogLevelInfo, fmt.Errorf("%w: unknown log level %q", ErrInvalidInput, s)
	}
}

// Debug logs a debug-level message.
func (l *defaultSlogLogger) Debug(msg string, args ...any) {
	l.slogger.Debug(msg, args...)
}

// Info logs an info-level message.
func (l *defaultSlogLogger) Info(msg string, args ...any) {
	l.slogger.Info(msg, args...)
}

// Warn logs a warning-level message.
func (l *defaultSlogLogger) Warn(msg string, args ...any) {
	l.slogger.Warn(msg, args...)
}

// Error logs an error-level message.
func (l *defaultSlogLogger) Error(msg string, args ...any) {
	l.slogger.Error(msg, args...)
}

// SetLevel changes the logging level dynamically. Derived loggers share the level.
func (l *defaultSlogLogger) SetLevel(level LogLevel) {
	if l.levelVar != nil {
		l.levelVar.Set(slog.Level(level))
	}
}

func (l *defaultSlogLogger) With(args ...any) LevelLogger {
	return &defaultSlogLogger{
		slogger:  l.slogger.With(args...),
		levelVar: l.levelVar,
	}
}
