package themeprefs

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultLogger(t *testing.T) {
	// Redirect log output to a buffer for testing
	var buf bytes.Buffer
	slogHandler := slog.NewTextHandler(&buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Remove time for consistent test output
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})

	logger := &defaultSlogLogger{
		slogger: slog.New(slogHandler),
	}

	logger.Debug("Debug message", "arg1", 123)
	logger.Info("Info message")
	logger.Warn("Warn message", "key_warn", "val_warn")
	logger.Error("Error message", "key_err", "val_err")

	logOutput := buf.String()

	expected := []string{
		"level=DEBUG msg=\"Debug message\" arg1=123",
		"level=INFO msg=\"Info message\"",
		"level=WARN msg=\"Warn message\" key_warn=val_warn",
		"level=ERROR msg=\"Error message\" key_err=val_err",
	}
	for _, want := range expected {
		if !strings.Contains(logOutput, want) {
			t.Errorf("Message not logged correctly.\nExpected to contain: %s\nGot: %s", want, logOutput)
		}
	}
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "text", LogLevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "component", "test")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "level=WARN msg=shown component=test")

	buf.Reset()
	logger.SetLevel(LogLevelDebug)
	logger.With("component", "child").Debug("now visible")
	assert.Contains(t, buf.String(), "msg=\"now visible\" component=child")
}

func TestNewLogger_JSONDefault(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "", LogLevelInfo)
	logger.Info("json line", "k", "v")
	assert.Contains(t, buf.String(), `"msg":"json line"`)
	assert.Contains(t, buf.String(), `"k":"v"`)
}

func TestParseLogLevel(t *testing.T) {
	tests := map[string]LogLevel{
		"debug":   LogLevelDebug,
		"":        LogLevelInfo,
		"INFO":    LogLevelInfo,
		"warning": LogLevelWarn,
		"warn":    LogLevelWarn,
		"error":   LogLevelError,
	}
	for in, want := range tests {
		got, err := ParseLogLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLogLevel("verbose")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
