// Package logging builds the zap loggers used for engine and loader tracing.
// User-facing output goes through utils.DiagnosticSystem instead.
package logging

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Component names attached to every logger as the "component" field
const (
	ComponentEngine   = "Engine"
	ComponentAnalyzer = "Analyzer"
	ComponentLoader   = "Loader"
	ComponentCLI      = "CLI"
)

// Level is a textual log level as accepted on the command line
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

func (l Level) zapLevel() zapcore.Level {
	switch strings.ToLower(string(l)) {
	case string(DebugLevel):
		return zapcore.DebugLevel
	case string(WarnLevel):
		return zapcore.WarnLevel
	case string(ErrorLevel):
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}

// New creates a console logger writing to stderr
func New(level Level) *zap.Logger {
	return NewWithWriter(level, os.Stderr)
}

// NewWithWriter creates a console logger writing to w
func NewWithWriter(level Level, w io.Writer) *zap.Logger {
	encoderConfig := zapcore.EncoderConfig{
		TimeKey:          "time",
		LevelKey:         "level",
		MessageKey:       "msg",
		LineEnding:       zapcore.DefaultLineEnding,
		EncodeLevel:      zapcore.CapitalLevelEncoder,
		EncodeTime:       zapcore.ISO8601TimeEncoder,
		EncodeDuration:   zapcore.StringDurationEncoder,
		ConsoleSeparator: " | ",
	}

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderConfig),
		zapcore.AddSync(w),
		zap.NewAtomicLevelAt(level.zapLevel()),
	)
	return zap.New(core)
}

// Nop returns a logger that discards everything
func Nop() *zap.Logger {
	return zap.NewNop()
}

// For names a logger after a component
func For(logger *zap.Logger, component string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(zap.String("component", component))
}
