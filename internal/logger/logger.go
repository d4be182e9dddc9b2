// Package logger provides a simple leveled logger for the application.
// It supports three levels: off (no output), normal (info/warn/error),
// and verbose (includes debug). Output goes through zap, so the logger is
// safe for concurrent use and cheap when a level is disabled.
package logger

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level controls the verbosity of the logger.
type Level int

const (
	// LevelOff disables all log output.
	LevelOff Level = iota
	// LevelNormal enables info, warn, and error output.
	LevelNormal
	// LevelVerbose enables all output including debug.
	LevelVerbose
)

// offLevel sits above every level zap emits, which silences the core.
const offLevel = zapcore.FatalLevel + 1

// Logger is a leveled printf-style logger.
type Logger struct {
	atom  zap.AtomicLevel
	sugar *zap.SugaredLogger
}

// New creates a logger with the given level, writing to the given output.
// If out is nil, os.Stderr is used.
func New(level Level, out io.Writer) *Logger {
	if out == nil {
		out = os.Stderr
	}

	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
	encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
	encCfg.EncodeCaller = zapcore.ShortCallerEncoder

	l := &Logger{atom: zap.NewAtomicLevel()}
	l.SetLevel(level)

	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.AddSync(out),
		l.atom,
	)
	l.sugar = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar()
	return l
}

// Wrap adapts an existing zap logger whose level is controlled by atom.
func Wrap(z *zap.Logger, atom zap.AtomicLevel) *Logger {
	return &Logger{atom: atom, sugar: z.WithOptions(zap.AddCallerSkip(1)).Sugar()}
}

// SetLevel changes the log level at runtime.
func (l *Logger) SetLevel(level Level) {
	switch level {
	case LevelOff:
		l.atom.SetLevel(offLevel)
	case LevelVerbose:
		l.atom.SetLevel(zapcore.DebugLevel)
	default:
		l.atom.SetLevel(zapcore.InfoLevel)
	}
}

// GetLevel returns the current log level.
func (l *Logger) GetLevel() Level {
	switch lvl := l.atom.Level(); {
	case lvl > zapcore.FatalLevel:
		return LevelOff
	case lvl <= zapcore.DebugLevel:
		return LevelVerbose
	default:
		return LevelNormal
	}
}

// Debug logs a message at debug level (only visible in verbose mode).
func (l *Logger) Debug(format string, args ...any) {
	l.sugar.Debugf(format, args...)
}

// Info logs a message at info level.
func (l *Logger) Info(format string, args ...any) {
	l.sugar.Infof(format, args...)
}

// Warn logs a message at warn level.
func (l *Logger) Warn(format string, args ...any) {
	l.sugar.Warnf(format, args...)
}

// Error logs a message at error level.
func (l *Logger) Error(format string, args ...any) {
	l.sugar.Errorf(format, args...)
}

// Sync flushes buffered output. Call it before the process exits.
func (l *Logger) Sync() error {
	return l.sugar.Sync()
}
