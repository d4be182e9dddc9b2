// Package loggertest builds loggers for tests.
package loggertest

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest"

	"github.com/hammamikhairi/friday/internal/logger"
)

// New returns a verbose logger that writes through t.Log, so output
// only shows up for failing tests or with -v.
func New(t testing.TB) *logger.Logger {
	atom := zap.NewAtomicLevelAt(zapcore.DebugLevel)
	return logger.Wrap(zaptest.NewLogger(t, zaptest.Level(atom)), atom)
}
