package loggertest

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/hammamikhairi/friday/internal/logger"
)

func TestNew(t *testing.T) {
	log := New(t)
	assert.Equal(t, logger.LevelVerbose, log.GetLevel())
	log.Debug("routed through t.Log")

	log.SetLevel(logger.LevelNormal)
	assert.Equal(t, logger.LevelNormal, log.GetLevel())
}
