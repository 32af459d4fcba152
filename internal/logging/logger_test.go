package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewWithWriterFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := For(NewWithWriter(WarnLevel, &buf), ComponentEngine)

	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, ComponentEngine)
}

func TestLevelParsing(t *testing.T) {
	assert.Equal(t, "debug", DebugLevel.zapLevel().String())
	assert.Equal(t, "info", Level("bogus").zapLevel().String())
	assert.Equal(t, "error", Level("ERROR").zapLevel().String())
}

func TestForNilLogger(t *testing.T) {
	assert.NotNil(t, For(nil, ComponentCLI))
}
