package logging

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "warn"})
	require.NoError(t, err)

	logger.Info("backdrop started")
	logger.Warn("could not get sun position", "err", "denied")

	out := buf.String()
	assert.NotContains(t, out, "backdrop started")
	assert.Contains(t, out, "could not get sun position")
	assert.Contains(t, out, "denied")
}

func TestDebugOverridesLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "error", Debug: true})
	require.NoError(t, err)

	logger.Debug("frame stats", "fps", 30)
	assert.Contains(t, buf.String(), "frame stats")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.Error(t, err)
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("ignored") })
}
