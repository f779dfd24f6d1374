//go:build !windows

package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenCommand(t *testing.T) {
	cmd, err := openCommand("linux", "/home/me/.config/sunglow")
	require.NoError(t, err)
	assert.Equal(t, []string{"xdg-open", "/home/me/.config/sunglow"}, cmd.Args)

	cmd, err = openCommand("darwin", "https://example.com")
	require.NoError(t, err)
	assert.Equal(t, []string{"open", "https://example.com"}, cmd.Args)

	_, err = openCommand("plan9", "x")
	assert.Error(t, err)
}
