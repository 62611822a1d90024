package shell_test

import (
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/recipe/internal/adapters/shell"
)

func TestResolveEnvironment(t *testing.T) {
	got := shell.ResolveEnvironment(
		[]string{"PATH=/usr/bin", "HOME=/home/me", "MALFORMED"},
		map[string]string{"HOME": "/tmp/home", "NODE_ENV": "production"},
	)

	assert.Equal(t, []string{"HOME=/tmp/home", "NODE_ENV=production", "PATH=/usr/bin"}, got)
}

func TestLookPath_NoPath(t *testing.T) {
	_, err := shell.LookPath("sh", []string{"HOME=/tmp"})
	require.ErrorIs(t, err, exec.ErrNotFound)
}
