package style_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/recipe/internal/ui/style"
)

func TestStatusIcon(t *testing.T) {
	assert.Equal(t, style.Circle, style.StatusIcon(false, false))
	assert.Equal(t, style.Check, style.StatusIcon(true, false))
	assert.Equal(t, style.Cross, style.StatusIcon(true, true))
}
