package random

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketCode(t *testing.T) {
	pattern := regexp.MustCompile(`^[0-9A-F]{32}$`)

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code, err := TicketCode()
		require.NoError(t, err)
		assert.Regexp(t, pattern, code)
		assert.False(t, seen[code])
		seen[code] = true
	}
}

func TestCode_Length(t *testing.T) {
	code, err := Code(4)
	require.NoError(t, err)
	assert.Len(t, code, 8)
}
