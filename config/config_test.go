package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// The HTTP client built from this value must always carry a deadline, so
// anything that does not parse to a positive integer falls back to the default.
func TestTimeoutSeconds(t *testing.T) {
	assert.Equal(t, 15, timeoutSeconds("15"))
	assert.Equal(t, 10, timeoutSeconds(""))
	assert.Equal(t, 10, timeoutSeconds("abc"))
	assert.Equal(t, 10, timeoutSeconds("0"))
	assert.Equal(t, 10, timeoutSeconds("-5"))
}
