package refcode

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := New()
		require.NoError(t, err)
		assert.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestNew_Varies(t *testing.T) {
	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		code, err := New()
		require.NoError(t, err)
		seen[code] = struct{}{}
	}
	// Коллизии на 50 кодах из 900000 практически исключены.
	assert.Greater(t, len(seen), 45)
}
