package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("abcd")
	require.NoError(t, err)

	assert.NotEqual(t, "abcd", hash)
	assert.True(t, CheckPassword(hash, "abcd"))
	assert.False(t, CheckPassword(hash, "abce"))
	assert.False(t, CheckPassword(hash, ""))
}

func TestCheckPasswordAgainstGarbageHash(t *testing.T) {
	assert.False(t, CheckPassword("not-a-bcrypt-hash", "abcd"))
}
