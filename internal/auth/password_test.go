package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("pw1", 10)
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotContains(t, hash, "pw1")

	assert.True(t, CheckPassword("pw1", hash))
	assert.False(t, CheckPassword("pw2", hash))
	assert.False(t, CheckPassword("", hash))
}

func TestHashPassword_CostFloor(t *testing.T) {
	// A cost below the floor must not produce a weaker hash.
	hash, err := HashPassword("secret", 1)
	require.NoError(t, err)

	// bcrypt hashes embed the cost as $2a$NN$.
	require.Greater(t, len(hash), 7)
	assert.Equal(t, "10", hash[4:6])
	assert.True(t, CheckPassword("secret", hash))
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	// A corrupted stored hash is a mismatch, never a panic or a bypass.
	for _, hash := range []string{"", "not-a-hash", "$2a$10$tooshort", "$9z$99$garbage"} {
		assert.False(t, CheckPassword("anything", hash), "hash %q", hash)
	}
}
