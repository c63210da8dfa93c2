package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	passwords := []string{"password123", "abc123!", "p@ss1", "Zz9&Zz9&Zz9&Zz9&"}
	for _, p := range passwords {
		hash, err := h.Hash(p)
		require.NoError(t, err)
		assert.NotEqual(t, p, hash)

		ok, err := h.Verify(p, hash)
		require.NoError(t, err)
		assert.True(t, ok, "password %q should verify", p)

		ok, err = h.Verify(p+"x", hash)
		require.NoError(t, err)
		assert.False(t, ok, "different password must not verify")
	}
}

func TestPasswordHasher_SaltedOutputs(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	first, err := h.Hash("abc123!")
	require.NoError(t, err)
	second, err := h.Hash("abc123!")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestPasswordHasher_MalformedHash(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	for _, hash := range []string{"", "plaintext", "$2a$10$short"} {
		ok, err := h.Verify("abc123!", hash)
		assert.False(t, ok)
		assert.ErrorIs(t, err, ErrHashFormat, "hash %q", hash)
	}
}

func TestNewPasswordHasher_Cost(t *testing.T) {
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, DefaultBcryptCost, NewPasswordHasher(99).Cost())
	assert.Equal(t, 12, NewPasswordHasher(12).Cost())

	hash, err := NewPasswordHasher(bcrypt.MinCost).Hash("abc123!")
	require.NoError(t, err)
	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)
}
