package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordGeneratesFreshSalt(t *testing.T) {
	hasher := NewPasswordHasher()

	hash1, salt1, err := hasher.HashPassword("secret123")
	require.NoError(t, err)

	hash2, salt2, err := hasher.HashPassword("secret123")
	require.NoError(t, err)

	// Same password, different salt, different hash
	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)

	// Both still verify
	assert.True(t, hasher.VerifyPassword("secret123", hash1, salt1))
	assert.True(t, hasher.VerifyPassword("secret123", hash2, salt2))
}

func TestVerifyPasswordRejectsWrongPassword(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, salt, err := hasher.HashPassword("secret123")
	require.NoError(t, err)

	assert.False(t, hasher.VerifyPassword("secret124", hash, salt))
	assert.False(t, hasher.VerifyPassword("", hash, salt))
}

func TestVerifyPasswordRejectsSwappedSalt(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, _, err := hasher.HashPassword("secret123")
	require.NoError(t, err)
	_, otherSalt, err := hasher.HashPassword("secret123")
	require.NoError(t, err)

	assert.False(t, hasher.VerifyPassword("secret123", hash, otherSalt))
}

func TestVerifyPasswordMalformedInputs(t *testing.T) {
	hasher := NewPasswordHasher()

	hash, salt, err := hasher.HashPassword("secret123")
	require.NoError(t, err)

	// Malformed stored values must verify as false, not panic or error
	assert.False(t, hasher.VerifyPassword("secret123", hash, "%%%not-base64%%%"))
	assert.False(t, hasher.VerifyPassword("secret123", "%%%not-base64%%%", salt))
	assert.False(t, hasher.VerifyPassword("secret123", "", ""))
}
