package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, salt, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.Len(t, salt, 32)

	_, err = hex.DecodeString(hash)
	require.NoError(t, err)

	require.True(t, VerifyPassword("correct horse battery staple", salt, hash))
	require.False(t, VerifyPassword("wrong password", salt, hash))
}

func TestHashPasswordUsesFreshSalt(t *testing.T) {
	hash1, salt1, err := HashPassword("secret")
	require.NoError(t, err)
	hash2, salt2, err := HashPassword("secret")
	require.NoError(t, err)

	require.NotEqual(t, salt1, salt2)
	require.NotEqual(t, hash1, hash2)
}

func TestVerifyPasswordRejectsMissingMaterial(t *testing.T) {
	hash, salt, err := HashPassword("secret")
	require.NoError(t, err)

	require.False(t, VerifyPassword("secret", "", hash))
	require.False(t, VerifyPassword("secret", salt, ""))
	require.False(t, VerifyPassword("secret", salt, "not-hex"))
}
