package psswd

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestPasswordHash(t *testing.T) {
	h := PasswordHash(bcrypt.MinCost)

	hash, err := h.HashPassword("s3cret")
	require.NoError(t, err)
	require.NotEqual(t, "s3cret", hash)

	require.True(t, h.ComparePassword("s3cret", hash))
	require.False(t, h.ComparePassword("wrong", hash))
	require.False(t, h.ComparePassword("s3cret", ""))
}
