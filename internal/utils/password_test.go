package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret", hash)

	assert.True(t, VerifyPassword(hash, "s3cret"))
	assert.False(t, VerifyPassword(hash, "wrong"))
}

func TestHashPasswordClampsOutOfRangeCost(t *testing.T) {
	for _, cost := range []int{0, -3, 99} {
		hash, err := HashPassword("s3cret", cost)
		require.NoError(t, err, "cost %d falls back to the default instead of failing", cost)
		assert.True(t, VerifyPassword(hash, "s3cret"))
	}
}

func TestHashRefreshRawIsStable(t *testing.T) {
	a := HashRefreshRaw("token")
	b := HashRefreshRaw("token")
	assert.Equal(t, a, b)
	assert.Len(t, a, 64) // sha256 hex
	assert.NotEqual(t, a, HashRefreshRaw("other"))
}

func TestNewRefreshTokenIsRandom(t *testing.T) {
	t1, err := NewRefreshToken(7)
	require.NoError(t, err)
	t2, err := NewRefreshToken(7)
	require.NoError(t, err)
	assert.NotEqual(t, t1.Raw, t2.Raw)
	assert.Len(t, t1.Raw, 96)
}
