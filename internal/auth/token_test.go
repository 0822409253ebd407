package auth

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRefreshToken(t *testing.T) {
	t.Parallel()

	token, err := NewRefreshToken()
	require.NoError(t, err)

	decoded, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, decoded, opaqueTokenLen)
}

func TestNewRefreshToken_Unique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := NewRefreshToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "token generated twice")
		seen[token] = true
	}
}

func TestNewResetToken(t *testing.T) {
	t.Parallel()

	token, err := NewResetToken()
	require.NoError(t, err)

	decoded, err := base64.URLEncoding.DecodeString(token)
	require.NoError(t, err)
	assert.Len(t, decoded, opaqueTokenLen)
}

func TestTokensMatch(t *testing.T) {
	t.Parallel()

	token, err := NewRefreshToken()
	require.NoError(t, err)
	other, err := NewRefreshToken()
	require.NoError(t, err)

	assert.True(t, tokensMatch(token, token))
	assert.False(t, tokensMatch(token, other))
	assert.False(t, tokensMatch("", token))
	assert.False(t, tokensMatch(token, ""))
	assert.False(t, tokensMatch(token[:len(token)-1], token))
}
