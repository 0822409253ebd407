package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher()

	hash, salt, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	require.NotEmpty(t, salt)

	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))
	assert.True(t, hasher.Verify("Sup3r$ecret", hash))
	assert.False(t, hasher.Verify("Sup3r$ecret2", hash))
	assert.False(t, hasher.Verify("", hash))
}

func TestPasswordHasher_Hash_DistinctSalts(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher()

	hash1, salt1, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)
	hash2, salt2, err := hasher.Hash("Sup3r$ecret")
	require.NoError(t, err)

	assert.NotEqual(t, salt1, salt2)
	assert.NotEqual(t, hash1, hash2)

	// Both still verify despite different salts
	assert.True(t, hasher.Verify("Sup3r$ecret", hash1))
	assert.True(t, hasher.Verify("Sup3r$ecret", hash2))
}

func TestPasswordHasher_Verify_MalformedHash(t *testing.T) {
	t.Parallel()

	hasher := NewPasswordHasher()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not a hash", "plaintext"},
		{"wrong segment count", "$argon2id$v=19$m=65536,t=3,p=4$onlyonesegment"},
		{"bad parameters", "$argon2id$v=19$nonsense$c2FsdA$aGFzaA"},
		{"bad salt encoding", "$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA"},
		{"bad hash encoding", "$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$!!!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.False(t, hasher.Verify("Sup3r$ecret", tt.hash))
		})
	}
}

func TestIsStrong(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     bool
	}{
		{"all classes present", "Abcdef1!", true},
		{"long passphrase", "Tr0ub4dor&Three", true},
		{"too short", "Ab1!xyz", false},
		{"no uppercase", "abcdef1!", false},
		{"no lowercase", "ABCDEF1!", false},
		{"no digit", "Abcdefg!", false},
		{"no symbol", "Abcdefg1", false},
		{"empty", "", false},
		{"whitespace counts as symbol", "Abcdef1 ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsStrong(tt.password))
		})
	}
}
