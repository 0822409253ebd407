package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
)

// Opaque tokens carry no claims: 256 bits of randomness, base64url-encoded.
// Compromise of one token reveals nothing about any other.
const opaqueTokenLen = 32

// NewRefreshToken creates a cryptographically secure opaque refresh token
func NewRefreshToken() (string, error) {
	return generateRandomToken()
}

// NewResetToken creates a cryptographically secure opaque password reset token
func NewResetToken() (string, error) {
	return generateRandomToken()
}

func generateRandomToken() (string, error) {
	b := make([]byte, opaqueTokenLen)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

// hashToken produces a hex SHA-256 digest of a token
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// tokensMatch compares a presented opaque token against a stored one in
// constant time, over fixed-length digests so the comparison never leaks
// length either.
func tokensMatch(presented, stored string) bool {
	presentedHash := hashToken(presented)
	storedHash := hashToken(stored)
	return subtle.ConstantTimeCompare([]byte(presentedHash), []byte(storedHash)) == 1
}
