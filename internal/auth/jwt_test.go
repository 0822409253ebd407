package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authservice/internal/user"
)

const (
	testIssuer   = "authservice"
	testAudience = "authservice-clients"
)

var testJWTSecret = []byte("test-secret-key-for-unit-tests-only")

func testUser(t *testing.T) *user.User {
	t.Helper()
	return &user.User{
		ID:       uuid.New(),
		UserName: "alice",
		Email:    "alice@example.com",
		Role:     user.RoleUser,
	}
}

func TestNewJWTService_EmptySecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(nil, testIssuer, testAudience, time.Hour)
	require.Error(t, err)
}

func TestJWTService_CreateAndVerify(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testJWTSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	u := testUser(t)

	token, err := svc.CreateToken(u)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.VerifyToken(token)
	require.NoError(t, err)

	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, u.Email, claims.Email)
	assert.Equal(t, u.UserName, claims.UserName)
	assert.Equal(t, user.RoleUser, claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, 5*time.Second)
}

func TestJWTService_VerifyToken_Expired(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testJWTSecret, testIssuer, testAudience, -time.Minute)
	require.NoError(t, err)

	token, err := svc.CreateToken(testUser(t))
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_VerifyToken_WrongKey(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testJWTSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)
	other, err := NewJWTService([]byte("a-completely-different-secret"), testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	token, err := svc.CreateToken(testUser(t))
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_VerifyToken_WrongIssuer(t *testing.T) {
	t.Parallel()

	issuing, err := NewJWTService(testJWTSecret, "someone-else", testAudience, time.Hour)
	require.NoError(t, err)
	verifying, err := NewJWTService(testJWTSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	token, err := issuing.CreateToken(testUser(t))
	require.NoError(t, err)

	_, err = verifying.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_VerifyToken_WrongAudience(t *testing.T) {
	t.Parallel()

	issuing, err := NewJWTService(testJWTSecret, testIssuer, "other-clients", time.Hour)
	require.NoError(t, err)
	verifying, err := NewJWTService(testJWTSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	token, err := issuing.CreateToken(testUser(t))
	require.NoError(t, err)

	_, err = verifying.VerifyToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_VerifyToken_Garbage(t *testing.T) {
	t.Parallel()

	svc, err := NewJWTService(testJWTSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)

	_, err = svc.VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.VerifyToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_ExtractUserID(t *testing.T) {
	t.Parallel()

	// Extraction skips signature validation, so even an expired token
	// yields the subject
	svc, err := NewJWTService(testJWTSecret, testIssuer, testAudience, -time.Minute)
	require.NoError(t, err)

	u := testUser(t)
	token, err := svc.CreateToken(u)
	require.NoError(t, err)

	id, err := svc.ExtractUserID(token)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id)

	_, err = svc.ExtractUserID("garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
