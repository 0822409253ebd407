package auth

import (
	"time"

	"github.com/google/uuid"

	"authservice/internal/user"
)

// TokenClaims represents the identity claims carried by an access token
type TokenClaims struct {
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	Role      user.Role `json:"role"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
}

// TokenService defines the interface for access token creation and validation.
// Implementations include JWTService (HS256) and PasetoService (PASETO
// v4.local).
type TokenService interface {
	// CreateToken signs a new access token for the user.
	CreateToken(u *user.User) (string, error)

	// VerifyToken validates signature, issuer, audience and lifetime, and
	// returns the embedded claims.
	VerifyToken(tokenStr string) (*TokenClaims, error)

	// ExtractUserID reads the subject without validating the token. It
	// exists for diagnostics only and must never gate authorization.
	ExtractUserID(tokenStr string) (uuid.UUID, error)
}
