package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"authservice/internal/user"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token has expired")
)

// jwtClaims is the on-wire claims structure for access tokens
type jwtClaims struct {
	Email    string `json:"email"`
	UserName string `json:"userName"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// JWTService issues and validates HS256-signed JWT access tokens
type JWTService struct {
	secret   []byte
	issuer   string
	audience string
	duration time.Duration
}

func NewJWTService(secret []byte, issuer, audience string, duration time.Duration) (*JWTService, error) {
	if len(secret) == 0 {
		return nil, fmt.Errorf("jwt signing secret must not be empty")
	}

	return &JWTService{
		secret:   secret,
		issuer:   issuer,
		audience: audience,
		duration: duration,
	}, nil
}

var _ TokenService = (*JWTService)(nil)

// CreateToken generates a new signed access token with the user's identity claims
func (s *JWTService) CreateToken(u *user.User) (string, error) {
	now := time.Now()

	claims := &jwtClaims{
		Email:    u.Email,
		UserName: u.UserName,
		Role:     u.Role.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   u.ID.String(),
			Issuer:    s.issuer,
			Audience:  jwt.ClaimStrings{s.audience},
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.duration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signed, nil
}

// VerifyToken validates the token's signature, issuer, audience and lifetime
func (s *JWTService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	claims := &jwtClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		// Only HMAC is acceptable; reject alg-substitution attempts
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)

	if err != nil {
		return nil, mapJWTError(err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	return claimsFromJWT(claims)
}

// ExtractUserID reads the subject claim without validating the signature.
// Diagnostic use only.
func (s *JWTService) ExtractUserID(tokenStr string) (uuid.UUID, error) {
	claims := &jwtClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(tokenStr, claims); err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}

func claimsFromJWT(claims *jwtClaims) (*TokenClaims, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, err := user.ParseRole(claims.Role)
	if err != nil {
		return nil, ErrInvalidToken
	}

	result := &TokenClaims{
		UserID:   userID,
		Email:    claims.Email,
		UserName: claims.UserName,
		Role:     role,
	}
	if claims.IssuedAt != nil {
		result.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		result.ExpiresAt = claims.ExpiresAt.Time
	}

	return result, nil
}

// mapJWTError maps jwt/v5 sentinel errors to our error types
func mapJWTError(err error) error {
	if errors.Is(err, jwt.ErrTokenExpired) {
		return ErrExpiredToken
	}
	return ErrInvalidToken
}
