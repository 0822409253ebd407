package auth

import (
	"fmt"
	"time"

	"aidanwoods.dev/go-paseto"
	"github.com/google/uuid"

	"authservice/internal/user"
)

// PasetoService handles PASETO token creation and validation
// Uses v4.local (symmetric encryption with XChaCha20-Poly1305)
type PasetoService struct {
	symmetricKey paseto.V4SymmetricKey
	issuer       string
	audience     string
	duration     time.Duration
}

func NewPasetoService(symmetricKey []byte, issuer, audience string, duration time.Duration) (*PasetoService, error) {
	if len(symmetricKey) != 32 {
		return nil, fmt.Errorf("symmetric key must be exactly 32 bytes, got %d", len(symmetricKey))
	}

	key, err := paseto.V4SymmetricKeyFromBytes(symmetricKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create symmetric key: %w", err)
	}

	return &PasetoService{
		symmetricKey: key,
		issuer:       issuer,
		audience:     audience,
		duration:     duration,
	}, nil
}

var _ TokenService = (*PasetoService)(nil)

// CreateToken generates a new PASETO v4.local token with the user's identity claims
func (s *PasetoService) CreateToken(u *user.User) (string, error) {
	now := time.Now()

	token := paseto.NewToken()
	token.SetIssuer(s.issuer)
	token.SetAudience(s.audience)
	token.SetSubject(u.ID.String())
	token.SetNotBefore(now)
	token.SetIssuedAt(now)
	token.SetExpiration(now.Add(s.duration))
	token.SetString("email", u.Email)
	token.SetString("userName", u.UserName)
	token.SetString("role", u.Role.String())

	return token.V4Encrypt(s.symmetricKey, nil), nil
}

// VerifyToken validates a PASETO v4.local token and returns the claims
func (s *PasetoService) VerifyToken(tokenStr string) (*TokenClaims, error) {
	parser := paseto.NewParser()
	parser.AddRule(paseto.IssuedBy(s.issuer))
	parser.AddRule(paseto.ForAudience(s.audience))

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		// The parser checks expiration by default; distinguish expired
		// from invalid
		if exp, expErr := tokenExpiration(tokenStr, s.symmetricKey); expErr == nil && time.Now().After(exp) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	return claimsFromPaseto(token)
}

// ExtractUserID decrypts the token and reads the subject without applying
// any validation rules. Diagnostic use only.
func (s *PasetoService) ExtractUserID(tokenStr string) (uuid.UUID, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(s.symmetricKey, tokenStr, nil)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	subject, err := token.GetSubject()
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	id, err := uuid.Parse(subject)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	return id, nil
}

func claimsFromPaseto(token *paseto.Token) (*TokenClaims, error) {
	subject, err := token.GetSubject()
	if err != nil {
		return nil, ErrInvalidToken
	}

	userID, err := uuid.Parse(subject)
	if err != nil {
		return nil, ErrInvalidToken
	}

	email, err := token.GetString("email")
	if err != nil {
		return nil, ErrInvalidToken
	}

	userName, err := token.GetString("userName")
	if err != nil {
		return nil, ErrInvalidToken
	}

	roleStr, err := token.GetString("role")
	if err != nil {
		return nil, ErrInvalidToken
	}

	role, err := user.ParseRole(roleStr)
	if err != nil {
		return nil, ErrInvalidToken
	}

	issuedAt, err := token.GetIssuedAt()
	if err != nil {
		return nil, ErrInvalidToken
	}

	expiresAt, err := token.GetExpiration()
	if err != nil {
		return nil, ErrInvalidToken
	}

	return &TokenClaims{
		UserID:    userID,
		Email:     email,
		UserName:  userName,
		Role:      role,
		IssuedAt:  issuedAt,
		ExpiresAt: expiresAt,
	}, nil
}

// tokenExpiration reads the expiration claim without enforcing it
func tokenExpiration(tokenStr string, key paseto.V4SymmetricKey) (time.Time, error) {
	parser := paseto.NewParserWithoutExpiryCheck()

	token, err := parser.ParseV4Local(key, tokenStr, nil)
	if err != nil {
		return time.Time{}, err
	}

	return token.GetExpiration()
}
