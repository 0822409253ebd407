package auth

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"

	"authservice/internal/logging"
	"authservice/internal/user"
)

var (
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrFieldsRequired       = errors.New("required fields are missing")
	ErrPasswordMismatch     = errors.New("passwords do not match")
	ErrWeakPassword         = errors.New("password must be at least 8 characters with an uppercase letter, a lowercase letter, a digit and a symbol")
	ErrInvalidEmailFormat   = errors.New("invalid email format")
	ErrEmailTaken           = errors.New("email is already taken")
	ErrCurrentPassword      = errors.New("current password is incorrect")
	ErrRefreshTokenRequired = errors.New("refresh token is required")
	ErrRefreshTokenInvalid  = errors.New("refresh token is invalid")
	ErrRefreshTokenExpired  = errors.New("refresh token has expired")
	ErrResetTokenInvalid    = errors.New("reset token is invalid or expired")
)

// TokenPair bundles a short-lived access token and a long-lived refresh token
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Service orchestrates the authentication session state machine: login,
// refresh, logout, and the password change/forgot/reset flows. All session
// state lives on the user record; expiry checks are lazy and writes are
// last-write-wins.
type Service struct {
	store           user.Store
	hasher          *PasswordHasher
	tokens          TokenService
	logger          *logging.Logger
	refreshDuration time.Duration
	resetDuration   time.Duration
}

func NewService(
	store user.Store,
	hasher *PasswordHasher,
	tokens TokenService,
	logger *logging.Logger,
	refreshDuration time.Duration,
	resetDuration time.Duration,
) *Service {
	return &Service{
		store:           store,
		hasher:          hasher,
		tokens:          tokens,
		logger:          logger,
		refreshDuration: refreshDuration,
		resetDuration:   resetDuration,
	}
}

// Register creates a new user account
func (s *Service) Register(ctx context.Context, userName, email, password, confirmPassword string) (*user.User, error) {
	// Validate input
	if strings.TrimSpace(userName) == "" || strings.TrimSpace(email) == "" || password == "" || confirmPassword == "" {
		return nil, ErrFieldsRequired
	}
	if len(email) > 254 {
		return nil, ErrInvalidEmailFormat
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmailFormat
	}
	if password != confirmPassword {
		return nil, ErrPasswordMismatch
	}
	if !IsStrong(password) {
		return nil, ErrWeakPassword
	}

	// Reject an already-claimed email before hashing
	_, err := s.store.GetByEmail(ctx, email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	passwordHash, _, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	newUser := &user.User{
		UserName:         userName,
		Email:            email,
		PasswordHash:     passwordHash,
		Role:             user.RoleUser,
		IsActive:         true,
		IsEmailConfirmed: false,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	if _, err := s.store.Insert(ctx, newUser); err != nil {
		if errors.Is(err, user.ErrDuplicateEmail) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", newUser.ID)
	return newUser, nil
}

// Login authenticates a user and opens a session. An unknown email and a
// wrong password produce the same error so responses do not reveal which
// accounts exist.
func (s *Service) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(password, existing.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.CreateToken(existing)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	// Persist on a freshly loaded copy so the session write can't carry
	// stale fields from the record used for verification
	tracked, err := s.store.GetByID(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to reload user: %w", err)
	}

	tracked.SetRefreshToken(refreshToken, time.Now().Add(s.refreshDuration))
	tracked.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, tracked); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	s.logger.Info("user logged in", "user_id", existing.ID)

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh rotates the session: the presented refresh token must match the
// stored one and be unexpired, then a new pair is issued and the old token
// is invalidated by overwrite.
func (s *Service) Refresh(ctx context.Context, userID uuid.UUID, presentedToken string) (*TokenPair, error) {
	if strings.TrimSpace(presentedToken) == "" {
		return nil, ErrRefreshTokenRequired
	}

	existing, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrRefreshTokenInvalid
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if existing.RefreshToken == nil || !tokensMatch(presentedToken, *existing.RefreshToken) {
		return nil, ErrRefreshTokenInvalid
	}

	if existing.RefreshTokenExpiresAt == nil || !existing.RefreshTokenExpiresAt.After(time.Now()) {
		return nil, ErrRefreshTokenExpired
	}

	accessToken, err := s.tokens.CreateToken(existing)
	if err != nil {
		return nil, fmt.Errorf("failed to create access token: %w", err)
	}

	refreshToken, err := NewRefreshToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	existing.SetRefreshToken(refreshToken, time.Now().Add(s.refreshDuration))
	existing.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, existing); err != nil {
		return nil, fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Logout clears the session. Unknown users are a no-op success so the call
// is idempotent.
func (s *Service) Logout(ctx context.Context, email string) error {
	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !existing.HasActiveSession() {
		// Already logged out; don't touch the record
		return nil
	}

	existing.ClearRefreshToken()
	existing.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to clear refresh token: %w", err)
	}

	s.logger.Info("user logged out", "user_id", existing.ID)
	return nil
}

// ChangePassword replaces the password after verifying the current one
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, currentPassword, newPassword, confirmNewPassword string) error {
	if strings.TrimSpace(currentPassword) == "" ||
		strings.TrimSpace(newPassword) == "" ||
		strings.TrimSpace(confirmNewPassword) == "" {
		return ErrFieldsRequired
	}
	if newPassword != confirmNewPassword {
		return ErrPasswordMismatch
	}
	if !IsStrong(newPassword) {
		return ErrWeakPassword
	}

	existing, err := s.store.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return user.ErrNotFound
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if !s.hasher.Verify(currentPassword, existing.PasswordHash) {
		return ErrCurrentPassword
	}

	passwordHash, _, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	existing.PasswordHash = passwordHash
	existing.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password changed", "user_id", existing.ID)
	return nil
}

// ForgotPassword starts the reset flow. It succeeds regardless of whether
// the account exists to prevent email enumeration.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return ErrFieldsRequired
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil
		}
		// Don't reveal store trouble either; log and report success
		s.logger.Warn("failed to get user for password reset", "error", err)
		return nil
	}

	resetToken, err := NewResetToken()
	if err != nil {
		s.logger.Warn("failed to generate reset token", "error", err)
		return nil
	}

	existing.SetResetToken(resetToken, time.Now().Add(s.resetDuration))
	existing.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, existing); err != nil {
		s.logger.Warn("failed to persist reset token", "error", err)
		return nil
	}

	s.logger.Info("reset token issued", "user_id", existing.ID)
	return nil
}

// ResetPassword consumes a reset token exactly once: on success the new
// hash is stored and both reset fields are cleared in the same write.
func (s *Service) ResetPassword(ctx context.Context, email, resetToken, newPassword, confirmNewPassword string) error {
	if strings.TrimSpace(email) == "" ||
		strings.TrimSpace(resetToken) == "" ||
		strings.TrimSpace(newPassword) == "" ||
		strings.TrimSpace(confirmNewPassword) == "" {
		return ErrFieldsRequired
	}
	if newPassword != confirmNewPassword {
		return ErrPasswordMismatch
	}
	if !IsStrong(newPassword) {
		return ErrWeakPassword
	}

	existing, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			// No-op success, same anti-enumeration stance as ForgotPassword
			return nil
		}
		return fmt.Errorf("failed to get user: %w", err)
	}

	if existing.ResetToken == nil || !tokensMatch(resetToken, *existing.ResetToken) {
		return ErrResetTokenInvalid
	}
	if existing.ResetTokenExpiresAt == nil || !existing.ResetTokenExpiresAt.After(time.Now()) {
		return ErrResetTokenInvalid
	}

	passwordHash, _, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	existing.PasswordHash = passwordHash
	existing.ClearResetToken()
	existing.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, existing); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.logger.Info("password reset", "user_id", existing.ID)
	return nil
}
