package user

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"authservice/internal/logging"
)

// Service provides the thin profile layer over the credential store:
// lookups, profile updates, and account deletion.
type Service struct {
	store  Store
	logger *logging.Logger
}

func NewService(store Store, logger *logging.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// GetAll returns the public profiles of all users
func (s *Service) GetAll(ctx context.Context) ([]*Profile, error) {
	users, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]*Profile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, u.ToProfile())
	}
	return profiles, nil
}

// GetByID returns a user's public profile by id
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return u.ToProfile(), nil
}

// GetByEmail returns a user's public profile by email
func (s *Service) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	u, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	return u.ToProfile(), nil
}

// GetByUserName returns a user's public profile by username
func (s *Service) GetByUserName(ctx context.Context, userName string) (*Profile, error) {
	u, err := s.store.GetByUserName(ctx, userName)
	if err != nil {
		return nil, err
	}
	return u.ToProfile(), nil
}

// UpdateProfileParams carries the mutable profile fields
type UpdateProfileParams struct {
	UserName    string
	FirstName   *string
	LastName    *string
	PhoneNumber *string
}

// UpdateProfile replaces the user's profile fields. Email, role, password
// and session state are not touched here.
func (s *Service) UpdateProfile(ctx context.Context, id uuid.UUID, params UpdateProfileParams) error {
	if strings.TrimSpace(params.UserName) == "" {
		return ErrUserNameRequired
	}

	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	u.UserName = params.UserName
	u.FirstName = params.FirstName
	u.LastName = params.LastName
	u.PhoneNumber = params.PhoneNumber
	u.UpdatedAt = time.Now()

	if err := s.store.Update(ctx, u); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	s.logger.Info("profile updated", "user_id", id)
	return nil
}

// Delete removes a user account
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	u, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.Delete(ctx, u); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	s.logger.Info("user deleted", "user_id", id)
	return nil
}
