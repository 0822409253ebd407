package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"authservice/internal/database"
)

// Repository is the Postgres-backed Store implementation
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

// Insert creates a new user and returns its generated ID
func (r *Repository) Insert(ctx context.Context, u *User) (uuid.UUID, error) {
	dbUser := mapModelToDBUser(u)
	dbUser.Email = strings.ToLower(u.Email)

	_, err := r.db.NewInsert().
		Model(dbUser).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key value violates unique constraint") {
			return uuid.Nil, ErrDuplicateEmail
		}
		return uuid.Nil, fmt.Errorf("failed to insert user: %w", err)
	}

	u.ID = dbUser.ID
	u.CreatedAt = dbUser.CreatedAt
	return dbUser.ID, nil
}

// GetByID retrieves a user by ID
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("id = ?", id).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return mapDBUserToModel(dbUser)
}

// GetByEmail retrieves a user by email. Lookup is lowercase-normalized.
func (r *Repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("email = ?", strings.ToLower(email)).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return mapDBUserToModel(dbUser)
}

// GetByUserName retrieves a user by username
func (r *Repository) GetByUserName(ctx context.Context, userName string) (*User, error) {
	dbUser := new(database.User)
	err := r.db.NewSelect().
		Model(dbUser).
		Where("user_name = ?", userName).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}

	return mapDBUserToModel(dbUser)
}

// List retrieves all users ordered by creation time
func (r *Repository) List(ctx context.Context) ([]*User, error) {
	var dbUsers []*database.User
	err := r.db.NewSelect().
		Model(&dbUsers).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*User, 0, len(dbUsers))
	for _, dbUser := range dbUsers {
		u, err := mapDBUserToModel(dbUser)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, nil
}

// Update persists the full user record. Callers bump UpdatedAt before calling.
func (r *Repository) Update(ctx context.Context, u *User) error {
	dbUser := mapModelToDBUser(u)
	dbUser.Email = strings.ToLower(u.Email)

	result, err := r.db.NewUpdate().
		Model(dbUser).
		WherePK().
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// Delete removes a user
func (r *Repository) Delete(ctx context.Context, u *User) error {
	result, err := r.db.NewDelete().
		Model((*database.User)(nil)).
		Where("id = ?", u.ID).
		Exec(ctx)

	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// mapDBUserToModel converts database model to domain model
func mapDBUserToModel(dbu *database.User) (*User, error) {
	role, err := ParseRole(dbu.Role)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w", dbu.ID, err)
	}

	return &User{
		ID:                    dbu.ID,
		UserName:              dbu.UserName,
		FirstName:             dbu.FirstName,
		LastName:              dbu.LastName,
		Email:                 dbu.Email,
		PasswordHash:          dbu.PasswordHash,
		Role:                  role,
		PhoneNumber:           dbu.PhoneNumber,
		IsActive:              dbu.IsActive,
		IsLocked:              dbu.IsLocked,
		IsEmailConfirmed:      dbu.IsEmailConfirmed,
		LockoutEnd:            dbu.LockoutEnd,
		RefreshToken:          dbu.RefreshToken,
		RefreshTokenExpiresAt: dbu.RefreshTokenExpiresAt,
		ResetToken:            dbu.ResetToken,
		ResetTokenExpiresAt:   dbu.ResetTokenExpiresAt,
		CreatedAt:             dbu.CreatedAt,
		UpdatedAt:             dbu.UpdatedAt,
	}, nil
}

// mapModelToDBUser converts domain model to database model
func mapModelToDBUser(u *User) *database.User {
	return &database.User{
		ID:                    u.ID,
		UserName:              u.UserName,
		FirstName:             u.FirstName,
		LastName:              u.LastName,
		Email:                 u.Email,
		PasswordHash:          u.PasswordHash,
		Role:                  u.Role.String(),
		PhoneNumber:           u.PhoneNumber,
		IsActive:              u.IsActive,
		IsLocked:              u.IsLocked,
		IsEmailConfirmed:      u.IsEmailConfirmed,
		LockoutEnd:            u.LockoutEnd,
		RefreshToken:          u.RefreshToken,
		RefreshTokenExpiresAt: u.RefreshTokenExpiresAt,
		ResetToken:            u.ResetToken,
		ResetTokenExpiresAt:   u.ResetTokenExpiresAt,
		CreatedAt:             u.CreatedAt,
		UpdatedAt:             u.UpdatedAt,
	}
}
